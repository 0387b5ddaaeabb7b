package pgx

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/lmoralesc/pausia/core"
)

func (a *Adapter) GetCredentialByEmail(ctx context.Context, email string) (*core.Credential, error) {
	q := `SELECT subject_id, email, password_hash FROM public.credentials WHERE email = $1`

	credential := &core.Credential{}
	var hash *string
	err := a.pool.QueryRow(ctx, q, email).Scan(&credential.SubjectID, &credential.Email, &hash)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, core.ErrUserNotFound
		}
		return nil, err
	}
	credential.PasswordHash = hash
	return credential, nil
}
