package pgx

import (
	"context"

	"github.com/lmoralesc/pausia/core"
)

// ResolveEmail maps a free-text identifier (typically the person's full
// name) to exactly one credential email. Zero matches and multiple matches
// are reported as distinct errors so the sign-in form can explain itself.
func (a *Adapter) ResolveEmail(ctx context.Context, identifier string) (string, error) {
	q := `SELECT c.email
	        FROM public.credentials c
	        JOIN public.profiles p ON p.id = c.subject_id
	       WHERE lower(p.full_name) = lower($1)
	       LIMIT 2`

	rows, err := a.pool.Query(ctx, q, identifier)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return "", err
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	switch len(emails) {
	case 0:
		return "", core.ErrLoginNotFound
	case 1:
		return emails[0], nil
	default:
		return "", core.ErrLoginAmbiguous
	}
}
