package pgx

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/lmoralesc/pausia/core"
)

func (a *Adapter) CreateSession(ctx context.Context, session *core.StoredSession) error {
	q := `INSERT INTO public.sessions (id, subject_id, token_hash, expires_at, created_at)
	      VALUES ($1, $2, $3, $4, $5)`

	_, err := a.pool.Exec(ctx, q, session.ID, session.SubjectID, session.TokenHash, session.ExpiresAt, session.CreatedAt)
	return err
}

func (a *Adapter) GetSessionByHash(ctx context.Context, tokenHash string) (*core.StoredSession, error) {
	q := `SELECT id, subject_id, token_hash, expires_at, created_at FROM public.sessions WHERE token_hash = $1`

	session := &core.StoredSession{}
	err := a.pool.QueryRow(ctx, q, tokenHash).Scan(&session.ID, &session.SubjectID, &session.TokenHash, &session.ExpiresAt, &session.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, core.ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func (a *Adapter) UpdateSession(ctx context.Context, session *core.StoredSession) error {
	q := `UPDATE public.sessions SET expires_at = $1 WHERE token_hash = $2`

	tag, err := a.pool.Exec(ctx, q, session.ExpiresAt, session.TokenHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrSessionNotFound
	}
	return nil
}

func (a *Adapter) DeleteSessionByHash(ctx context.Context, tokenHash string) error {
	tag, err := a.pool.Exec(ctx, `DELETE FROM public.sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrSessionNotFound
	}
	return nil
}

func (a *Adapter) DeleteSubjectSessions(ctx context.Context, subjectID, keepTokenHash string) (int, error) {
	q := `DELETE FROM public.sessions WHERE subject_id = $1 AND token_hash <> $2`

	tag, err := a.pool.Exec(ctx, q, subjectID, keepTokenHash)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (a *Adapter) DeleteExpiredSessions(ctx context.Context) (int, error) {
	tag, err := a.pool.Exec(ctx, `DELETE FROM public.sessions WHERE expires_at < now()`)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
