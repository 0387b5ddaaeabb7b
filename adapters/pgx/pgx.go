package pgx

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lmoralesc/pausia/core"
)

// Adapter implements the lookup and storage ports over a Postgres pool.
type Adapter struct {
	pool *pgxpool.Pool
}

var (
	_ core.ProfileStore  = (*Adapter)(nil)
	_ core.LoginResolver = (*Adapter)(nil)
	_ core.AuthStorage   = (*Adapter)(nil)
)

func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{
		pool: pool,
	}
}
