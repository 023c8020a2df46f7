package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const accountsSchema = `
CREATE TABLE IF NOT EXISTS accounts (
	id UUID PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash BYTEA NOT NULL,
	full_name TEXT NOT NULL DEFAULT '',
	grade TEXT NOT NULL DEFAULT '',
	school TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT '',
	state TEXT NOT NULL DEFAULT '',
	preferred_subjects TEXT[] NOT NULL DEFAULT '{}',
	learning_style TEXT NOT NULL DEFAULT '',
	approved BOOLEAN NOT NULL DEFAULT FALSE,
	email_confirmed BOOLEAN NOT NULL DEFAULT FALSE,
	token_version INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	last_login TIMESTAMPTZ NOT NULL DEFAULT 'epoch'
)`

// EnsureSchema creates the accounts table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, accountsSchema); err != nil {
		return fmt.Errorf("ensure accounts schema: %w", err)
	}
	return nil
}
