package postgres

import (
	"context"
	"database/sql"
)

// SQLQuerier is the subset of database/sql used by the repositories,
// satisfied by both *sql.DB and *sql.Tx
type SQLQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Artifact metadata lives in one table per visibility flavor; repositories
// are parameterized by table name instead of carrying a visibility column.
const (
	TableArtifactPrivate = "artifact_private"
	TableArtifactPublic  = "artifact_public"
)
