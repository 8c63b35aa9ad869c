// Package repomanager defines the factory through which services obtain
// repository implementations, keeping them bindable to either a live
// connection or an open transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/wayfarer-app/wayfarer/internal/dbx"
	"github.com/wayfarer-app/wayfarer/internal/server/repositories/refreshtokens"
	"github.com/wayfarer-app/wayfarer/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to the provided DBTX and
// exposes a schema migration hook.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
