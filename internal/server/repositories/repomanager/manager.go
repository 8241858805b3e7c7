// Package repomanager wires storage backends into the repositories the
// auth service depends on.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// RepositoryManager owns a storage backend and vends its repositories.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	RefreshTokens() refreshtokens.Repository
	Close() error
}
