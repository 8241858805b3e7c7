package repomanager

import (
	"context"
	"fmt"
)

// New builds the manager for backend ("postgres" or "memory").
func New(ctx context.Context, backend, dsn string) (RepositoryManager, error) {
	switch backend {
	case "", BackendPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("postgres backend requires a database DSN")
		}
		m, err := NewPostgresRepositoryManager(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return m, nil
	case BackendMemory:
		return NewInMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
