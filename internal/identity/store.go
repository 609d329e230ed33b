// Package identity holds the user account and base directory stores. The
// directory lives in its own datastore, separate from the ledger tables, and
// is consumed through these interfaces so the persistent and in-memory
// implementations are interchangeable.
package identity

import (
	"context"

	"basetrack/internal/model"

	"github.com/google/uuid"
)

// UserStore is the account directory contract.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// FindByIdentifier matches on username or email, case-insensitively.
	FindByIdentifier(ctx context.Context, identifier string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

// BaseStore is the base directory contract.
type BaseStore interface {
	Create(ctx context.Context, base *model.Base) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Base, error)
	ListActive(ctx context.Context) ([]model.Base, error)
}
