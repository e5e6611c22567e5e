package repository

import (
	"context"

	"github.com/gharbhada/gharbhada-api/internal/domain/entity"
)

// UserRepository is the account store the auth service depends on.
// Lookups are by normalized (lower-cased) email; uniqueness is enforced
// by the store, not the caller.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdateStatus(ctx context.Context, id, status string) error
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
}
