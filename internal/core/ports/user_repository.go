package ports

import (
	"context"
	"time"

	"github.com/99minutos/users-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
//
// Update and Delete perform the existence check and the write as one
// store-level unit; both return domain.ErrUserNotFound when id is absent.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, id int64, patch domain.UserPatch, at time.Time) (*domain.User, error)
	Delete(ctx context.Context, id int64) (*domain.User, error)
}
