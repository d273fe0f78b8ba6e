package ports

import (
	"context"

	"github.com/99minutos/users-api/internal/core/domain"
)

// UserService defines the record operations exposed to the HTTP layer.
type UserService interface {
	ListAll(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, actor domain.Identity, id int64, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, actor domain.Identity, id int64) (*domain.DeletedUser, error)
}
