package repositories

import (
	"context"

	"github.com/Dorstol/BitBuddies/internal/domain/entities"
	"github.com/Dorstol/BitBuddies/pkg/utils"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uint) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	UpdatePassword(ctx context.Context, id uint, hashedPassword string) error
	UpdatePhoto(ctx context.Context, id uint, photo string) error
	SetVerified(ctx context.Context, id uint) error
	List(ctx context.Context, filter entities.UserFilter, p utils.PaginationParams) ([]*entities.User, int64, error)
}
