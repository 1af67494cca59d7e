package repositories

import (
	"context"

	"github.com/Dorstol/BitBuddies/internal/domain/entities"
	"github.com/Dorstol/BitBuddies/pkg/utils"
)

// TeamRepository defines team and membership data operations. Membership
// mutations are explicit insert/delete statements on the join table.
type TeamRepository interface {
	Create(ctx context.Context, team *entities.Team) error
	GetByID(ctx context.Context, id uint) (*entities.Team, error)
	// GetByIDForUpdate locks the team row for the rest of the enclosing
	// transaction so membership checks and their writes serialize.
	GetByIDForUpdate(ctx context.Context, id uint) (*entities.Team, error)
	List(ctx context.Context, filter entities.TeamFilter, p utils.PaginationParams) ([]*entities.Team, int64, error)
	ListByMember(ctx context.Context, userID uint, filter entities.TeamFilter, p utils.PaginationParams) ([]*entities.Team, int64, error)
	CountOwnedActive(ctx context.Context, ownerID uint) (int64, error)
	Update(ctx context.Context, team *entities.Team) error
	Delete(ctx context.Context, id uint) error
	AddMember(ctx context.Context, teamID, userID uint) error
	RemoveMember(ctx context.Context, teamID, userID uint) error
}
