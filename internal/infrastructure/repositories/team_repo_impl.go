package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Dorstol/BitBuddies/internal/domain/entities"
	domainerrors "github.com/Dorstol/BitBuddies/internal/domain/errors"
	"github.com/Dorstol/BitBuddies/internal/infrastructure/models"
	"github.com/Dorstol/BitBuddies/pkg/utils"
)

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create inserts the team row. The owner membership row is a separate
// AddMember call made in the same transaction by the usecase. The
// partial unique index on (owner_id) over non-Ready teams makes a
// concurrent second active team an ErrAlreadyExists, not a second row.
func (r *TeamRepository) Create(ctx context.Context, team *entities.Team) error {
	m := &models.Team{
		Title:       team.Title,
		ProjectName: team.ProjectName,
		Description: team.Description,
		Status:      string(team.Status),
		OwnerID:     team.OwnerID,
	}
	if err := getDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	team.ID = m.ID
	team.CreatedAt = m.CreatedAt
	team.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID loads a team with its members.
func (r *TeamRepository) GetByID(ctx context.Context, id uint) (*entities.Team, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate loads a team holding a row lock until the enclosing
// transaction ends, serializing concurrent membership mutations.
// SQLite has no row locks; its single writer already serializes.
func (r *TeamRepository) GetByIDForUpdate(ctx context.Context, id uint) (*entities.Team, error) {
	return r.getByID(ctx, id, true)
}

func (r *TeamRepository) getByID(ctx context.Context, id uint, forUpdate bool) (*entities.Team, error) {
	db := getDB(ctx, r.db).WithContext(ctx)
	if forUpdate && db.Dialector.Name() == "postgres" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var m models.Team
	err := db.
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("users.id ASC") }).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return teamToEntity(&m), nil
}

// List lists teams matching the filter, members preloaded.
func (r *TeamRepository) List(ctx context.Context, filter entities.TeamFilter, p utils.PaginationParams) ([]*entities.Team, int64, error) {
	query := getDB(ctx, r.db).WithContext(ctx).Model(&models.Team{})
	query = applyTeamFilter(query, filter)
	return r.listTeams(query, p)
}

// ListByMember lists the teams userID belongs to, matching the filter.
func (r *TeamRepository) ListByMember(ctx context.Context, userID uint, filter entities.TeamFilter, p utils.PaginationParams) ([]*entities.Team, int64, error) {
	query := getDB(ctx, r.db).WithContext(ctx).
		Model(&models.Team{}).
		Joins("JOIN users_teams ut ON ut.team_id = teams.id").
		Where("ut.user_id = ?", userID)
	query = applyTeamFilter(query, filter)
	return r.listTeams(query, p)
}

// CountOwnedActive counts teams owned by ownerID whose status is not
// Ready. Called inside the create-team transaction.
func (r *TeamRepository) CountOwnedActive(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).WithContext(ctx).
		Model(&models.Team{}).
		Where("owner_id = ? AND status <> ?", ownerID, string(entities.StatusReady)).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Update writes the mutable team fields.
func (r *TeamRepository) Update(ctx context.Context, team *entities.Team) error {
	updates := map[string]interface{}{
		"title":        team.Title,
		"project_name": team.ProjectName,
		"description":  team.Description,
		"status":       string(team.Status),
		"updated_at":   time.Now(),
	}

	result := getDB(ctx, r.db).WithContext(ctx).
		Model(&models.Team{}).
		Where("id = ?", team.ID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// Delete removes the team and its membership rows. The membership
// delete is explicit so the invariant holds even where the schema-level
// cascade is not enforced.
func (r *TeamRepository) Delete(ctx context.Context, id uint) error {
	db := getDB(ctx, r.db).WithContext(ctx)
	if err := db.Where("team_id = ?", id).Delete(&models.UserTeam{}).Error; err != nil {
		return err
	}
	result := db.Delete(&models.Team{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// AddMember inserts a membership row. The composite primary key turns
// a duplicate join into ErrAlreadyExists.
func (r *TeamRepository) AddMember(ctx context.Context, teamID, userID uint) error {
	row := &models.UserTeam{UserID: userID, TeamID: teamID}
	if err := getDB(ctx, r.db).WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// RemoveMember deletes a membership row.
func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, userID uint) error {
	result := getDB(ctx, r.db).WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&models.UserTeam{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *TeamRepository) listTeams(query *gorm.DB, p utils.PaginationParams) ([]*entities.Team, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("users.id ASC") }).
		Order("teams.id ASC")
	if p.Limit > 0 {
		query = query.Limit(p.Limit).Offset(p.CalculateOffset())
	}

	var ms []models.Team
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	items := make([]*entities.Team, 0, len(ms))
	for i := range ms {
		items = append(items, teamToEntity(&ms[i]))
	}
	return items, total, nil
}

func applyTeamFilter(query *gorm.DB, filter entities.TeamFilter) *gorm.DB {
	if filter.Title != "" {
		query = query.Where("teams.title LIKE ?", "%"+filter.Title+"%")
	}
	if filter.ProjectName != "" {
		query = query.Where("teams.project_name LIKE ?", "%"+filter.ProjectName+"%")
	}
	if filter.Status != "" {
		query = query.Where("teams.status = ?", string(filter.Status))
	}
	return query
}

func teamToEntity(m *models.Team) *entities.Team {
	members := make([]*entities.User, 0, len(m.Members))
	for i := range m.Members {
		members = append(members, userToEntity(&m.Members[i]))
	}
	return &entities.Team{
		ID:          m.ID,
		Title:       m.Title,
		ProjectName: m.ProjectName,
		Description: m.Description,
		Status:      entities.TeamStatus(m.Status),
		OwnerID:     m.OwnerID,
		Members:     members,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
