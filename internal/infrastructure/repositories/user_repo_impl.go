package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Dorstol/BitBuddies/internal/domain/entities"
	domainerrors "github.com/Dorstol/BitBuddies/internal/domain/errors"
	"github.com/Dorstol/BitBuddies/internal/infrastructure/models"
	"github.com/Dorstol/BitBuddies/pkg/utils"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user. A concurrent insert of the same email
// trips the unique index and surfaces as ErrAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	m := userToModel(user)
	if err := getDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	user.ID = m.ID
	user.CreatedAt = m.CreatedAt
	user.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*entities.User, error) {
	var m models.User
	if err := getDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return userToEntity(&m), nil
}

// GetByEmail gets a user by email. The lookup is case-sensitive, like
// the unique index backing it.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var m models.User
	if err := getDB(ctx, r.db).WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return userToEntity(&m), nil
}

// Update updates the mutable profile fields
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	updates := map[string]interface{}{
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"position":   string(user.Position),
		"contact":    user.Contact,
		"updated_at": time.Now(),
	}

	result := getDB(ctx, r.db).WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(updates)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the stored credential hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, hashedPassword string) error {
	result := getDB(ctx, r.db).WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"hashed_password": hashedPassword, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdatePhoto stores the uploaded photo filename
func (r *UserRepository) UpdatePhoto(ctx context.Context, id uint, photo string) error {
	result := getDB(ctx, r.db).WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"photo": photo, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SetVerified flips is_verified to true
func (r *UserRepository) SetVerified(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_verified": true, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// List lists users with optional filters and pagination
func (r *UserRepository) List(ctx context.Context, filter entities.UserFilter, p utils.PaginationParams) ([]*entities.User, int64, error) {
	query := getDB(ctx, r.db).WithContext(ctx).Model(&models.User{})

	if name := strings.TrimSpace(filter.FullName); name != "" {
		parts := strings.Fields(name)
		if len(parts) >= 2 {
			query = query.Where("first_name LIKE ? AND last_name LIKE ?", "%"+parts[0]+"%", "%"+parts[1]+"%")
		} else {
			term := "%" + parts[0] + "%"
			query = query.Where("first_name LIKE ? OR last_name LIKE ?", term, term)
		}
	}
	if filter.Email != "" {
		query = query.Where("email LIKE ?", "%"+filter.Email+"%")
	}
	if filter.Position != "" {
		query = query.Where("position = ?", string(filter.Position))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("id ASC")
	if p.Limit > 0 {
		query = query.Limit(p.Limit).Offset(p.CalculateOffset())
	}

	var userModels []models.User
	if err := query.Find(&userModels).Error; err != nil {
		return nil, 0, err
	}

	users := make([]*entities.User, 0, len(userModels))
	for i := range userModels {
		users = append(users, userToEntity(&userModels[i]))
	}
	return users, total, nil
}

func userToEntity(m *models.User) *entities.User {
	return &entities.User{
		ID:             m.ID,
		Email:          m.Email,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		HashedPassword: m.HashedPassword,
		Position:       entities.Position(m.Position),
		Contact:        m.Contact,
		Photo:          m.Photo,
		IsActive:       m.IsActive,
		IsSuperuser:    m.IsSuperuser,
		IsVerified:     m.IsVerified,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func userToModel(e *entities.User) *models.User {
	return &models.User{
		ID:             e.ID,
		Email:          e.Email,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		HashedPassword: e.HashedPassword,
		Position:       string(e.Position),
		Contact:        e.Contact,
		Photo:          e.Photo,
		IsActive:       e.IsActive,
		IsSuperuser:    e.IsSuperuser,
		IsVerified:     e.IsVerified,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}
