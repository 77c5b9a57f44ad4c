package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecommerce-backend/internal/domain/user"
	"ecommerce-backend/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository implements user.Repository on gorm
type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	now := time.Now()
	u.ID = uuid.New()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Role == "" {
		u.Role = user.RoleCustomer
	}

	dbModel := toUserModel(u)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if isUniqueViolation(err) {
			return user.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.ID = dbModel.ID
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return r.first(ctx, "failed to get user", func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", userID)
	})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.first(ctx, "failed to get user", func(db *gorm.DB) *gorm.DB {
		return db.Where("email = ?", email)
	})
}

func (r *UserRepository) GetByLogin(ctx context.Context, identifier string) (*user.User, error) {
	return r.first(ctx, "failed to get user", func(db *gorm.DB) *gorm.DB {
		return db.Where("email = ? OR mobile = ?", identifier, identifier).Order("created_at ASC")
	})
}

func (r *UserRepository) GetByIdentifier(ctx context.Context, id user.Identifier) (*user.User, error) {
	return r.first(ctx, "failed to get user", identifierScope(id))
}

func (r *UserRepository) GetByRefreshToken(ctx context.Context, userID uuid.UUID, token string) (*user.User, error) {
	return r.first(ctx, "failed to get user by refresh token", func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ? AND refresh_token = ?", userID, token)
	})
}

func (r *UserRepository) first(ctx context.Context, failure string, scope func(*gorm.DB) *gorm.DB) (*user.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).Scopes(scope).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", failure, err)
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*user.User, error) {
	var dbModels []models.UserModel
	err := r.db.DB.WithContext(ctx).Order("created_at DESC").Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	users := make([]*user.User, len(dbModels))
	for i := range dbModels {
		users[i] = toUserEntity(&dbModels[i])
	}

	return users, nil
}

func (r *UserRepository) ResetRegistration(ctx context.Context, u *user.User) error {
	u.IsVerified = false
	u.UpdatedAt = time.Now()

	return r.update(ctx, u.ID, "failed to reset registration", map[string]interface{}{
		"name":            u.Name,
		"mobile":          u.Mobile,
		"password_hashed": u.PasswordHashed,
		"is_verified":     false,
		"updated_at":      u.UpdatedAt,
	})
}

func (r *UserRepository) MarkVerified(ctx context.Context, userID uuid.UUID) error {
	return r.update(ctx, userID, "failed to mark user verified", map[string]interface{}{
		"is_verified": true,
		"updated_at":  time.Now(),
	})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	return r.update(ctx, userID, "failed to update password", map[string]interface{}{
		"password_hashed": passwordHash,
		"updated_at":      time.Now(),
	})
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, userID uuid.UUID, token string) error {
	return r.update(ctx, userID, "failed to store refresh token", map[string]interface{}{
		"refresh_token": token,
		"updated_at":    time.Now(),
	})
}

func (r *UserRepository) update(ctx context.Context, userID uuid.UUID, failure string, fields map[string]interface{}) error {
	result := r.db.DB.WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(fields)

	if result.Error != nil {
		return fmt.Errorf("%s: %w", failure, result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

func toUserModel(u *user.User) *models.UserModel {
	return &models.UserModel{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Mobile:         u.Mobile,
		PasswordHashed: u.PasswordHashed,
		Role:           string(u.Role),
		IsVerified:     u.IsVerified,
		RefreshToken:   u.RefreshToken,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func toUserEntity(m *models.UserModel) *user.User {
	return &user.User{
		ID:             m.ID,
		Name:           m.Name,
		Email:          m.Email,
		Mobile:         m.Mobile,
		PasswordHashed: m.PasswordHashed,
		Role:           user.Role(m.Role),
		IsVerified:     m.IsVerified,
		RefreshToken:   m.RefreshToken,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
