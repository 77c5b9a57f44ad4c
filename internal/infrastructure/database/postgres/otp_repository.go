package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecommerce-backend/internal/domain/otp"
	"ecommerce-backend/internal/domain/user"
	"ecommerce-backend/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OTPRepository implements otp.Repository on gorm
type OTPRepository struct {
	db *DB
}

func NewOTPRepository(db *DB) otp.Repository {
	return &OTPRepository{db: db}
}

func (r *OTPRepository) UpsertSignup(ctx context.Context, record *otp.Record) error {
	record.Purpose = otp.PurposeSignup
	prepareRecord(record)

	dbModel := toOTPModel(record)
	err := r.db.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}, {Name: "purpose"}},
		TargetWhere: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "purpose = 'Signup'"},
		}},
		DoUpdates: clause.AssignmentColumns([]string{"otp", "mobile", "expires_at", "created_at"}),
	}).Create(dbModel).Error
	if err != nil {
		return fmt.Errorf("failed to upsert otp: %w", err)
	}

	return nil
}

func (r *OTPRepository) Create(ctx context.Context, record *otp.Record) error {
	prepareRecord(record)

	if err := r.db.DB.WithContext(ctx).Create(toOTPModel(record)).Error; err != nil {
		return fmt.Errorf("failed to create otp: %w", err)
	}

	return nil
}

func (r *OTPRepository) FindValid(ctx context.Context, id user.Identifier, code string, purpose otp.Purpose, now time.Time) (*otp.Record, error) {
	var dbModel models.OTPModel
	err := r.db.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(identifierScope(id)).
		Where("otp = ? AND purpose = ? AND expires_at > ?", code, string(purpose), now).
		Order("created_at DESC").
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, otp.ErrOTPNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find otp: %w", err)
	}

	return toOTPEntity(&dbModel), nil
}

func (r *OTPRepository) DeleteByIdentifier(ctx context.Context, id user.Identifier) (int64, error) {
	result := r.db.DB.WithContext(ctx).Scopes(identifierScope(id)).Delete(&models.OTPModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete otps: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *OTPRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.DB.WithContext(ctx).Where("expires_at < ?", before).Delete(&models.OTPModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired otps: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func prepareRecord(record *otp.Record) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
}

func toOTPModel(r *otp.Record) *models.OTPModel {
	return &models.OTPModel{
		ID:        r.ID,
		Email:     r.Email,
		Mobile:    r.Mobile,
		OTP:       r.Code,
		Purpose:   string(r.Purpose),
		ExpiresAt: r.ExpiresAt,
		CreatedAt: r.CreatedAt,
	}
}

func toOTPEntity(m *models.OTPModel) *otp.Record {
	return &otp.Record{
		ID:        m.ID,
		Email:     m.Email,
		Mobile:    m.Mobile,
		Code:      m.OTP,
		Purpose:   otp.Purpose(m.Purpose),
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}
}
