package postgres

import (
	"context"

	"ecommerce-backend/internal/domain/otp"
	"ecommerce-backend/internal/domain/user"
	"ecommerce-backend/internal/usecase/auth"

	"gorm.io/gorm"
)

var _ auth.TxRunner = (*TxRunner)(nil)

// TxRunner runs callbacks inside a database transaction with repositories bound to it.
type TxRunner struct {
	db *DB
}

func NewTxRunner(db *DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run commits when fn returns nil and rolls back otherwise.
func (r *TxRunner) Run(ctx context.Context, fn func(users user.Repository, otps otp.Repository) error) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txDB := &DB{DB: tx}
		return fn(NewUserRepository(txDB), NewOTPRepository(txDB))
	})
}
