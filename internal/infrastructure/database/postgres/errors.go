package postgres

import (
	"errors"
	"strings"

	"ecommerce-backend/internal/domain/user"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "duplicate key")
}

// identifierScope restricts a query on a table with email and mobile columns.
// A zero Identifier selects nothing.
func identifierScope(id user.Identifier) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch id.Kind() {
		case user.IdentifierEmail:
			return db.Where("email = ?", id.Email())
		case user.IdentifierMobile:
			return db.Where("mobile = ?", id.Mobile())
		case user.IdentifierEither:
			return db.Where("email = ? AND mobile = ?", id.Email(), id.Mobile())
		default:
			return db.Where("1 = 0")
		}
	}
}
