package repo

import (
	"context"

	"gorm.io/gorm"
)

const dialectPostgres = "postgres"

// Base provides the shared connection handling for catalog repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// SupportsRowLocks reports whether the dialect understands
// FOR UPDATE SKIP LOCKED. SQLite test databases do not.
func (b Base) SupportsRowLocks() bool {
	if b.db == nil || b.db.Dialector == nil {
		return false
	}
	return b.db.Dialector.Name() == dialectPostgres
}
