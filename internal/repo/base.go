package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const dialectPostgres = "postgres"

// Base provides a shared foundation for domain repositories.
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

// IsPostgres reports whether the connection talks to Postgres.
func (b Base) IsPostgres() bool {
	return b.db != nil && b.db.Dialector != nil && b.db.Dialector.Name() == dialectPostgres
}

// ForShare is DB with a FOR SHARE row lock on Postgres. Other dialects
// (sqlite in tests) serialize writers already and get the plain query.
func (b Base) ForShare(ctx context.Context) *gorm.DB {
	q := b.DB(ctx)
	if b.IsPostgres() {
		q = q.Clauses(clause.Locking{Strength: clause.LockingStrengthShare})
	}
	return q
}
