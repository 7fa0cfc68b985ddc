// Package repotest opens throwaway SQLite databases carrying the catalog
// schema so repository and service tests run without Postgres.
package repotest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/catalog-backend/pkg/db/models"
	"github.com/angelmondragon/catalog-backend/pkg/enums"
)

var schema = []string{
	`CREATE TABLE users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE product (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL,
  description TEXT,
  user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE product_interactions (
  user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  product_id INTEGER NOT NULL REFERENCES product(id) ON DELETE CASCADE,
  is_like INTEGER NOT NULL,
  deleted_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME,
  PRIMARY KEY (user_id, product_id)
);`,
}

// OpenSQLite returns an isolated in-memory database with the catalog tables.
// A single pooled connection keeps every statement on the same memory store.
func OpenSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("apply schema: %v", err)
		}
	}
	return db
}

// TxRunner runs callbacks inside a GORM transaction on the test database,
// standing in for db.Client.WithTx.
type TxRunner struct {
	DB *gorm.DB
}

func (r TxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.DB.WithContext(ctx).Transaction(fn)
}

// MustCreateUser inserts a user with a placeholder hash.
func MustCreateUser(t *testing.T, db *gorm.DB, username string, role enums.Role) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		PasswordHash: "hash",
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// MustCreateProduct inserts a product owned by ownerID.
func MustCreateProduct(t *testing.T, db *gorm.DB, ownerID int64, name string, price string) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:   name,
		Price:  decimal.RequireFromString(price),
		UserID: ownerID,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

// MustCreateInteraction inserts an interaction row directly. A non-nil
// deletedAt seeds a soft-deleted row.
func MustCreateInteraction(t *testing.T, db *gorm.DB, userID, productID int64, isLike bool, deletedAt *time.Time) {
	t.Helper()
	row := &models.ProductInteraction{
		UserID:    userID,
		ProductID: productID,
		IsLike:    isLike,
		DeletedAt: deletedAt,
	}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("create interaction: %v", err)
	}
}
