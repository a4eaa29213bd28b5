package db

import (
	"context"
	"path/filepath"
	"testing"

	"depotrack/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRepo opens a fresh sqlite database per test and runs the full
// migration, partial indexes included.
func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// sqlite handles one writer at a time; a single pooled connection
	// keeps concurrent tests from tripping over file locks.
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(conn))
	return NewRepo(conn)
}

func seedUser(t *testing.T, r *Repo) *models.User {
	t.Helper()
	u, err := r.CreateUser(context.Background(), CreateUserInput{
		Name:     "Test User",
		Email:    uuid.NewString() + "@example.com",
		Password: "password123",
		Role:     models.RoleStaff,
	})
	require.NoError(t, err)
	return u
}

func seedWarehouse(t *testing.T, r *Repo) *models.Warehouse {
	t.Helper()
	w, err := r.CreateWarehouse(context.Background(), CreateWarehouseInput{
		Name:     "Main Depot",
		Location: "12 Harbour Street",
	})
	require.NoError(t, err)
	return w
}

func seedItem(t *testing.T, r *Repo, warehouseID string) *models.Item {
	t.Helper()
	it, err := r.CreateItem(context.Background(), CreateItemInput{
		Name:        "Cordless Drill",
		Category:    "Power Tools",
		WarehouseID: warehouseID,
	})
	require.NoError(t, err)
	return it
}
