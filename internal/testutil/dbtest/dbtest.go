// Package dbtest provides an in-memory SQL store with the production schema.
package dbtest

import (
	"testing"

	"github.com/LavaJover/shvark-raffle-service/internal/config"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New returns a fresh database for the test. A single connection serializes
// transactions the way row locks serialize them on PostgreSQL.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_busy_timeout=5000"
	db, err := postgres.Open(sqlite.Open(dsn), config.RaffleDB{MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("test db handle: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	return db
}
