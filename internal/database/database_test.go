package database

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"

	"spendbook/internal/config"
	"spendbook/internal/models"
	"spendbook/internal/testutil"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DBDriver:   DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "spendbook.db"),
	}
}

func TestNewManagerUnsupportedDriver(t *testing.T) {
	_, err := NewManager(&config.Config{DBDriver: "oracle"})
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("expected unsupported driver error, got %v", err)
	}
}

func TestPostgresURL(t *testing.T) {
	cfg := &config.Config{
		DBHost: "db", DBPort: "5432", DBUser: "me", DBPassword: "p@ss/word",
		DBName: "spendbook", DBSSLMode: "disable",
	}
	got := postgresURL(cfg)
	if !strings.HasPrefix(got, "postgres://me:p%40ss%2Fword@db:5432/spendbook") {
		t.Errorf("unexpected url %s", got)
	}
	if !strings.HasSuffix(got, "sslmode=disable") {
		t.Errorf("expected sslmode in %s", got)
	}
	if dsn := postgresDSN(cfg); !strings.Contains(dsn, "dbname=spendbook") {
		t.Errorf("unexpected dsn %s", dsn)
	}
}

func TestRunMigrationsSQLite(t *testing.T) {
	cfg := sqliteConfig(t)
	m, err := NewManager(cfg)
	testutil.AssertNoError(t, err)
	defer m.Close()

	testutil.AssertNoError(t, m.RunMigrations())
	// Second run is a no-op.
	testutil.AssertNoError(t, m.RunMigrations())

	db := m.DB()
	cat := testutil.CreateTestCategoryNamed(t, db, "Food")
	testutil.CreateTestExpense(t, db, cat.ID, "12.50", testutil.Date(2024, 6, 1))

	t.Run("restrict_delete_of_referenced_category", func(t *testing.T) {
		err := db.Delete(&models.Category{}, "id = ?", cat.ID).Error
		if err == nil {
			t.Fatal("expected foreign key violation")
		}
		var n int64
		db.Model(&models.Category{}).Where("id = ?", cat.ID).Count(&n)
		if n != 1 {
			t.Errorf("expected category to survive, count=%d", n)
		}
	})

	t.Run("unique_category_name", func(t *testing.T) {
		err := db.Create(&models.Category{Name: "Food", Slug: "food"}).Error
		if err == nil {
			t.Fatal("expected unique violation")
		}
	})

	t.Run("down_then_up", func(t *testing.T) {
		mig, err := m.Migrator()
		testutil.AssertNoError(t, err)
		defer CloseMigrator(mig)

		testutil.AssertNoError(t, mig.Down())
		if _, _, err := mig.Version(); err != migrate.ErrNilVersion {
			t.Errorf("expected no version after down, got %v", err)
		}
		testutil.AssertNoError(t, mig.Up())
		version, dirty, err := mig.Version()
		testutil.AssertNoError(t, err)
		if version != 1 || dirty {
			t.Errorf("expected clean version 1, got %d dirty=%v", version, dirty)
		}
	})
}
