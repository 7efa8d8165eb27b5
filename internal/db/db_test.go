package db

import (
	"strings"
	"testing"

	"github.com/lifeline-ai/lifeline/internal/config"
	"github.com/lifeline-ai/lifeline/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MySQLConfig
		want string
	}{
		{
			name: "no password",
			cfg:  config.MySQLConfig{Host: "127.0.0.1", Port: 3306, User: "root", Database: "lifeline"},
			want: "root@tcp(127.0.0.1:3306)/lifeline?parseTime=true&charset=utf8mb4",
		},
		{
			name: "with password",
			cfg:  config.MySQLConfig{Host: "db.internal", Port: 3307, User: "agent", Password: "s3cret", Database: "emergency"},
			want: "agent:s3cret@tcp(db.internal:3307)/emergency?parseTime=true&charset=utf8mb4",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DSN(tt.cfg); got != tt.want {
				t.Errorf("DSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDSN_ParseTimeFlag(t *testing.T) {
	dsn := DSN(config.MySQLConfig{Host: "h", Port: 3306, User: "root", Database: "d"})
	if !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("DSN missing parseTime=true: %s", dsn)
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func TestAutoMigrate(t *testing.T) {
	db := openTestDB(t)
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	for _, m := range AllModels() {
		if !db.Migrator().HasTable(m) {
			t.Errorf("missing table for %T", m)
		}
	}
}

func TestSeedResponders(t *testing.T) {
	db := openTestDB(t)
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	if err := SeedResponders(db); err != nil {
		t.Fatalf("SeedResponders: %v", err)
	}

	var responders int64
	db.Model(&models.Responder{}).Count(&responders)
	want := int64(len(ambulanceIdentifiers) + len(policeIdentifiers) + len(fireIdentifiers) + len(otherIdentifiers))
	if responders != want {
		t.Errorf("responder count = %d, want %d", responders, want)
	}

	var locations int64
	db.Model(&models.Location{}).Count(&locations)
	if locations != int64(len(seedDistricts)) {
		t.Errorf("location count = %d, want %d", locations, len(seedDistricts))
	}

	// Re-seeding must not duplicate anything.
	if err := SeedResponders(db); err != nil {
		t.Fatalf("SeedResponders rerun: %v", err)
	}
	var after int64
	db.Model(&models.Responder{}).Count(&after)
	if after != responders {
		t.Errorf("re-seed changed responder count: %d -> %d", responders, after)
	}
}
