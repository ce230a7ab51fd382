package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/lockedin-labs/lockin_api/model"
)

func TestSqliteServiceRunsStandalone(t *testing.T) {
	svc := &SqliteService{}
	svc.SetDatabase(filepath.Join(t.TempDir(), "test.db"))

	// The seed tool runs the store outside the service container: no
	// Configure, just SetDatabase and Start.
	if err := svc.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer svc.Shutdown()

	if svc.Db() == nil {
		t.Fatal("expected a database handle after start")
	}

	now := time.Now()
	user := model.User{ID: "user_sqlite", Username: "sqlite", CreatedAt: now, UpdatedAt: now}
	if err := svc.Db().Create(&user).Error; err != nil {
		t.Fatalf("expected migrated schema to accept writes: %v", err)
	}

	var loaded model.User
	if err := svc.Db().Where("id = ?", "user_sqlite").First(&loaded).Error; err != nil {
		t.Fatalf("failed to read back user: %v", err)
	}
	if loaded.Username != "sqlite" {
		t.Errorf("expected username sqlite, got %q", loaded.Username)
	}
}
