package shared

import (
	"path/filepath"
	"testing"
)

func TestNewDatabase(t *testing.T) {
	t.Run("foreign keys enabled", func(t *testing.T) {
		db, err := NewDatabase(MemoryDSN)
		if err != nil {
			t.Fatalf("NewDatabase() error = %v", err)
		}
		defer db.Close()

		var enabled int
		if err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled); err != nil {
			t.Fatalf("failed to read foreign_keys pragma: %v", err)
		}
		if enabled != 1 {
			t.Errorf("expected foreign_keys = 1, got %d", enabled)
		}
	})

	t.Run("file database", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "holocron.db")

		db, err := NewDatabase(path)
		if err != nil {
			t.Fatalf("NewDatabase() error = %v", err)
		}
		defer db.Close()

		ConfigureDatabase(db, path, 4, 2)
		if got := db.Stats().MaxOpenConnections; got != 4 {
			t.Errorf("expected 4 max open connections, got %d", got)
		}
	})

	t.Run("memory database stays on one connection", func(t *testing.T) {
		db, err := NewDatabase(MemoryDSN)
		if err != nil {
			t.Fatalf("NewDatabase() error = %v", err)
		}
		defer db.Close()

		ConfigureDatabase(db, MemoryDSN, 10, 5)
		if got := db.Stats().MaxOpenConnections; got != 1 {
			t.Errorf("expected 1 max open connection, got %d", got)
		}
	})

	t.Run("memory DSN variants stay on one connection", func(t *testing.T) {
		tt := []struct {
			name string
			path string
		}{
			{name: "plain", path: ":memory:"},
			{name: "with query", path: ":memory:?cache=private"},
			{name: "shared cache uri", path: "file::memory:?cache=shared"},
			{name: "named uri", path: "file:holocron?mode=memory&cache=shared"},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				db, err := NewDatabase(tc.path)
				if err != nil {
					t.Fatalf("NewDatabase() error = %v", err)
				}
				defer db.Close()

				ConfigureDatabase(db, tc.path, 10, 5)
				if got := db.Stats().MaxOpenConnections; got != 1 {
					t.Errorf("expected 1 max open connection, got %d", got)
				}

				if err := RunMigrations(db); err != nil {
					t.Fatalf("RunMigrations() error = %v", err)
				}
				var n int
				if err := db.QueryRow(`SELECT COUNT(*) FROM "user"`).Scan(&n); err != nil {
					t.Errorf("expected migrated tables to be visible: %v", err)
				}
			})
		}
	})

	t.Run("empty path", func(t *testing.T) {
		if _, err := NewDatabase(""); err == nil {
			t.Error("expected error for empty path")
		}
	})
}

func TestBuildDSN(t *testing.T) {
	tt := []struct {
		name    string
		path    string
		timeout int
		want    string
	}{
		{"memory", MemoryDSN, 0, ":memory:?_foreign_keys=on"},
		{"file with timeout", "./holocron.db", 250, "./holocron.db?_foreign_keys=on&_busy_timeout=250"},
		{"existing params", "file:test.db?cache=shared", 0, "file:test.db?cache=shared&_foreign_keys=on"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := buildDSN(tc.path, tc.timeout); got != tc.want {
				t.Errorf("buildDSN() = %q, want %q", got, tc.want)
			}
		})
	}
}
