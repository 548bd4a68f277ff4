package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir invalid: %v", err)
	}
}

func TestInitSchemaCoversCoreTables(t *testing.T) {
	entries, err := os.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}

	var initFile string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), "_init_schema.sql") {
			initFile = filepath.Join("migrations", e.Name())
			break
		}
	}
	if initFile == "" {
		t.Fatal("init schema migration not found")
	}

	b, err := os.ReadFile(initFile)
	if err != nil {
		t.Fatalf("read init schema: %v", err)
	}
	sql := string(b)

	for _, table := range []string{"users", "accounts", "shops", "units", "reservations"} {
		if !strings.Contains(sql, "CREATE TABLE "+table) {
			t.Fatalf("init schema missing table %q", table)
		}
	}
	for _, check := range []string{"amount >= 0", "amount >= 1", "UNIQUE (shop_id, name, weight)", "UNIQUE (user_id, unit_id)"} {
		if !strings.Contains(sql, check) {
			t.Fatalf("init schema missing constraint %q", check)
		}
	}
}
