package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const migrationSQL = `
-- schema
CREATE TABLE IF NOT EXISTS settings (
    user_id TEXT PRIMARY KEY
);

create table if not exists trips (id UUID PRIMARY KEY);
`

func TestSplitSQLAndExtractTables(t *testing.T) {
	stmts := splitSQL(migrationSQL)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(stmts), stmts)
	}

	path := filepath.Join(t.TempDir(), "0001_init.sql")
	if err := os.WriteFile(path, []byte(migrationSQL), 0o600); err != nil {
		t.Fatal(err)
	}
	tables, err := extractTables(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(tables, []string{"settings", "trips"}) {
		t.Fatalf("unexpected tables %v", tables)
	}
}

func TestExpectNumbers(t *testing.T) {
	check := expectNumbers(map[string]float64{"total": 18656})
	if err := check(map[string]any{"total": 18656.0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := check(map[string]any{"total": 18655.0}); err == nil {
		t.Fatal("expected mismatch error")
	}
}
