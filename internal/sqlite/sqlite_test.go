//go:build !cgo_sqlite

package sqlite

import (
	"path/filepath"
	"testing"
)

func TestDriverInfo(t *testing.T) {
	if got := DriverType(); got != "purego" {
		t.Errorf("DriverType() = %q, want %q", got, "purego")
	}
	if got := DriverName(); got != "sqlite" {
		t.Errorf("DriverName() = %q, want %q", got, "sqlite")
	}
	if IsCGO() {
		t.Error("IsCGO() = true, want false in the default build")
	}
	info := GetInfo()
	if info.DriverName != DriverName() || info.DriverType != DriverType() {
		t.Errorf("GetInfo() = %+v, inconsistent with accessors", info)
	}
}

func TestOpen(t *testing.T) {
	db := MustOpen(filepath.Join(t.TempDir(), "test.db"))
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE t (id INTEGER PRIMARY KEY, name TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO t (name) VALUES (?)`, "one"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	var name string
	if err := db.QueryRow(`SELECT name FROM t WHERE id = 1`).Scan(&name); err != nil {
		t.Fatalf("select: %v", err)
	}
	if name != "one" {
		t.Errorf("name = %q, want %q", name, "one")
	}
}
