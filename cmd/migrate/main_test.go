package main

import (
	"testing"
	"testing/fstest"
)

func TestLoadEmbeddedMigrations(t *testing.T) {
	migrations, err := loadMigrations(migrationsFS)
	if err != nil {
		t.Fatalf("unexpected error loading embedded migrations: %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("expected at least one migration")
	}
	if migrations[0].Version != 1 {
		t.Fatalf("expected first migration version 1, got %d", migrations[0].Version)
	}
	if migrations[0].UpSQL == "" || migrations[0].DownSQL == "" {
		t.Fatal("expected non-empty up/down sql for first migration")
	}
}

func TestLoadMigrationsRejectsMissingDown(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0001_demo.up.sql": {Data: []byte("SELECT 1;")},
	}
	if _, err := loadMigrations(fsys); err == nil {
		t.Fatal("expected error for missing down file")
	}
}

func TestLoadMigrationsRejectsBadFilename(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/first.up.sql":       {Data: []byte("SELECT 1;")},
		"migrations/0001_demo.up.sql":   {Data: []byte("SELECT 1;")},
		"migrations/0001_demo.down.sql": {Data: []byte("SELECT 1;")},
	}
	if _, err := loadMigrations(fsys); err == nil {
		t.Fatal("expected error for invalid filename")
	}
}

func TestLoadMigrationsRejectsEmptyFile(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0001_demo.up.sql":   {Data: []byte("  ")},
		"migrations/0001_demo.down.sql": {Data: []byte("SELECT 1;")},
	}
	if _, err := loadMigrations(fsys); err == nil {
		t.Fatal("expected error for empty migration file")
	}
}

func TestLoadMigrationsSortsByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0002_later.up.sql":   {Data: []byte("SELECT 2;")},
		"migrations/0002_later.down.sql": {Data: []byte("SELECT 2;")},
		"migrations/0001_early.up.sql":   {Data: []byte("SELECT 1;")},
		"migrations/0001_early.down.sql": {Data: []byte("SELECT 1;")},
	}
	migrations, err := loadMigrations(fsys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if migrations[0].Version != 1 || migrations[1].Version != 2 {
		t.Fatalf("expected versions sorted ascending, got %+v", migrations)
	}
}
