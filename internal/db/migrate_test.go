package db

import (
	"io/fs"
	"strings"
	"testing"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(migrations, migrationsDir)
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatalf("expected embedded migrations")
	}

	for _, entry := range entries {
		contents, err := fs.ReadFile(migrations, migrationsDir+"/"+entry.Name())
		if err != nil {
			t.Fatalf("read %s: %v", entry.Name(), err)
		}
		text := string(contents)
		if !strings.Contains(text, "-- +goose Up") || !strings.Contains(text, "-- +goose Down") {
			t.Fatalf("%s must declare goose up and down sections", entry.Name())
		}
	}
}
