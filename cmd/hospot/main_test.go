package main

import (
	"path/filepath"
	"strings"
	"testing"

	"hospot/internal/repos"
)

func TestSeedReturnsOpenErrorInsteadOfExiting(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DB_DSN", filepath.Join(dir, "missing", "dir", "hospot.db"))
	t.Setenv("LOG_FILE", filepath.Join(dir, "hospot.log"))
	t.Setenv("SENTRY_DSN", "")

	cmd := seedCmd()
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "open database") {
		t.Fatalf("want open database error, got %v", err)
	}
}

func TestSeedCreatesCatalog(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DB_DSN", filepath.Join(dir, "hospot.db"))
	t.Setenv("LOG_FILE", filepath.Join(dir, "hospot.log"))
	t.Setenv("SENTRY_DSN", "")

	cmd := seedCmd()
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	db, err := repos.OpenDB(filepath.Join(dir, "hospot.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM hospitals`); err != nil || n != 7 {
		t.Fatalf("hospitals = %d, %v", n, err)
	}
}
