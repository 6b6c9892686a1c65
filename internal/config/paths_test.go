package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolve(t *testing.T) {
	t.Run("no file means defaults", func(t *testing.T) {
		path, err := Resolve("", t.TempDir())
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if path != "" {
			t.Errorf("Resolve() = %q, want empty", path)
		}
	})

	t.Run("file in directory", func(t *testing.T) {
		dir := t.TempDir()
		want := filepath.Join(dir, FileName)
		if err := os.WriteFile(want, []byte("{}\n"), 0644); err != nil {
			t.Fatal(err)
		}

		path, err := Resolve("", dir)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if path != want {
			t.Errorf("Resolve() = %q, want %q", path, want)
		}
	})

	t.Run("explicit file must exist", func(t *testing.T) {
		if _, err := Resolve(filepath.Join(t.TempDir(), "nope.yaml"), ""); err == nil {
			t.Error("expected error for missing explicit config")
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Split.Seed != 3 {
		t.Errorf("Split.Seed = %d, want 3", cfg.Split.Seed)
	}
}
