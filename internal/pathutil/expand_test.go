package pathutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpand_HomeShortcut(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("user home dir: %v", err)
	}

	got, err := Expand("~/.aura/data")
	if err != nil {
		t.Fatalf("expand path: %v", err)
	}

	want := filepath.Join(home, ".aura", "data")
	if got != want {
		t.Fatalf("path mismatch: got %q want %q", got, want)
	}
}

func TestExpand_EnvVar(t *testing.T) {
	t.Setenv("AURA_PATH_TEST", "/tmp/aura-path")

	got, err := Expand("$AURA_PATH_TEST/data")
	if err != nil {
		t.Fatalf("expand path: %v", err)
	}

	want := filepath.Clean("/tmp/aura-path/data")
	if got != want {
		t.Fatalf("path mismatch: got %q want %q", got, want)
	}
}

func TestExpand_Empty(t *testing.T) {
	got, err := Expand("   ")
	if err != nil {
		t.Fatalf("expand empty: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}
