package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Ning0612/lumins/internal/domain"
)

func TestResolveCopyTarget(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "photos")
	if err := os.Mkdir(src, 0755); err != nil {
		t.Fatal(err)
	}

	// Missing destination is created and used as-is
	missing := filepath.Join(base, "backup", "new")
	got, err := ResolveCopyTarget(src, missing)
	if err != nil {
		t.Fatalf("ResolveCopyTarget failed: %v", err)
	}
	if got != missing {
		t.Errorf("target = %q, want %q", got, missing)
	}
	if info, err := os.Stat(missing); err != nil || !info.IsDir() {
		t.Error("destination was not created")
	}

	// Existing destination receives the source by name
	got, err = ResolveCopyTarget(src, missing)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(missing, "photos")
	if got != want {
		t.Errorf("target = %q, want %q", got, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Error("nested destination was not created")
	}
}

func TestResolveSyncTarget(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "src")
	dest := filepath.Join(base, "dest")
	if err := os.Mkdir(src, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(dest, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := ResolveSyncTarget(src, dest)
	if err != nil {
		t.Fatal(err)
	}
	if got != dest {
		t.Errorf("sync target = %q, want %q", got, dest)
	}
}

func TestResolveTarget_InvalidSource(t *testing.T) {
	base := t.TempDir()
	file := filepath.Join(base, "file")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	for _, src := range []string{file, filepath.Join(base, "missing")} {
		if _, err := ResolveCopyTarget(src, filepath.Join(base, "d")); !errors.Is(err, domain.ErrSourceInvalid) {
			t.Errorf("cp %s: expected ErrSourceInvalid, got %v", src, err)
		}
		if _, err := ResolveSyncTarget(src, filepath.Join(base, "d")); !errors.Is(err, domain.ErrSourceInvalid) {
			t.Errorf("sync %s: expected ErrSourceInvalid, got %v", src, err)
		}
	}
}

func TestResolveTarget_UncreatableDestination(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "src")
	if err := os.Mkdir(src, 0755); err != nil {
		t.Fatal(err)
	}
	blocker := filepath.Join(base, "blocker")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ResolveSyncTarget(src, filepath.Join(blocker, "sub"))
	if !errors.Is(err, domain.ErrDestinationInvalid) {
		t.Errorf("expected ErrDestinationInvalid, got %v", err)
	}
}

func TestValidateRemoveTargets(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "dir")
	file := filepath.Join(base, "file")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ValidateRemoveTargets([]string{file, dir, filepath.Join(base, "missing")})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != dir {
		t.Errorf("targets = %v, want [%s]", got, dir)
	}

	if _, err := ValidateRemoveTargets([]string{file}); !errors.Is(err, domain.ErrNoTargets) {
		t.Errorf("expected ErrNoTargets, got %v", err)
	}
}

func TestSourceName(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"photos", "photos"},
		{"a/b/", "b"},
		{".", ""},
		{"..", ""},
		{"/", ""},
	}
	for _, tt := range tests {
		if got := sourceName(tt.src); got != tt.want {
			t.Errorf("sourceName(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}
