package paths

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/thoreinstein/sshmcp/internal/platform"
)

func TestInstallDir(t *testing.T) {
	dir, err := InstallDir()
	if err != nil {
		t.Fatalf("InstallDir() error = %v", err)
	}

	want := filepath.Join(ProductDir, "node")
	if !strings.HasSuffix(dir, want) {
		t.Errorf("InstallDir() = %q, want suffix %q", dir, want)
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("InstallDir() = %q, want absolute path", dir)
	}
}

func TestCandidateDirsUnix(t *testing.T) {
	home, err := ResolveHome()
	if err != nil {
		t.Fatalf("ResolveHome() error = %v", err)
	}

	dirs, err := CandidateDirs(platform.Linux, "20.11.0")
	if err != nil {
		t.Fatalf("CandidateDirs() error = %v", err)
	}

	want := []string{
		filepath.Join(home, ProductDir, "node"),
		"/usr/local/bin",
		"/usr/bin",
		filepath.Join(home, ".local", "bin"),
		filepath.Join(home, ".nvm", "versions", "node", "v20.11.0", "bin"),
	}

	if len(dirs) != len(want) {
		t.Fatalf("CandidateDirs() returned %d dirs, want %d: %v", len(dirs), len(want), dirs)
	}
	for i := range want {
		if dirs[i] != want[i] {
			t.Errorf("CandidateDirs()[%d] = %q, want %q", i, dirs[i], want[i])
		}
	}
}

func TestCandidateDirsWindows(t *testing.T) {
	t.Setenv("PROGRAMFILES", `D:\Programs`)
	t.Setenv("LOCALAPPDATA", `D:\AppData`)

	dirs, err := CandidateDirs(platform.Windows, "20.11.0")
	if err != nil {
		t.Fatalf("CandidateDirs() error = %v", err)
	}

	if len(dirs) != 3 {
		t.Fatalf("CandidateDirs() returned %d dirs, want 3: %v", len(dirs), dirs)
	}

	// Private install dir is always probed first.
	if !strings.Contains(dirs[0], ProductDir) {
		t.Errorf("first candidate %q should be the private install dir", dirs[0])
	}
	if dirs[1] != filepath.Join(`D:\Programs`, "nodejs") {
		t.Errorf("second candidate = %q, want PROGRAMFILES nodejs dir", dirs[1])
	}
	if dirs[2] != filepath.Join(`D:\AppData`, "Programs", "node") {
		t.Errorf("third candidate = %q, want LOCALAPPDATA Programs node dir", dirs[2])
	}
}

func TestCandidateDirsWindowsDefaults(t *testing.T) {
	t.Setenv("PROGRAMFILES", "")

	dirs, err := CandidateDirs(platform.Windows, "20.11.0")
	if err != nil {
		t.Fatalf("CandidateDirs() error = %v", err)
	}

	if !strings.HasPrefix(dirs[1], `C:\Program Files`) {
		t.Errorf("unset PROGRAMFILES should fall back to literal default, got %q", dirs[1])
	}
}

func TestEnsureDirIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	if err := EnsureDir(dir, 0); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	if err := EnsureDir(dir, 0); err != nil {
		t.Fatalf("EnsureDir() second call error = %v", err)
	}
}
