package install

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	sshmcperrors "github.com/thoreinstein/sshmcp/internal/errors"
	"github.com/thoreinstein/sshmcp/internal/platform"
)

var linuxTokens = platform.Tokens{OS: platform.Linux, Arch: platform.X64, Archive: platform.TarGz}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fixture uses symlinks and Unix layout")
	}
}

func TestInstall(t *testing.T) {
	skipOnWindows(t)

	workDir := t.TempDir()
	archive := buildArchive(t, workDir, "node-v20.11.0-linux-x64", platform.TarGz)
	installDir := filepath.Join(t.TempDir(), "node")

	exe, err := Install(archive, platform.TarGz, installDir, linuxTokens)
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	if exe != filepath.Join(installDir, "bin", "node") {
		t.Errorf("Install() = %q, want node under bin/", exe)
	}
	if _, err := os.Stat(exe); err != nil {
		t.Errorf("verified executable does not exist: %v", err)
	}
	if _, err := os.Stat(filepath.Join(installDir, "lib", "metadata")); err != nil {
		t.Errorf("lib contents not moved: %v", err)
	}
	if _, err := os.Readlink(filepath.Join(installDir, "bin", "npx")); err != nil {
		t.Errorf("npx symlink not preserved: %v", err)
	}
}

func TestInstallReinstallOverwritesStaleEntries(t *testing.T) {
	skipOnWindows(t)

	installDir := filepath.Join(t.TempDir(), "node")

	archive := buildArchive(t, t.TempDir(), "node-v20.11.0-linux-x64", platform.TarGz)
	if _, err := Install(archive, platform.TarGz, installDir, linuxTokens); err != nil {
		t.Fatalf("first Install() error = %v", err)
	}

	// Simulate a stale previous install inside a directory the new
	// distribution also ships.
	stale := filepath.Join(installDir, "bin", "leftover")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	archive = buildArchive(t, t.TempDir(), "node-v20.11.0-linux-x64", platform.TarGz)
	if _, err := Install(archive, platform.TarGz, installDir, linuxTokens); err != nil {
		t.Fatalf("second Install() error = %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale entry survived reinstall")
	}
	if _, err := os.Stat(filepath.Join(installDir, "bin", "node")); err != nil {
		t.Errorf("bin/node missing after reinstall: %v", err)
	}
}

func TestInstallVerificationFailure(t *testing.T) {
	skipOnWindows(t)

	// Archive extracts fine but its layout puts the executable where the
	// Windows convention would, so Unix verification must fail.
	workDir := t.TempDir()
	archive := buildArchive(t, workDir, "node-v20.11.0-win-x64", platform.Zip)
	installDir := filepath.Join(t.TempDir(), "node")

	_, err := Install(archive, platform.Zip, installDir, linuxTokens)
	if !errors.Is(err, sshmcperrors.ErrInstallVerification) {
		t.Errorf("Install() error = %v, want ErrInstallVerification", err)
	}
}

func TestInstallDistDirNotFound(t *testing.T) {
	skipOnWindows(t)

	workDir := t.TempDir()
	archive := buildArchive(t, workDir, "iojs-v1.0.0-linux-x64", platform.TarGz)
	installDir := filepath.Join(t.TempDir(), "node")

	_, err := Install(archive, platform.TarGz, installDir, linuxTokens)
	if !errors.Is(err, sshmcperrors.ErrExtractionFailed) {
		t.Errorf("Install() error = %v, want ErrExtractionFailed", err)
	}
}

func TestNodePath(t *testing.T) {
	tests := []struct {
		os   platform.OS
		want string
	}{
		{os: platform.Windows, want: filepath.Join("base", "node.exe")},
		{os: platform.Darwin, want: filepath.Join("base", "bin", "node")},
		{os: platform.Linux, want: filepath.Join("base", "bin", "node")},
	}

	for _, tt := range tests {
		if got := NodePath("base", tt.os); got != tt.want {
			t.Errorf("NodePath(base, %s) = %q, want %q", tt.os, got, tt.want)
		}
	}
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()

	m := Manifest{Version: "20.11.0", OS: "linux", Arch: "x64"}
	if err := WriteManifest(dir, m); err != nil {
		t.Fatalf("WriteManifest() error = %v", err)
	}

	got, err := ReadManifest(dir)
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	if got.Version != m.Version || got.OS != m.OS || got.Arch != m.Arch {
		t.Errorf("ReadManifest() = %+v, want %+v", got, m)
	}
}

func TestReadManifestMissing(t *testing.T) {
	_, err := ReadManifest(t.TempDir())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadManifest() error = %v, want os.ErrNotExist in chain", err)
	}
}
