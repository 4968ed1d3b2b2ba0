// Package paths resolves the filesystem locations used by sshmcp: the
// private install directory, the ordered candidate directories searched for
// an existing Node.js installation, and the config home.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/sshmcp/internal/platform"
)

// ProductDir is the user-scoped directory holding everything this tool
// installs, relative to the user's home directory.
const ProductDir = ".claude-ssh-mcp"

// nodeSubdir is the install directory for the unpacked Node.js distribution
// inside ProductDir.
const nodeSubdir = "node"

// ErrHomeDirNotFound indicates the user's home directory could not be determined.
var ErrHomeDirNotFound = errors.New("home directory not found")

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified
// permissions. If perm is 0, DefaultDirPerm (0700) is used. Idempotent.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// InstallDir returns the persistent install directory for the Node.js
// distribution: <home>/.claude-ssh-mcp/node. The directory is not created;
// it comes into existence lazily on first install.
func InstallDir() (string, error) {
	home, err := ResolveHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ProductDir, nodeSubdir), nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// CandidateDirs returns the ordered list of base directories probed for an
// existing Node.js installation, after the process search path has already
// been tried. The private install directory always comes first so a prior
// install of ours wins over system-wide copies.
//
// Windows consumes PROGRAMFILES and LOCALAPPDATA with literal defaults when
// unset. The nvm candidate is version-specific: only the pinned version's
// bin directory is considered.
func CandidateDirs(o platform.OS, version string) ([]string, error) {
	home, err := ResolveHome()
	if err != nil {
		return nil, err
	}
	installDir := filepath.Join(home, ProductDir, nodeSubdir)

	if o == platform.Windows {
		programFiles := os.Getenv("PROGRAMFILES")
		if programFiles == "" {
			programFiles = `C:\Program Files`
		}
		return []string{
			installDir,
			filepath.Join(programFiles, "nodejs"),
			filepath.Join(os.Getenv("LOCALAPPDATA"), "Programs", "node"),
		}, nil
	}

	return []string{
		installDir,
		"/usr/local/bin",
		"/usr/bin",
		filepath.Join(home, ".local", "bin"),
		filepath.Join(home, ".nvm", "versions", "node", "v"+version, "bin"),
	}, nil
}
