// Package install turns a downloaded distribution archive into a working
// Node.js installation, and orchestrates provisioning end to end.
//
// Installation is idempotent by construction: every top-level entry of the
// extracted distribution replaces its same-named counterpart in the install
// directory, so re-running an install over a stale or partial previous one
// always converges to the fresh distribution's layout.
package install

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	sshmcperrors "github.com/thoreinstein/sshmcp/internal/errors"
	"github.com/thoreinstein/sshmcp/internal/paths"
	"github.com/thoreinstein/sshmcp/internal/platform"
)

// distPrefix is the conventional name prefix of the single top-level
// directory inside a Node.js distribution archive.
const distPrefix = "node-"

// NodePath returns the expected node executable path inside an install
// directory: flat on Windows, under bin/ elsewhere.
func NodePath(installDir string, o platform.OS) string {
	if o == platform.Windows {
		return filepath.Join(installDir, o.ExecutableName("node"))
	}
	return filepath.Join(installDir, "bin", o.ExecutableName("node"))
}

// Install extracts archivePath next to itself, locates the distribution
// directory, moves its contents into installDir (replacing same-named
// entries), and verifies the node executable exists at its platform path.
// Returns the verified executable path.
func Install(archivePath string, kind platform.ArchiveKind, installDir string, tokens platform.Tokens) (string, error) {
	workDir := filepath.Dir(archivePath)

	if err := Extract(archivePath, kind, workDir); err != nil {
		return "", err
	}

	dist, err := findDistDir(workDir)
	if err != nil {
		return "", err
	}

	if err := paths.EnsureDir(installDir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating install directory")
	}

	entries, err := os.ReadDir(dist)
	if err != nil {
		return "", errors.Wrap(err, "reading distribution directory")
	}
	for _, entry := range entries {
		src := filepath.Join(dist, entry.Name())
		dest := filepath.Join(installDir, entry.Name())
		if err := replaceEntry(src, dest); err != nil {
			return "", err
		}
	}

	exe := NodePath(installDir, tokens.OS)
	if _, err := os.Stat(exe); err != nil {
		return "", errors.Wrapf(sshmcperrors.ErrInstallVerification, "%s not found after install", exe)
	}
	return exe, nil
}

// findDistDir returns the first directory in dir whose name starts with the
// distribution prefix.
func findDistDir(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", errors.Wrap(err, "reading extraction directory")
	}
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), distPrefix) {
			return filepath.Join(dir, entry.Name()), nil
		}
	}
	return "", errors.Wrap(sshmcperrors.ErrExtractionFailed, "extracted directory not found")
}

// replaceEntry moves src to dest, removing any existing entry at dest first.
// Rename is tried first; when src and dest sit on different filesystems
// (temp dirs often do), it falls back to a recursive copy plus removal.
func replaceEntry(src, dest string) error {
	if err := os.RemoveAll(dest); err != nil {
		return errors.Wrapf(err, "removing stale entry %s", dest)
	}

	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	info, err := os.Lstat(src)
	if err != nil {
		return errors.Wrap(err, "inspecting source entry")
	}
	if info.IsDir() {
		if err := copyTree(src, dest); err != nil {
			return err
		}
	} else if err := copyEntry(src, dest, info); err != nil {
		return err
	}
	return errors.Wrapf(os.RemoveAll(src), "removing moved entry %s", src)
}

// copyTree recursively copies a directory, preserving modes and symlinks.
func copyTree(src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Wrap(err, "inspecting directory")
	}
	if err := os.MkdirAll(dest, info.Mode().Perm()); err != nil {
		return errors.Wrap(err, "creating directory")
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return errors.Wrap(err, "reading directory")
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())

		if entry.IsDir() {
			if err := copyTree(srcPath, destPath); err != nil {
				return err
			}
			continue
		}

		entryInfo, err := os.Lstat(srcPath)
		if err != nil {
			return errors.Wrap(err, "inspecting entry")
		}
		if err := copyEntry(srcPath, destPath, entryInfo); err != nil {
			return err
		}
	}
	return nil
}

// copyEntry copies a single non-directory entry: symlinks are recreated,
// regular files copied with their mode.
func copyEntry(src, dest string, info os.FileInfo) error {
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(src)
		if err != nil {
			return errors.Wrap(err, "reading symlink")
		}
		return errors.Wrap(os.Symlink(target, dest), "recreating symlink")
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "opening source file")
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Wrap(err, "creating destination file")
	}
	_, err = io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return errors.Wrap(err, "copying file")
}
