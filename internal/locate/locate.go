// Package locate discovers Node.js executables on the host. It is a
// read-only probe: no network access, no filesystem mutation, and repeated
// calls with an unchanged filesystem return the same result.
//
// Discovery is best-effort by design: a path returned here is known to exist
// at the moment of the check, but nothing stops it from disappearing before
// it is used. Callers spawn the executable immediately after resolving it,
// so the window is accepted rather than engineered around.
package locate

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/cockroachdb/errors"

	sshmcperrors "github.com/thoreinstein/sshmcp/internal/errors"
	"github.com/thoreinstein/sshmcp/internal/paths"
	"github.com/thoreinstein/sshmcp/internal/platform"
)

// Node returns the path to a node executable. The process search path is
// tried first, then the platform's well-known install directories in
// priority order. Returns ErrNodeNotFound when nothing matches.
func Node(tokens platform.Tokens, version string) (string, error) {
	name := tokens.OS.ExecutableName("node")

	if p, err := exec.LookPath(name); err == nil {
		return p, nil
	}

	dirs, err := paths.CandidateDirs(tokens.OS, version)
	if err != nil {
		return "", err
	}
	for _, dir := range dirs {
		if p, ok := probe(dir, name, tokens.OS); ok {
			return p, nil
		}
	}

	return "", errors.WithDetail(sshmcperrors.ErrNodeNotFound,
		"searched PATH and well-known install directories")
}

// NPX returns the path to the npx launcher. In addition to the search path
// and candidate directories it supports a third fallback: if node itself is
// resolvable, npx is expected as a sibling in the same directory.
// Returns ErrLauncherNotFound when all three steps miss.
func NPX(tokens platform.Tokens, version string) (string, error) {
	name := tokens.OS.ExecutableName("npx")

	if p, err := exec.LookPath(name); err == nil {
		return p, nil
	}

	dirs, err := paths.CandidateDirs(tokens.OS, version)
	if err != nil {
		return "", err
	}
	for _, dir := range dirs {
		if p, ok := probe(dir, name, tokens.OS); ok {
			return p, nil
		}
	}

	if nodePath, err := Node(tokens, version); err == nil {
		if p, ok := beside(nodePath, name); ok {
			return p, nil
		}
	}

	return "", errors.WithDetail(sshmcperrors.ErrLauncherNotFound,
		"searched PATH, well-known install directories, and node's directory")
}

// LauncherBeside derives the expected npx path next to a resolved node
// executable and verifies it exists. Used after provisioning, when node's
// location is already known.
func LauncherBeside(nodePath string, o platform.OS) (string, error) {
	p, ok := beside(nodePath, o.ExecutableName("npx"))
	if !ok {
		return "", errors.Wrapf(sshmcperrors.ErrLauncherNotFound,
			"no launcher next to %s", nodePath)
	}
	return p, nil
}

// probe tests for the executable inside a candidate base directory. The
// private install directory keeps a full distribution tree, so on Unix the
// executable lives under bin/ there; flat candidates like /usr/bin hold it
// directly. Both shapes are tried.
func probe(dir, name string, o platform.OS) (string, bool) {
	p := filepath.Join(dir, name)
	if fileExists(p) {
		return p, true
	}
	if o != platform.Windows {
		p = filepath.Join(dir, "bin", name)
		if fileExists(p) {
			return p, true
		}
	}
	return "", false
}

func beside(anchor, name string) (string, bool) {
	p := filepath.Join(filepath.Dir(anchor), name)
	if fileExists(p) {
		return p, true
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
