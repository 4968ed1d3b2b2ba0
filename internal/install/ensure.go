package install

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofrs/flock"

	sshmcperrors "github.com/thoreinstein/sshmcp/internal/errors"
	"github.com/thoreinstein/sshmcp/internal/fetch"
	"github.com/thoreinstein/sshmcp/internal/locate"
	"github.com/thoreinstein/sshmcp/internal/paths"
	"github.com/thoreinstein/sshmcp/internal/platform"
)

// Options parameterizes provisioning. Commands build one from config.
type Options struct {
	// Version is the Node.js version to install when none is found.
	Version string

	// Mirror is the distribution host; empty selects nodejs.org.
	Mirror string

	// InstallDir is the persistent install directory.
	InstallDir string

	// VerifyChecksums enables SHASUMS256.txt verification of downloads.
	VerifyChecksums bool

	// DownloadTimeout bounds the fetch+install phase. Zero means no bound.
	DownloadTimeout time.Duration
}

// Ensure returns a usable node executable path, provisioning one if needed.
//
// Present branch: if discovery finds node anywhere, that path is returned
// with no network access and no filesystem writes. Absent branch: the pinned
// version is downloaded, verified, and installed under an advisory file lock
// so concurrent provisioners serialize instead of racing through the
// download. The move semantics stay idempotent underneath, so even a stale
// lock or an interrupted peer never leaves the install unrepairable.
func Ensure(ctx context.Context, log *slog.Logger, opts Options) (string, error) {
	tokens := platform.Detect()

	if p, err := locate.Node(tokens, opts.Version); err == nil {
		log.Debug("node already present", "path", p)
		return p, nil
	} else if !errors.Is(err, sshmcperrors.ErrNodeNotFound) {
		return "", err
	}

	log.Info("node not found, installing", "version", opts.Version)
	return provision(ctx, log, tokens, opts)
}

func provision(ctx context.Context, log *slog.Logger, tokens platform.Tokens, opts Options) (string, error) {
	if err := paths.EnsureDir(filepath.Dir(opts.InstallDir), 0); err != nil {
		return "", errors.Wrap(err, "creating product directory")
	}

	lock := flock.New(opts.InstallDir + ".lock")
	if err := lock.Lock(); err != nil {
		return "", errors.Wrap(err, "acquiring install lock")
	}
	defer lock.Unlock()

	// A concurrent process may have finished installing while we waited.
	if p, err := locate.Node(tokens, opts.Version); err == nil {
		log.Debug("node installed by concurrent process", "path", p)
		return p, nil
	}

	if opts.DownloadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.DownloadTimeout)
		defer cancel()
	}

	// Scoped download/extraction dir, removed on every exit path.
	tmpDir, err := os.MkdirTemp("", "sshmcp-node-*")
	if err != nil {
		return "", errors.Wrap(err, "creating temp directory")
	}
	defer os.RemoveAll(tmpDir)

	mirror := opts.Mirror
	if mirror == "" {
		mirror = fetch.DefaultMirror
	}
	fetcher := fetch.New(mirror, opts.VerifyChecksums)
	log.Info("downloading", "url", fetch.URL(mirror, opts.Version, tokens))
	archive, err := fetcher.Fetch(ctx, opts.Version, tokens, tmpDir)
	if err != nil {
		return "", err
	}

	log.Info("extracting", "archive", filepath.Base(archive))
	exe, err := Install(archive, tokens.Archive, opts.InstallDir, tokens)
	if err != nil {
		return "", err
	}

	m := Manifest{
		Version:     opts.Version,
		OS:          string(tokens.OS),
		Arch:        string(tokens.Arch),
		InstalledAt: time.Now().UTC(),
	}
	if err := WriteManifest(opts.InstallDir, m); err != nil {
		log.Warn("writing install manifest", "error", err)
	}

	log.Info("node installed", "path", exe)
	return exe, nil
}
