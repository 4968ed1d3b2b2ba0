// Package delegate hands control to the npx launcher: it resolves the
// launcher (provisioning the Node.js runtime when necessary), spawns it with
// inherited standard streams, and reports the child's exit code verbatim.
package delegate

import (
	"context"
	"log/slog"
	"os"
	"os/exec"

	"github.com/cockroachdb/errors"

	sshmcperrors "github.com/thoreinstein/sshmcp/internal/errors"
	"github.com/thoreinstein/sshmcp/internal/install"
	"github.com/thoreinstein/sshmcp/internal/locate"
	"github.com/thoreinstein/sshmcp/internal/platform"
)

// Runner executes the launcher for a configured runtime.
type Runner struct {
	log  *slog.Logger
	opts install.Options
}

// New creates a Runner. opts is used when resolution has to fall back to
// provisioning the runtime.
func New(log *slog.Logger, opts install.Options) *Runner {
	return &Runner{log: log, opts: opts}
}

// Run resolves npx, spawns it with the given arguments and inherited
// standard I/O, blocks until the child exits, and returns its exit code.
//
// Resolution order: the locator's own three steps first; if those miss, the
// runtime is provisioned and the launcher re-derived as its sibling. A
// launcher that is still unresolved after provisioning is a fatal
// DelegationFailure.
func (r *Runner) Run(ctx context.Context, args ...string) (int, error) {
	tokens := platform.Detect()

	npx, err := locate.NPX(tokens, r.opts.Version)
	if err != nil {
		if !errors.Is(err, sshmcperrors.ErrLauncherNotFound) {
			return 0, err
		}
		nodePath, ensureErr := install.Ensure(ctx, r.log, r.opts)
		if ensureErr != nil {
			return 0, ensureErr
		}
		npx, err = locate.LauncherBeside(nodePath, tokens.OS)
		if err != nil {
			return 0, err
		}
	}

	r.log.Debug("delegating", "launcher", npx, "args", args)

	// The child is not bound to ctx: the delegated package is a long-running
	// server, so only the provisioning phase carries a timeout.
	cmd := exec.Command(npx, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, errors.Wrapf(err, "spawning %s", npx)
	}
	return 0, nil
}
