package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/sshmcp/internal/delegate"
	"github.com/thoreinstein/sshmcp/internal/errors"
	"github.com/thoreinstein/sshmcp/internal/install"
	"github.com/thoreinstein/sshmcp/internal/logging"
	"github.com/thoreinstein/sshmcp/internal/paths"
)

// installOptions maps the loaded configuration to provisioning options.
func installOptions() install.Options {
	dir := cfg.InstallDir
	if dir == "" {
		if d, err := paths.InstallDir(); err == nil {
			dir = d
		}
	}
	return install.Options{
		Version:         cfg.NodeVersion,
		Mirror:          cfg.Mirror,
		InstallDir:      dir,
		VerifyChecksums: cfg.VerifyChecksums,
		DownloadTimeout: cfg.DownloadTimeout,
	}
}

// startServer provisions the runtime, then hands control to the configured
// npm package via npx, relaying the child's exit code.
func startServer(cmd *cobra.Command) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	opts := installOptions()

	// The runtime is ensured before npx is consulted at all: a launcher on
	// PATH with no usable node behind it must not be spawned.
	if _, err := install.Ensure(ctx, log, opts); err != nil {
		return errors.NewSystemError(err, "Run 'sshmcp doctor' to inspect the environment")
	}

	runner := delegate.New(log, opts)
	code, err := runner.Run(ctx, "-y", cfg.Package)
	if err != nil {
		return errors.NewSystemError(err, "Run 'sshmcp doctor' to inspect the environment")
	}
	if code != errors.ExitSuccess {
		// The server already reported its failure on stderr; relay the code.
		return errors.NewExitError(nil, code)
	}
	return nil
}
