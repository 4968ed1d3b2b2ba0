// Package config provides configuration management for sshmcp using Viper.
//
// Configuration is entirely optional: with no file present, the defaults
// reproduce the stock behavior (pinned Node.js 20.11.0 from nodejs.org,
// checksums verified, install under ~/.claude-ssh-mcp/node). A YAML file in
// the current directory or <config home>/sshmcp/, or SSHMCP_* environment
// variables, can override any key.
package config

import (
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/thoreinstein/sshmcp/internal/paths"
)

// AppName is the application name used for config file placement.
const AppName = "sshmcp"

// Defaults for every configurable key.
const (
	DefaultNodeVersion     = "20.11.0"
	DefaultMirror          = "https://nodejs.org"
	DefaultPackage         = "claude-ssh-mcp"
	DefaultDownloadTimeout = 10 * time.Minute
)

// Config holds the tool's settings.
type Config struct {
	// NodeVersion is the Node.js version installed when none is found.
	NodeVersion string `mapstructure:"node_version"`

	// Mirror is the distribution host to download from.
	Mirror string `mapstructure:"mirror"`

	// InstallDir overrides the private install directory. Empty selects
	// <home>/.claude-ssh-mcp/node.
	InstallDir string `mapstructure:"install_dir"`

	// VerifyChecksums controls SHASUMS256.txt verification of downloads.
	VerifyChecksums bool `mapstructure:"verify_checksums"`

	// DownloadTimeout bounds the download and install phase.
	DownloadTimeout time.Duration `mapstructure:"download_timeout"`

	// Package is the npm package delegated to via npx.
	Package string `mapstructure:"package"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(filepath.Join(paths.ConfigHome(), AppName))

	viper.SetEnvPrefix("SSHMCP")
	viper.AutomaticEnv()

	viper.SetDefault("node_version", DefaultNodeVersion)
	viper.SetDefault("mirror", DefaultMirror)
	viper.SetDefault("verify_checksums", true)
	viper.SetDefault("download_timeout", DefaultDownloadTimeout)
	viper.SetDefault("package", DefaultPackage)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back to
// defaults when no file exists.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If the user asked for a specific file, missing is an error;
			// an implicit search falling through to defaults is fine.
			if path != "" {
				return nil, errors.Wrapf(err, "config file not found at %s", path)
			}
		} else {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if cfg.InstallDir == "" {
		dir, err := paths.InstallDir()
		if err != nil {
			return nil, err
		}
		cfg.InstallDir = dir
	}

	return &cfg, nil
}
