package install

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/thoreinstein/sshmcp/pkg/fileutil"
)

// ManifestName is the file written into the install directory after a
// successful install.
const ManifestName = "manifest.toml"

// Manifest records what was installed, for diagnostics. Its absence never
// blocks provisioning; the executable existence check stays authoritative.
type Manifest struct {
	Version     string    `toml:"version"`
	OS          string    `toml:"os"`
	Arch        string    `toml:"arch"`
	InstalledAt time.Time `toml:"installed_at"`
}

// WriteManifest persists the manifest atomically into installDir.
func WriteManifest(installDir string, m Manifest) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "encoding manifest")
	}
	return fileutil.AtomicWriteFile(filepath.Join(installDir, ManifestName), data, 0o644)
}

// ReadManifest loads the manifest from installDir. Returns an error wrapping
// os.ErrNotExist when no manifest has been written.
func ReadManifest(installDir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(installDir, ManifestName))
	if err != nil {
		return nil, errors.Wrap(err, "reading manifest")
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "decoding manifest")
	}
	return &m, nil
}
