package install

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ulikunitz/xz"

	sshmcperrors "github.com/thoreinstein/sshmcp/internal/errors"
	"github.com/thoreinstein/sshmcp/internal/platform"
)

// Extract unpacks an archive into dir, dispatching on kind: zip for Windows
// distributions, tar.gz for macOS, tar.xz for Linux. Any decode error
// surfaces as ErrExtractionFailed.
func Extract(archivePath string, kind platform.ArchiveKind, dir string) error {
	switch kind {
	case platform.Zip:
		return extractZip(archivePath, dir)
	case platform.TarXz:
		return extractTarXz(archivePath, dir)
	case platform.TarGz:
		return extractTarGz(archivePath, dir)
	}
	return errors.Wrapf(sshmcperrors.ErrExtractionFailed, "unsupported archive kind %q", kind)
}

func extractZip(archivePath, dir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return errors.Wrapf(sshmcperrors.ErrExtractionFailed, "opening zip: %v", err)
	}
	defer r.Close()

	for _, f := range r.File {
		dest, err := sanitizePath(dir, f.Name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return errors.Wrap(err, "creating directory")
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return errors.Wrap(err, "creating parent directory")
		}

		src, err := f.Open()
		if err != nil {
			return errors.Wrapf(sshmcperrors.ErrExtractionFailed, "opening zip entry %s: %v", f.Name, err)
		}
		err = writeFile(dest, src, f.Mode())
		src.Close()
		if err != nil {
			return err
		}
	}

	return nil
}

func extractTarGz(archivePath, dir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return errors.Wrap(err, "opening archive")
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(sshmcperrors.ErrExtractionFailed, "reading gzip stream: %v", err)
	}
	defer gz.Close()

	return extractTar(gz, dir)
}

func extractTarXz(archivePath, dir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return errors.Wrap(err, "opening archive")
	}
	defer f.Close()

	// Decompress the xz container first, then untar the inner stream.
	xzr, err := xz.NewReader(f)
	if err != nil {
		return errors.Wrapf(sshmcperrors.ErrExtractionFailed, "reading xz stream: %v", err)
	}

	return extractTar(xzr, dir)
}

// extractTar unpacks a tar stream into dir. Node distributions contain
// regular files, directories, and symlinks (bin/npx links into lib/), so all
// three entry types are materialized; anything else is skipped.
func extractTar(r io.Reader, dir string) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(sshmcperrors.ErrExtractionFailed, "reading tar stream: %v", err)
		}

		dest, err := sanitizePath(dir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, os.FileMode(hdr.Mode)|0o700); err != nil {
				return errors.Wrap(err, "creating directory")
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return errors.Wrap(err, "creating parent directory")
			}
			if err := writeFile(dest, tr, os.FileMode(hdr.Mode)); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return errors.Wrap(err, "creating parent directory")
			}
			// Replace any entry left by a previous extraction.
			if err := os.RemoveAll(dest); err != nil {
				return errors.Wrap(err, "clearing symlink destination")
			}
			if err := os.Symlink(hdr.Linkname, dest); err != nil {
				return errors.Wrapf(sshmcperrors.ErrExtractionFailed, "creating symlink %s: %v", hdr.Name, err)
			}
		}
	}
}

func writeFile(dest string, src io.Reader, perm os.FileMode) error {
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return errors.Wrap(err, "creating file")
	}
	_, err = io.Copy(out, src)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return errors.Wrapf(sshmcperrors.ErrExtractionFailed, "writing %s: %v", dest, err)
	}
	return nil
}

// sanitizePath joins an archive entry name onto dir, rejecting entries that
// would escape it.
func sanitizePath(dir, name string) (string, error) {
	dest := filepath.Join(dir, name)
	if !strings.HasPrefix(dest, filepath.Clean(dir)+string(os.PathSeparator)) {
		return "", errors.Wrapf(sshmcperrors.ErrExtractionFailed, "archive entry escapes extraction dir: %s", name)
	}
	return dest, nil
}
