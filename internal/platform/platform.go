// Package platform maps the host operating system and CPU architecture to
// the vocabulary used by the Node.js distribution archives.
//
// The mapping is a pure function of the host introspection strings. It never
// fails: unrecognized operating systems fall back to linux and unrecognized
// architectures fall back to x64, matching the behavior of the nodejs.org
// download matrix.
package platform

import "runtime"

// OS identifies a supported operating system family.
type OS string

const (
	// Windows covers all Windows hosts.
	Windows OS = "windows"
	// Darwin covers macOS hosts.
	Darwin OS = "darwin"
	// Linux covers Linux and, as a fallback, every other Unix-like host.
	Linux OS = "linux"
)

// Arch identifies a supported CPU architecture.
type Arch string

const (
	// X64 is 64-bit x86. It is also the fallback for unrecognized machines.
	X64 Arch = "x64"
	// ARM64 is 64-bit ARM.
	ARM64 Arch = "arm64"
	// X86 is 32-bit x86.
	X86 Arch = "x86"
)

// ArchiveKind identifies the compression format of a distribution archive.
type ArchiveKind string

const (
	// Zip is used by Windows distributions.
	Zip ArchiveKind = "zip"
	// TarGz is used by macOS distributions.
	TarGz ArchiveKind = "tar.gz"
	// TarXz is used by Linux distributions.
	TarXz ArchiveKind = "tar.xz"
)

// Tokens describes the host in the distribution's naming convention.
// Compute it once per process via Detect; it never changes afterwards.
type Tokens struct {
	OS      OS
	Arch    Arch
	Archive ArchiveKind
}

// Detect returns the tokens for the running process's host.
func Detect() Tokens {
	return DetectFrom(runtime.GOOS, runtime.GOARCH)
}

// DetectFrom maps raw OS and machine strings to tokens. It accepts both Go's
// GOOS/GOARCH spelling and uname-style machine names, so callers can feed it
// either. Unknown values select the documented fallbacks rather than failing.
func DetectFrom(goos, machine string) Tokens {
	var o OS
	switch goos {
	case "windows":
		o = Windows
	case "darwin":
		o = Darwin
	default:
		o = Linux
	}

	var a Arch
	switch machine {
	case "x86_64", "amd64":
		a = X64
	case "arm64", "aarch64":
		a = ARM64
	case "i386", "i686", "x86", "386":
		a = X86
	default:
		a = X64
	}

	return Tokens{OS: o, Arch: a, Archive: o.archiveKind()}
}

func (o OS) archiveKind() ArchiveKind {
	switch o {
	case Windows:
		return Zip
	case Darwin:
		return TarGz
	case Linux:
		return TarXz
	}
	return TarXz
}

// DistToken returns the OS token as it appears in distribution file names.
// Windows archives are published under "win", not "windows".
func (o OS) DistToken() string {
	if o == Windows {
		return "win"
	}
	return string(o)
}

// cmdShims lists executables that ship as .cmd batch shims on Windows
// rather than real binaries.
var cmdShims = map[string]bool{
	"npm": true,
	"npx": true,
}

// ExecutableName returns the platform-specific file name for a distribution
// executable: unchanged on Unix, ".exe" on Windows, except for the npm/npx
// shims which ship as ".cmd" scripts.
func (o OS) ExecutableName(base string) string {
	if o != Windows {
		return base
	}
	if cmdShims[base] {
		return base + ".cmd"
	}
	return base + ".exe"
}
