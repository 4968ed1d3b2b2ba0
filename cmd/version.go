// Package cmd holds the version metadata stamped into release binaries.
package cmd

// Stamped by the release pipeline through -ldflags; local builds keep the
// placeholders.
var (
	// Version is the release version of the binary.
	Version = "dev"
	// Commit is the source revision the binary was built from.
	Commit = "none"
	// Date is when the binary was built.
	Date = "unknown"
)
