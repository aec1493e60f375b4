// Package version exposes the binary's build version.
package version

// value is overridden at build time via
// -ldflags "-X github.com/rydnr/jdfix/internal/version.value=v1.2.3".
var value = "v0.1.0-dev"

// Value returns the build version string.
func Value() string {
	return value
}
