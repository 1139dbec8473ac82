// Package build carries version information stamped into the binary.
package build

import "runtime/debug"

// Version is set at build time via -ldflags "-X github.com/mb256/web/internal/build.Version=...".
var Version = "dev"

// String returns the version, including the VCS revision when the binary was
// built from a checkout and no explicit version was stamped.
func String() string {
	if Version != "dev" {
		return Version
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Version
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && len(setting.Value) >= 8 {
			return Version + "-" + setting.Value[:8]
		}
	}
	return Version
}
