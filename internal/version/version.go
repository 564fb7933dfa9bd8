// Package version holds build metadata injected with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/itsmostafa/docidx/internal/version.Version=v0.3.0"
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func init() {
	if Version != "dev" {
		return
	}
	// go install embeds the module version
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
}

func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}
