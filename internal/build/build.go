// Package build holds values stamped in at link time.
package build

// Version is the cairn release, set with -ldflags "-X go.trai.ch/cairn/internal/build.Version=v1.2.3".
var Version = "dev"
