// Package buildinfo holds build-time information.
package buildinfo

// Version is the application version.
// It defaults to "dev" and can be overwritten by linker flags.
var Version = "dev"
