// Package buildinfo holds the application identity and build metadata.
package buildinfo

// Name is the application name, used for XDG directories and the tray id.
const Name = "sway-matiane"

// Version is injected by build flags.
var Version = "dev"
