// Package meta holds build metadata shared by the CLI commands.
package meta

// Version is the shopmcp release version.
const Version = "1.0.0"
