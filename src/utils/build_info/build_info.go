// Package build_info stores values set upon compilation
package build_info

var (
	Version   = "dev"
	BuildDate = "unknown"
)
