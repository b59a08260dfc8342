package domain

import (
	"fmt"
	"strings"
)

// OS is the operating system an installation script targets.
type OS string

const (
	OSWindows OS = "windows"
	OSLinux   OS = "linux"
	OSMacOS   OS = "macos"
)

// AllOS lists the recognised operating systems in display order.
var AllOS = []OS{OSWindows, OSLinux, OSMacOS}

// ParseOS parses user input into an OS. Matching is case-insensitive so the
// labels shown in the UI ("Windows", "macOS") are accepted as-is.
func ParseOS(s string) (OS, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "windows":
		return OSWindows, nil
	case "linux":
		return OSLinux, nil
	case "macos":
		return OSMacOS, nil
	case "":
		return "", fmt.Errorf("%w: os is required", ErrInvalidInput)
	}
	return "", fmt.Errorf("%w: unsupported os %q", ErrInvalidInput, s)
}

// Valid reports whether o is one of the recognised values.
func (o OS) Valid() bool {
	switch o {
	case OSWindows, OSLinux, OSMacOS:
		return true
	}
	return false
}

// Label returns the display name.
func (o OS) Label() string {
	switch o {
	case OSWindows:
		return "Windows"
	case OSLinux:
		return "Linux"
	case OSMacOS:
		return "macOS"
	}
	return string(o)
}

// Dialect returns the script language generated for o.
func (o OS) Dialect() string {
	if o == OSWindows {
		return "PowerShell"
	}
	return "Bash"
}

// ScriptExtension returns the file extension of scripts for o.
func (o OS) ScriptExtension() string {
	if o == OSWindows {
		return ".ps1"
	}
	return ".sh"
}
