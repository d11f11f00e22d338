package settings

import (
	"sort"

	"github.com/mfulz/gns3launch/internal/consoleurl"
)

// Names of the preconfigured packet capture readers.
const (
	WiresharkNormalCapture      = "Wireshark Traditional Capture"
	WiresharkLiveTrafficCapture = "Wireshark Live Traffic Capture"
)

// Preconfigured lists the well known programs per scheme, keyed by a
// display name.
type Preconfigured struct {
	Telnet  map[string]string
	VNC     map[string]string
	Spice   map[string]string
	Capture map[string]string
}

// ForScheme returns the preconfigured commands of scheme.
func (p Preconfigured) ForScheme(scheme consoleurl.Scheme) map[string]string {
	switch scheme {
	case consoleurl.SchemeTelnet:
		return p.Telnet
	case consoleurl.SchemeVNC:
		return p.VNC
	case consoleurl.SchemeSpice:
		return p.Spice
	case consoleurl.SchemePcap:
		return p.Capture
	}
	return nil
}

// PreconfiguredCommands returns the programs known for the current OS.
func PreconfiguredCommands() Preconfigured {
	return preconfigured()
}

// DefaultCommands returns the commands used when the settings file has
// none.
func DefaultCommands() Commands {
	return defaultCommands(preconfigured())
}

// SortedNames returns the keys of commands in lexical order.
func SortedNames(commands map[string]string) []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
