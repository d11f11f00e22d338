package settings

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mfulz/gns3launch/internal/consoleurl"
)

// Section names in the settings blob.
const (
	SectionCommands       = "CommandsSettings"
	SectionController     = "ControllerSettings"
	SectionCustomCommands = "CustomCommands"
)

// Commands holds the active command template per scheme.
type Commands struct {
	Telnet string `mapstructure:"telnet_command"`
	VNC    string `mapstructure:"vnc_command"`
	Spice  string `mapstructure:"spice_command"`
	Pcap   string `mapstructure:"pcap_command"`
}

// ForScheme returns the template configured for scheme.
func (c Commands) ForScheme(scheme consoleurl.Scheme) string {
	switch scheme {
	case consoleurl.SchemeTelnet:
		return c.Telnet
	case consoleurl.SchemeVNC:
		return c.VNC
	case consoleurl.SchemeSpice:
		return c.Spice
	case consoleurl.SchemePcap:
		return c.Pcap
	}
	return ""
}

// Set replaces the template of scheme.
func (c *Commands) Set(scheme consoleurl.Scheme, template string) {
	switch scheme {
	case consoleurl.SchemeTelnet:
		c.Telnet = template
	case consoleurl.SchemeVNC:
		c.VNC = template
	case consoleurl.SchemeSpice:
		c.Spice = template
	case consoleurl.SchemePcap:
		c.Pcap = template
	}
}

// Controller holds how to reach and authenticate with the controller for
// packet captures.
type Controller struct {
	Protocol                     string `mapstructure:"protocol"`
	Username                     string `mapstructure:"username"`
	Password                     string `mapstructure:"password"`
	Token                        string `mapstructure:"token"`
	AcceptInvalidSSLCertificates bool   `mapstructure:"accept_invalid_ssl_certificates"`
}

// DefaultController returns the controller defaults: plain HTTP, no
// credentials.
func DefaultController() Controller {
	return Controller{Protocol: "http"}
}

// CustomCommands holds user defined named templates per console scheme.
type CustomCommands struct {
	Telnet map[string]string `mapstructure:"telnet"`
	VNC    map[string]string `mapstructure:"vnc"`
	Spice  map[string]string `mapstructure:"spice"`
}

// ForScheme returns the custom templates of scheme. Packet capture readers
// have none.
func (c CustomCommands) ForScheme(scheme consoleurl.Scheme) map[string]string {
	switch scheme {
	case consoleurl.SchemeTelnet:
		return c.Telnet
	case consoleurl.SchemeVNC:
		return c.VNC
	case consoleurl.SchemeSpice:
		return c.Spice
	}
	return nil
}

func LoadCommands(s Store) (Commands, error) {
	var c Commands
	err := loadSection(s, SectionCommands, DefaultCommands(), &c)
	return c, err
}

func SaveCommands(s Store, c Commands) error {
	return saveSection(s, SectionCommands, c)
}

func LoadController(s Store) (Controller, error) {
	var c Controller
	err := loadSection(s, SectionController, DefaultController(), &c)
	return c, err
}

func SaveController(s Store, c Controller) error {
	return saveSection(s, SectionController, c)
}

// SaveToken persists a controller bearer token and leaves the other
// controller settings untouched.
func SaveToken(s Store, token string) error {
	return s.Save(SectionController, map[string]any{"token": token})
}

func LoadCustomCommands(s Store) (CustomCommands, error) {
	defaults := CustomCommands{Telnet: map[string]string{}, VNC: map[string]string{}, Spice: map[string]string{}}
	var c CustomCommands
	if err := loadSection(s, SectionCustomCommands, defaults, &c); err != nil {
		return c, err
	}
	for _, m := range []*map[string]string{&c.Telnet, &c.VNC, &c.Spice} {
		if *m == nil {
			*m = map[string]string{}
		}
	}
	return c, nil
}

func SaveCustomCommands(s Store, c CustomCommands) error {
	return saveSection(s, SectionCustomCommands, c)
}

func loadSection(s Store, section string, defaults, out any) error {
	defaultMap, err := toMap(defaults)
	if err != nil {
		return err
	}
	raw, err := s.Load(section, defaultMap)
	if err != nil {
		return err
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("invalid %s section: %w", section, err)
	}
	return nil
}

func saveSection(s Store, section string, in any) error {
	values, err := toMap(in)
	if err != nil {
		return err
	}
	return s.Save(section, values)
}

func toMap(in any) (map[string]any, error) {
	out := map[string]any{}
	if err := mapstructure.Decode(in, &out); err != nil {
		return nil, err
	}
	return out, nil
}
