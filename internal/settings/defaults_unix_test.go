//go:build !windows && !darwin

package settings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinuxTelnet(t *testing.T) {
	t.Parallel()

	p := preconfigured()
	missing := func(string) (string, error) { return "", errors.New("not found") }
	found := func(name string) (string, error) { return "/usr/bin/" + name, nil }

	testcases := []struct {
		desktop string
		look    func(string) (string, error)
		want    string
	}{
		{desktop: "ubuntu:GNOME", look: missing, want: p.Telnet["Gnome Terminal"]},
		{desktop: "X-Cinnamon", look: missing, want: p.Telnet["Gnome Terminal"]},
		{desktop: "KDE", look: missing, want: p.Telnet["KDE Konsole"]},
		{desktop: "MATE", look: missing, want: p.Telnet["Mate Terminal"]},
		{desktop: "XFCE", look: missing, want: p.Telnet["Xfce4 Terminal"]},
		{desktop: "LXQt", look: missing, want: p.Telnet["LXTerminal"]},
		{desktop: "", look: found, want: `x-terminal-emulator -T "{name}" -e "telnet {host} {port}"`},
		{desktop: "sway", look: missing, want: p.Telnet[xterm]},
	}

	for _, tc := range testcases {
		assert.Equal(t, tc.want, linuxTelnet(p, tc.desktop, tc.look), tc.desktop)
	}
}
