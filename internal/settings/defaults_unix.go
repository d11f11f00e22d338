//go:build !windows && !darwin

package settings

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
)

const xterm = "Xterm"

func preconfigured() Preconfigured {
	p := Preconfigured{
		Telnet: map[string]string{
			xterm:            `xterm -T "{name}" -e "telnet {host} {port}"`,
			"Putty":          `putty -telnet {host} {port} -title "{name}" -sl 2500 -fg SALMON1 -bg BLACK`,
			"Gnome Terminal": `gnome-terminal -t "{name}" -e "telnet {host} {port}"`,
			"Xfce4 Terminal": `xfce4-terminal --tab -T "{name}" -e "telnet {host} {port}"`,
			"ROXTerm":        `roxterm -n "{name}" --tab -e "telnet {host} {port}"`,
			"KDE Konsole":    `konsole --new-tab -p tabtitle="{name}" -e "telnet {host} {port}"`,
			"SecureCRT":      `SecureCRT /T /N "{name}"  /TELNET {host} {port}`,
			"Mate Terminal":  `mate-terminal --tab -e "telnet {host} {port}" -t "{name}"`,
			"LXTerminal":     `lxterminal -t "{name}" -e "telnet {host} {port}"`,
			"urxvt":          `urxvt -title {name} -e telnet {host} {port}`,
			"kitty":          `kitty -T {name} telnet {host} {port}`,
		},
		VNC: map[string]string{
			"TightVNC":      `vncviewer {host}:{port}`,
			"Vinagre":       `vinagre {host}::{port}`,
			"gvncviewer":    `gvncviewer {host}:{port}`,
			"Remote Viewer": `remote-viewer vnc://{host}:{port}`,
		},
		Spice: map[string]string{
			"Remote Viewer": `remote-viewer spice://{host}:{port}`,
		},
		Capture: map[string]string{
			WiresharkNormalCapture:      `wireshark {pcap_file}`,
			WiresharkLiveTrafficCapture: `tail -f -c +0b {pcap_file} | wireshark -o "gui.window_title:{name}" -k -i -`,
		},
	}
	if runtime.GOOS == "freebsd" {
		p.Capture[WiresharkLiveTrafficCapture] = `gtail -f -c +0b {pcap_file} | wireshark -o "gui.window_title:{name}" -k -i -`
	}
	return p
}

func defaultCommands(p Preconfigured) Commands {
	telnet := p.Telnet[xterm]
	if runtime.GOOS == "linux" {
		telnet = linuxTelnet(p, os.Getenv("XDG_CURRENT_DESKTOP"), exec.LookPath)
	}
	return Commands{
		Telnet: telnet,
		VNC:    p.VNC["TightVNC"],
		Spice:  p.Spice["Remote Viewer"],
		Pcap:   p.Capture[WiresharkLiveTrafficCapture],
	}
}

// linuxTelnet picks the terminal of the running desktop environment.
func linuxTelnet(p Preconfigured, desktop string, lookPath func(string) (string, error)) string {
	desktop = strings.ToLower(desktop)
	onDesktop := func(names ...string) bool {
		for _, name := range names {
			if desktop != "" && strings.Contains(desktop, name) {
				return true
			}
		}
		return false
	}

	switch {
	case onDesktop("gnome", "unity", "cinnamon"):
		return p.Telnet["Gnome Terminal"]
	case onDesktop("kde"):
		return p.Telnet["KDE Konsole"]
	case onDesktop("mate"):
		return p.Telnet["Mate Terminal"]
	case onDesktop("xfce"):
		return p.Telnet["Xfce4 Terminal"]
	case onDesktop("lxde", "lxqt"):
		return p.Telnet["LXTerminal"]
	}
	if _, err := lookPath("x-terminal-emulator"); err == nil {
		return `x-terminal-emulator -T "{name}" -e "telnet {host} {port}"`
	}
	return p.Telnet[xterm]
}
