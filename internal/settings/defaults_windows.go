package settings

import (
	"os"
	"os/exec"
	"path/filepath"
)

const (
	puttyStandalone = "Putty (normal standalone version)"
	tightVNC        = "TightVNC (included with GNS3)"
	solarPutty      = `Solar-PuTTY.exe --telnet --hostname {host} --port {port}  --name "{name}"`
)

func programDirs() (programFiles, programFilesX86 string) {
	programFiles = os.Getenv("PROGRAMFILES")
	programFilesX86 = os.Getenv("PROGRAMFILES(X86)")
	if programFilesX86 == "" {
		// 32-bit Windows
		programFilesX86 = programFiles
	}
	return programFiles, programFilesX86
}

func preconfigured() Preconfigured {
	pf, pf86 := programDirs()
	profile := os.Getenv("USERPROFILE")
	quoted := func(parts ...string) string {
		return `"` + filepath.Join(parts...) + `"`
	}

	p := Preconfigured{
		Telnet: map[string]string{
			puttyStandalone:                     `putty_standalone.exe -telnet {host} {port} -loghost "{name}"`,
			"Putty (custom deprecated version)": `putty.exe -telnet {host} {port} -wt "{name}" -gns3 5 -skin 4`,
			"MobaXterm":                         quoted(pf86, `Mobatek\MobaXterm Personal Edition\MobaXterm.exe`) + ` -newtab "telnet {host} {port}"`,
			"Royal TS V3":                       filepath.Join(pf, `code4ward.net\Royal TS V3\RTS3App.exe`) + ` /connectadhoc:{host} /adhoctype:terminal /p:IsTelnetConnection="true" /p:ConnectionType="telnet;Telnet Connection" /p:Port="{port}" /p:Name="{name}"`,
			"Royal TS V5":                       quoted(pf86, `Royal TS V5\RoyalTS.exe`) + ` /protocol:terminal /using:adhoc /uri:"{host}" /property:Port="{port}" /property:IsTelnetConnection="true" /property:Name="{name}"`,
			"SuperPutty":                        `SuperPutty.exe -telnet "{host} -P {port} -wt \"{name}\""`,
			"SecureCRT":                         quoted(pf, `VanDyke Software\SecureCRT\SecureCRT.exe`) + ` /N "{name}" /T /TELNET {host} {port}`,
			"SecureCRT (personal profile)":      quoted(profile, `AppData\Local\VanDyke Software\SecureCRT\SecureCRT.exe`) + ` /T /N "{name}" /TELNET {host} {port}`,
			"TeraTerm Pro":                      quoted(pf86, `teraterm\ttermpro.exe`) + ` /W="{name}" /M="ttstart.macro" /T=1 {host} {port}`,
			"Telnet":                            `telnet {host} {port}`,
			"Xshell 4":                          quoted(pf86, `NetSarang\Xshell 4\xshell.exe`) + ` -url telnet://{host}:{port}`,
			"Xshell 5":                          quoted(pf86, `NetSarang\Xshell 5\xshell.exe`) + ` -url telnet://{host}:{port} -newtab {name}`,
			"Windows Terminal":                  `wt.exe -w 1 new-tab --title {name} telnet {host} {port}`,
			"ZOC 6":                             quoted(pf86, `ZOC6\zoc.exe`) + ` "/TELNET:{host}:{port}" /TABBED "/TITLE:{name}"`,
		},
		VNC: map[string]string{
			tightVNC:   `tvnviewer.exe {host}:{port}`,
			"UltraVNC": quoted(pf, `uvnc bvba\UltraVNC\vncviewer.exe`) + ` {host}:{port}`,
		},
		Spice: map[string]string{
			"Remote Viewer": quoted(pf, `VirtViewer v7.0-256\bin\remote-viewer.exe`) + ` spice://{host}:{port}`,
		},
		Capture: map[string]string{
			WiresharkNormalCapture:      filepath.Join(pf, `Wireshark\wireshark.exe`) + ` {pcap_file}`,
			WiresharkLiveTrafficCapture: `tail.exe -f -c +0b {pcap_file} | ` + quoted(pf, `Wireshark\wireshark.exe`) + ` -o "gui.window_title:{name}" -k -i -`,
		},
	}
	if solarInstalled() {
		p.Telnet["Solar-Putty (included with GNS3)"] = solarPutty
	} else {
		p.Telnet["Solar-Putty (included with GNS3 downloaded from gns3.com)"] = solarPutty
	}
	return p
}

func solarInstalled() bool {
	_, err := exec.LookPath("Solar-PuTTY.exe")
	return err == nil
}

func defaultCommands(p Preconfigured) Commands {
	telnet := p.Telnet[puttyStandalone]
	if solarInstalled() {
		telnet = solarPutty
	}
	return Commands{
		Telnet: telnet,
		VNC:    p.VNC[tightVNC],
		Spice:  p.Spice["Remote Viewer"],
		Pcap:   p.Capture[WiresharkLiveTrafficCapture],
	}
}
