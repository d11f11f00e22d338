package settings

const (
	osxTerminal      = "Terminal"
	osxScreenSharing = "OSX builtin screen sharing"
)

func preconfigured() Preconfigured {
	return Preconfigured{
		Telnet: map[string]string{
			osxTerminal: `osascript` +
				` -e 'set posix_path to do shell script "echo \"$PATH\""'` +
				` -e 'tell application "Terminal"'` +
				` -e 'activate'` +
				` -e 'do script "echo -n -e \"\\033]0;{name}\\007\"; clear; PATH=" & quoted form of posix_path & " telnet {host} {port} ; exit"'` +
				` -e 'end tell'`,
			"Terminal tabbed (experimental)": `osascript` +
				` -e 'set posix_path to do shell script "echo \"$PATH\""'` +
				` -e 'tell application "Terminal"'` +
				` -e 'activate'` +
				` -e 'tell application "System Events" to tell process "Terminal" to keystroke "t" using command down'` +
				` -e 'if (the (count of the window) = 0) then'` +
				` -e 'repeat while contents of selected tab of window 1 starts with linefeed'` +
				` -e 'delay 0.01'` +
				` -e 'end repeat'` +
				` -e 'tell application "System Events" to keystroke "n" using command down'` +
				` -e 'end if'` +
				` -e 'repeat while the busy of window 1 = true'` +
				` -e 'delay 0.01'` +
				` -e 'end repeat'` +
				` -e 'do script "echo -n -e \"\\033]0;{name}\\007\"; clear; PATH=" & quoted form of posix_path & " telnet {host} {port} ; exit" in window 1'` +
				` -e 'end tell'`,
			"iTerm2 2.x": `osascript` +
				` -e 'set posix_path to do shell script "echo \"$PATH\""'` +
				` -e 'tell application "iTerm"'` +
				` -e 'activate'` +
				` -e 'if (count of terminals) = 0 then'` +
				` -e '  set t to (make new terminal)'` +
				` -e 'else'` +
				` -e '  set t to current terminal'` +
				` -e 'end if'` +
				` -e 'tell t'` +
				` -e '  set s to (make new session at the end of sessions)'` +
				` -e '  tell s'` +
				` -e '    exec command "sh"'` +
				` -e '    write text "PATH=" & quoted form of posix_path & " exec telnet {host} {port}"'` +
				` -e '  end tell'` +
				` -e 'end tell'` +
				` -e 'end tell'`,
			"iTerm2 3.x": `osascript` +
				` -e 'set posix_path to do shell script "echo \"$PATH\""'` +
				` -e 'tell application "iTerm"'` +
				` -e 'activate'` +
				` -e 'if (count of windows) = 0 then'` +
				` -e '   set t to (create window with default profile)'` +
				` -e 'else'` +
				` -e '   set t to current window'` +
				` -e 'end if'` +
				` -e 'tell t'` +
				` -e '    create tab with default profile command "sh"'` +
				` -e '    set s to current session'` +
				` -e '    tell s'` +
				` -e '        set name to "{name}"'` +
				` -e '        write text "PATH=" & quoted form of posix_path & " exec telnet {host} {port}"'` +
				` -e '    end tell'` +
				` -e 'end tell'` +
				` -e 'end tell'`,
			"Royal TSX": `open 'rtsx://telnet%3A%2F%2F{host}:{port}'`,
			"SecureCRT": `/Applications/SecureCRT.app/Contents/MacOS/SecureCRT /N "{name}" /T /TELNET {host} {port}`,
			"ZOC 6":     `/Applications/zoc6.app/Contents/MacOS/zoc6 "/TELNET:{host}:{port}" /TABBED "/TITLE:{name}"`,
			"ZOC 7":     `/Applications/zoc7.app/Contents/MacOS/zoc7 "/TELNET:{host}:{port}" /TABBED "/TITLE:{name}"`,
			"ZOC 8":     `/Applications/zoc8.app/Contents/MacOS/zoc8 "/TELNET:{host}:{port}" /TABBED "/TITLE:{name}"`,
		},
		VNC: map[string]string{
			// Literal AppleScript braces are doubled.
			osxScreenSharing: `osascript` +
				` -e 'tell application "Screen Sharing"'` +
				` -e '   display dialog "WARNING OSX VNC support is limited if you have trouble connecting to a device please use an alternative client like Chicken of the VNC." buttons {{"OK"}} default button 1 with icon caution with title "GNS3"'` +
				` -e '  open location "vnc://{host}:{port}"'` +
				` -e 'end tell'`,
			"Chicken of the VNC":       `/Applications/Chicken.app/Contents/MacOS/Chicken {host}:{port}`,
			"Chicken of the VNC < 2.2": `/Applications/Chicken\ of\ the\ VNC.app/Contents/MacOS/Chicken\ of\ the\ VNC {host}:{port}`,
			"Royal TSX":                `open 'rtsx://vnc%3A%2F%2F{host}:{port}'`,
		},
		Spice: map[string]string{
			"Remote Viewer": `/Applications/RemoteViewer.app/Contents/MacOS/RemoteViewer spice://{host}:{port}`,
		},
		Capture: map[string]string{
			WiresharkNormalCapture:                `/usr/bin/open -a /Applications/Wireshark.app {pcap_file}`,
			"Wireshark V1.X Live Traffic Capture": `tail -f -c +0 {pcap_file} | /Applications/Wireshark.app/Contents/Resources/bin/wireshark -o "gui.window_title:{name}" -k -i -`,
			WiresharkLiveTrafficCapture:           `tail -f -c +0 {pcap_file} | /Applications/Wireshark.app/Contents/MacOS/Wireshark -o "gui.window_title:{name}" -k -i -`,
		},
	}
}

func defaultCommands(p Preconfigured) Commands {
	return Commands{
		Telnet: p.Telnet[osxTerminal],
		VNC:    p.VNC[osxScreenSharing],
		Spice:  p.Spice["Remote Viewer"],
		Pcap:   p.Capture[WiresharkLiveTrafficCapture],
	}
}
