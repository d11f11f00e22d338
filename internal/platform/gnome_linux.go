package platform

import (
	"os"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

type procInfo struct {
	proc    *process.Process
	name    string
	ppid    int32
	created int64
}

// gnomeTerminalEnv looks for a telnet session started by the current
// user's gnome-terminal-server and returns its GNOME_TERMINAL_SERVICE and
// GNOME_TERMINAL_SCREEN variables. Any failure yields nil.
func gnomeTerminalEnv() map[string]string {
	procs, err := process.Processes()
	if err != nil {
		return nil
	}

	uid := int32(os.Getuid())
	var owned []procInfo
	for _, p := range procs {
		uids, err := p.Uids()
		if err != nil || len(uids) == 0 || uids[0] != uid {
			continue
		}
		name, err := p.Name()
		if err != nil {
			continue
		}
		ppid, _ := p.Ppid()
		created, _ := p.CreateTime()
		owned = append(owned, procInfo{proc: p, name: name, ppid: ppid, created: created})
	}

	server := int32(-1)
	for _, p := range owned {
		if p.name == "gnome-terminal-server" {
			server = p.proc.Pid
			break
		}
	}
	if server < 0 {
		return nil
	}

	var children []procInfo
	for _, p := range owned {
		if p.ppid == server {
			children = append(children, p)
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i].created > children[j].created })

	for _, child := range children {
		if child.name != "telnet" {
			continue
		}
		environ, err := child.proc.Environ()
		if err != nil {
			continue
		}
		if env := gnomeSessionVars(environ); env != nil {
			return env
		}
	}
	return nil
}

func gnomeSessionVars(environ []string) map[string]string {
	env := map[string]string{}
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if key == envGnomeTerminalService || key == envGnomeTerminalScreen {
			env[key] = value
		}
	}
	if len(env) != 2 {
		return nil
	}
	return env
}
