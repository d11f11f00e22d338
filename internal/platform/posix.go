//go:build !windows

package platform

import (
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/mfulz/gns3launch/interfaces/iplatform"
	"github.com/mfulz/gns3launch/internal/launcherr"
)

const (
	envGnomeTerminalService = "GNOME_TERMINAL_SERVICE"
	envGnomeTerminalScreen  = "GNOME_TERMINAL_SCREEN"
)

// posixOps tokenizes command lines with shell word splitting rules and
// spawns them with an explicit argument vector.
type posixOps struct {
	goos       string
	environ    func() []string
	sessionEnv func() map[string]string
}

// New returns the POSIX implementation.
func New() iplatform.Ops {
	return &posixOps{
		goos:       runtime.GOOS,
		environ:    os.Environ,
		sessionEnv: gnomeTerminalEnv,
	}
}

func (o *posixOps) Name() string {
	return "posix"
}

func (o *posixOps) Command(commandLine string) (*exec.Cmd, error) {
	args, err := split(commandLine)
	if err != nil {
		return nil, err
	}

	env := o.environ()
	// gnome-terminal only opens tabs in an existing window when it inherits
	// the session identifiers of a running instance.
	if o.goos == "linux" && strings.Contains(args[0], "gnome-terminal") && strings.Contains(commandLine, "--tab") {
		if !hasEnv(env, envGnomeTerminalService) || !hasEnv(env, envGnomeTerminalScreen) {
			env = mergeEnv(env, o.sessionEnv())
		}
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Env = env
	return cmd, nil
}

func (o *posixOps) PipeSource(commandLine string) (*exec.Cmd, error) {
	args, err := split(commandLine)
	if err != nil {
		return nil, err
	}
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Env = o.environ()
	return cmd, nil
}

// Focus is a no-op: window managers raise newly mapped windows themselves.
func (o *posixOps) Focus(int) {}

func split(commandLine string) ([]string, error) {
	args, err := shellwords.Parse(commandLine)
	if err != nil {
		return nil, launcherr.Launch(err, "Cannot parse '%s'", commandLine)
	}
	if len(args) == 0 {
		return nil, launcherr.Launch(nil, "Cannot parse '%s': empty command", commandLine)
	}
	return args, nil
}
