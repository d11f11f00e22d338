//go:build windows

package platform

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/mfulz/gns3launch/interfaces/iplatform"
	"github.com/mfulz/gns3launch/internal/launcherr"
	"golang.org/x/sys/windows"
)

const tailProgram = "tail.exe"

// windowsOps hands the whole command line to CreateProcess, which is how
// Windows programs expect to receive their arguments.
type windowsOps struct {
	tailPath func() string
}

// New returns the Windows implementation.
func New() iplatform.Ops {
	return &windowsOps{tailPath: bundledTail}
}

func (o *windowsOps) Name() string {
	return "windows"
}

func (o *windowsOps) Command(commandLine string) (*exec.Cmd, error) {
	program, _ := splitProgram(commandLine)
	if program == "" {
		return nil, launcherr.Launch(nil, "Cannot parse '%s': empty command", commandLine)
	}
	cmd := exec.Command(program)
	cmd.SysProcAttr = &syscall.SysProcAttr{CmdLine: strings.TrimSpace(commandLine)}
	cmd.Env = os.Environ()
	return cmd, nil
}

// PipeSource hides the console of the tailing stage and points tail.exe at
// the copy bundled with the launcher.
func (o *windowsOps) PipeSource(commandLine string) (*exec.Cmd, error) {
	if path := o.tailPath(); path != "" {
		commandLine = relocateProgram(commandLine, tailProgram, path)
	}
	cmd, err := o.Command(commandLine)
	if err != nil {
		return nil, err
	}
	cmd.SysProcAttr.HideWindow = true
	cmd.SysProcAttr.CreationFlags |= windows.CREATE_NO_WINDOW
	return cmd, nil
}

// Focus waits briefly for pid to map a window, then restores and raises it.
func (o *windowsOps) Focus(pid int) {
	for attempt := 0; attempt < 10; attempt++ {
		if hwnds := topLevelWindows(uint32(pid)); len(hwnds) > 0 {
			for _, hwnd := range hwnds {
				raise(hwnd)
			}
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
}

// bundledTail returns tail.exe next to the launcher executable, or in the
// GNS3 installation directory.
func bundledTail() string {
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), tailProgram)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	if programFiles := os.Getenv("ProgramFiles"); programFiles != "" {
		candidate := filepath.Join(programFiles, "GNS3", tailProgram)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
