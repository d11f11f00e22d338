//go:build !windows

package launcher

import (
	"os"
	"os/exec"
	"syscall"
)

// configureGroup puts cmd into its own process group so a kill reaches the
// helpers it forks.
func configureGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

func killTree(p *os.Process) error {
	if err := syscall.Kill(-p.Pid, syscall.SIGKILL); err == nil {
		return nil
	}
	return p.Kill()
}
