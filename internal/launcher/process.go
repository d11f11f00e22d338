package launcher

import (
	"errors"
	"os"
	"os/exec"
	"sync"

	"go.uber.org/zap"
)

// Process tracks a started capture reader until it exits or is killed.
type Process struct {
	cmd  *exec.Cmd
	log  *zap.SugaredLogger
	done chan struct{}

	mu     sync.Mutex
	err    error
	killed bool
}

func newProcess(cmd *exec.Cmd, log *zap.SugaredLogger) *Process {
	p := &Process{cmd: cmd, log: log, done: make(chan struct{})}
	go func() {
		err := cmd.Wait()
		p.mu.Lock()
		p.err = err
		p.mu.Unlock()
		close(p.done)
	}()
	log.Debugf("[launcher] Capture reader started (PID %d)", p.Pid())
	return p
}

// Pid returns the process id, or 0 when the process never started.
func (p *Process) Pid() int {
	return pidOf(p.cmd)
}

// Done is closed once the process has exited.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Exited reports whether the process has exited.
func (p *Process) Exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Err returns the result of waiting for the process once it has exited.
func (p *Process) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Kill terminates the process and everything it spawned. Killing an
// exited process is not an error.
func (p *Process) Kill() error {
	p.mu.Lock()
	if p.killed || p.cmd.Process == nil {
		p.mu.Unlock()
		return nil
	}
	p.killed = true
	p.mu.Unlock()

	if p.Exited() {
		return nil
	}
	p.log.Debugf("[launcher] Killing capture reader (PID %d)", p.Pid())
	if err := killTree(p.cmd.Process); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
