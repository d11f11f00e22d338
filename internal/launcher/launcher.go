// Package launcher starts resolved console and capture reader commands.
// Console programs are fire-and-forget; capture readers are returned as a
// Process handle so the capture session can terminate them.
package launcher

import (
	"os"
	"os/exec"
	"strings"

	"github.com/mfulz/gns3launch/interfaces/iplatform"
	"github.com/mfulz/gns3launch/internal/launcherr"
	"go.uber.org/zap"
)

// Launcher spawns external programs through a platform implementation.
type Launcher struct {
	ops   iplatform.Ops
	log   *zap.SugaredLogger
	start func(*exec.Cmd) error
}

// Option customizes a Launcher.
type Option func(*Launcher)

// WithStart replaces the function used to start processes.
func WithStart(start func(*exec.Cmd) error) Option {
	return func(l *Launcher) {
		l.start = start
	}
}

// New returns a Launcher using ops. A nil log discards output.
func New(ops iplatform.Ops, log *zap.SugaredLogger, opts ...Option) *Launcher {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	l := &Launcher{
		ops:   ops,
		log:   log,
		start: func(cmd *exec.Cmd) error { return cmd.Start() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Launch starts commandLine and returns as soon as the program runs. The
// child is reaped and its window brought to front in the background.
func (l *Launcher) Launch(commandLine string) error {
	l.log.Infof("[launcher] Launching command '%s'", commandLine)

	cmd, err := l.ops.Command(commandLine)
	if err != nil {
		return err
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := l.start(cmd); err != nil {
		return launcherr.Launch(err, "Cannot start command '%s'", commandLine)
	}

	pid := pidOf(cmd)
	l.log.Debugf("[launcher] Command started (PID %d)", pid)
	go func() {
		_ = cmd.Wait()
		l.log.Debugf("[launcher] Command exited (PID %d)", pid)
	}()

	go l.ops.Focus(pid)
	return nil
}

// LaunchCapture starts a capture reader. A command containing '|' is run
// as two stages connected by a pipe; the returned handle is the first
// stage, which is the one tailing the capture file.
func (l *Launcher) LaunchCapture(commandLine string) (*Process, error) {
	if source, sink, ok := strings.Cut(commandLine, "|"); ok {
		return l.launchPipe(strings.TrimSpace(source), strings.TrimSpace(sink))
	}

	if strings.TrimSpace(commandLine) == "" {
		return nil, launcherr.Launch(nil, "No packet capture program configured")
	}
	l.log.Infof("[launcher] Launching capture reader '%s'", commandLine)

	cmd, err := l.ops.Command(commandLine)
	if err != nil {
		return nil, err
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	configureGroup(cmd)

	if err := l.start(cmd); err != nil {
		return nil, launcherr.Launch(err, "Cannot start capture reader '%s'", commandLine)
	}
	return newProcess(cmd, l.log), nil
}

func (l *Launcher) launchPipe(source, sink string) (*Process, error) {
	if source == "" || sink == "" {
		return nil, launcherr.Launch(nil, "Cannot parse '%s | %s': empty pipe stage", source, sink)
	}
	l.log.Infof("[launcher] Launching capture pipe '%s' | '%s'", source, sink)

	src, err := l.ops.PipeSource(source)
	if err != nil {
		return nil, err
	}
	dst, err := l.ops.Command(sink)
	if err != nil {
		return nil, err
	}

	r, w, err := os.Pipe()
	if err != nil {
		return nil, launcherr.Launch(err, "Cannot create pipe")
	}
	// The parent keeps no pipe ends once both stages have their copies.
	defer r.Close()
	defer w.Close()

	src.Stdout = w
	src.Stderr = os.Stderr
	configureGroup(src)
	dst.Stdin = r
	dst.Stdout = os.Stdout
	dst.Stderr = os.Stderr

	if err := l.start(src); err != nil {
		return nil, launcherr.Launch(err, "Cannot start command '%s'", source)
	}
	proc := newProcess(src, l.log)

	if err := l.start(dst); err != nil {
		_ = proc.Kill()
		return nil, launcherr.Launch(err, "Cannot start command '%s'", sink)
	}
	go func() {
		_ = dst.Wait()
		l.log.Debugf("[launcher] Capture reader exited (PID %d)", pidOf(dst))
	}()
	return proc, nil
}

func pidOf(cmd *exec.Cmd) int {
	if cmd.Process == nil {
		return 0
	}
	return cmd.Process.Pid
}
