// Package iplatform defines the capability interface that hides the
// operating system specific parts of launching console programs: how a
// command line becomes a process, how the source stage of a capture pipe is
// prepared and how a freshly started program is brought to the front.
package iplatform

import "os/exec"

// Ops is implemented once per target OS family and selected at startup.
type Ops interface {
	// Name identifies the implementation, e.g. "posix" or "windows".
	Name() string

	// Command builds an unstarted process for a fully resolved command line.
	// Implementations either tokenize the line into an argument vector or
	// hand the whole string to the OS, depending on what is native there.
	Command(commandLine string) (*exec.Cmd, error)

	// PipeSource builds the first stage of a piped capture command (the
	// process tailing the capture file).
	PipeSource(commandLine string) (*exec.Cmd, error)

	// Focus raises the top level windows owned by pid. It is best effort
	// and never fails.
	Focus(pid int)
}
