// Package prompt implements the interactive questions of a capture session
// on the controlling terminal.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mfulz/gns3launch/internal/capture"
	"golang.org/x/term"
)

// Terminal asks on stderr and reads answers from stdin. Without a terminal
// every prompt is cancelled, since nobody could answer it.
type Terminal struct {
	in           *bufio.Reader
	out          io.Writer
	interactive  bool
	readPassword func() ([]byte, error)
}

var (
	_ capture.CredentialsPrompter = (*Terminal)(nil)
	_ capture.CertificatePrompter = (*Terminal)(nil)
)

// NewTerminal returns a prompt bound to the process' stdin and stderr.
func NewTerminal() *Terminal {
	fd := int(os.Stdin.Fd())
	return &Terminal{
		in:           bufio.NewReader(os.Stdin),
		out:          os.Stderr,
		interactive:  term.IsTerminal(fd),
		readPassword: func() ([]byte, error) { return term.ReadPassword(fd) },
	}
}

// PromptCredentials asks for a user name (defaulting to username) and a
// password without echo.
func (t *Terminal) PromptCredentials(server, username string) (capture.Credentials, error) {
	if !t.interactive {
		return capture.Credentials{}, capture.ErrPromptCancelled
	}

	fmt.Fprintf(t.out, "Authentication required by %s\n", server)
	if username != "" {
		fmt.Fprintf(t.out, "Username [%s]: ", username)
	} else {
		fmt.Fprint(t.out, "Username: ")
	}
	line, err := t.readLine()
	if err != nil {
		return capture.Credentials{}, err
	}
	if line != "" {
		username = line
	}
	if username == "" {
		return capture.Credentials{}, capture.ErrPromptCancelled
	}

	fmt.Fprint(t.out, "Password: ")
	password, err := t.readPassword()
	fmt.Fprintln(t.out)
	if err != nil {
		return capture.Credentials{}, fmt.Errorf("cannot read password: %w", err)
	}
	return capture.Credentials{Username: username, Password: string(password)}, nil
}

// ConfirmCertificate shows the certificate problems and asks whether to
// connect anyway. Only an explicit yes accepts.
func (t *Terminal) ConfirmCertificate(req capture.TrustRequest) (bool, error) {
	if !t.interactive {
		return false, nil
	}

	fmt.Fprintf(t.out, "SSL error when connecting to %s:\n", req.HostPort)
	for _, problem := range req.Problems {
		fmt.Fprintf(t.out, "  - %s\n", problem)
	}
	fmt.Fprintf(t.out, "\n%s\n", req.Details)
	fmt.Fprint(t.out, "Connect anyway? [y/N]: ")

	line, err := t.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", capture.ErrPromptCancelled
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
