package prompt

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/mfulz/gns3launch/internal/capture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTerminal(input string, interactive bool) (*Terminal, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &Terminal{
		in:           bufio.NewReader(strings.NewReader(input)),
		out:          out,
		interactive:  interactive,
		readPassword: func() ([]byte, error) { return []byte("secret"), nil },
	}, out
}

func TestPromptCredentials(t *testing.T) {
	t.Parallel()

	t.Run("default username", func(t *testing.T) {
		t.Parallel()
		term, out := newTestTerminal("\n", true)
		creds, err := term.PromptCredentials("https://ctrl:3080", "admin")
		require.NoError(t, err)
		assert.Equal(t, capture.Credentials{Username: "admin", Password: "secret"}, creds)
		assert.Contains(t, out.String(), "Username [admin]: ")
	})

	t.Run("typed username", func(t *testing.T) {
		t.Parallel()
		term, _ := newTestTerminal("alice\n", true)
		creds, err := term.PromptCredentials("https://ctrl:3080", "admin")
		require.NoError(t, err)
		assert.Equal(t, "alice", creds.Username)
	})

	t.Run("closed input", func(t *testing.T) {
		t.Parallel()
		term, _ := newTestTerminal("", true)
		_, err := term.PromptCredentials("https://ctrl:3080", "")
		assert.True(t, errors.Is(err, capture.ErrPromptCancelled))
	})

	t.Run("no terminal", func(t *testing.T) {
		t.Parallel()
		term, out := newTestTerminal("alice\n", false)
		_, err := term.PromptCredentials("https://ctrl:3080", "")
		assert.True(t, errors.Is(err, capture.ErrPromptCancelled))
		assert.Empty(t, out.String())
	})
}

func TestConfirmCertificate(t *testing.T) {
	t.Parallel()

	req := capture.TrustRequest{
		HostPort: "ctrl:3080",
		Problems: []string{"The certificate is self-signed, and untrusted"},
		Details:  "Subject: CN=ctrl",
	}

	testcases := []struct {
		input       string
		interactive bool
		want        bool
	}{
		{input: "y\n", interactive: true, want: true},
		{input: "YES\n", interactive: true, want: true},
		{input: "\n", interactive: true},
		{input: "no\n", interactive: true},
		{input: "y\n", interactive: false},
	}

	for _, tc := range testcases {
		term, out := newTestTerminal(tc.input, tc.interactive)
		ok, err := term.ConfirmCertificate(req)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ok, "%q", tc.input)
		if tc.interactive {
			assert.Contains(t, out.String(), "self-signed")
			assert.Contains(t, out.String(), "Subject: CN=ctrl")
		}
	}
}
