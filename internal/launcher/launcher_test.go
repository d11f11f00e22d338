package launcher

import (
	"errors"
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mfulz/gns3launch/internal/launcherr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeOps splits on whitespace and records pipe sources and focus calls.
type fakeOps struct {
	// hold blocks Focus until closed, like a window poll that never finds one.
	hold chan struct{}

	mu      sync.Mutex
	sources []string
	focused []int
}

func (f *fakeOps) Name() string { return "fake" }

func (f *fakeOps) Command(commandLine string) (*exec.Cmd, error) {
	args := strings.Fields(commandLine)
	if len(args) == 0 {
		return nil, launcherr.Launch(nil, "Cannot parse '%s': empty command", commandLine)
	}
	return exec.Command(args[0], args[1:]...), nil
}

func (f *fakeOps) PipeSource(commandLine string) (*exec.Cmd, error) {
	f.mu.Lock()
	f.sources = append(f.sources, commandLine)
	f.mu.Unlock()
	return f.Command(commandLine)
}

func (f *fakeOps) Focus(pid int) {
	if f.hold != nil {
		<-f.hold
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.focused = append(f.focused, pid)
}

func (f *fakeOps) focusedPids() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.focused...)
}

type recorder struct {
	mu      sync.Mutex
	started [][]string
	failOn  string
}

func (r *recorder) start(cmd *exec.Cmd) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn != "" && cmd.Args[0] == r.failOn {
		return exec.ErrNotFound
	}
	r.started = append(r.started, cmd.Args)
	return nil
}

func TestLaunch(t *testing.T) {
	t.Parallel()

	ops := &fakeOps{}
	rec := &recorder{}
	l := New(ops, zaptest.NewLogger(t).Sugar(), WithStart(rec.start))

	require.NoError(t, l.Launch("telnet localhost 6000"))
	assert.Equal(t, [][]string{{"telnet", "localhost", "6000"}}, rec.started)
	assert.Eventually(t, func() bool { return len(ops.focusedPids()) == 1 }, time.Second, 10*time.Millisecond)
}

func TestLaunchDoesNotWaitForFocus(t *testing.T) {
	t.Parallel()

	ops := &fakeOps{hold: make(chan struct{})}
	defer close(ops.hold)
	l := New(ops, zaptest.NewLogger(t).Sugar(), WithStart((&recorder{}).start))

	done := make(chan error, 1)
	go func() { done <- l.Launch("putty -telnet localhost 6000") }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Launch blocked on window focus")
	}
	assert.Empty(t, ops.focusedPids())
}

func TestLaunchErrors(t *testing.T) {
	t.Parallel()

	t.Run("spawn failure carries cause", func(t *testing.T) {
		t.Parallel()
		l := New(&fakeOps{}, zaptest.NewLogger(t).Sugar(), WithStart((&recorder{failOn: "putty"}).start))
		err := l.Launch("putty -telnet localhost 6000")
		require.Error(t, err)
		assert.True(t, errors.Is(err, launcherr.ErrLaunch))
		assert.True(t, errors.Is(err, exec.ErrNotFound))
		assert.Contains(t, err.Error(), "putty -telnet localhost 6000")
	})

	t.Run("tokenization failure", func(t *testing.T) {
		t.Parallel()
		l := New(&fakeOps{}, nil, WithStart((&recorder{}).start))
		err := l.Launch("   ")
		assert.True(t, errors.Is(err, launcherr.ErrLaunch))
	})
}

func TestLaunchCapture(t *testing.T) {
	t.Parallel()

	t.Run("single program", func(t *testing.T) {
		t.Parallel()
		rec := &recorder{}
		l := New(&fakeOps{}, zaptest.NewLogger(t).Sugar(), WithStart(rec.start))
		proc, err := l.LaunchCapture(`wireshark -k -i /tmp/c.pcap`)
		require.NoError(t, err)
		require.NotNil(t, proc)
		assert.Equal(t, [][]string{{"wireshark", "-k", "-i", "/tmp/c.pcap"}}, rec.started)
	})

	t.Run("pipe uses source stage for the handle", func(t *testing.T) {
		t.Parallel()
		ops := &fakeOps{}
		rec := &recorder{}
		l := New(ops, zaptest.NewLogger(t).Sugar(), WithStart(rec.start))
		proc, err := l.LaunchCapture(`tail -f -c +0b /tmp/c.pcap | wireshark -k -i -`)
		require.NoError(t, err)
		assert.Equal(t, []string{"tail -f -c +0b /tmp/c.pcap"}, ops.sources)
		assert.Equal(t, [][]string{{"tail", "-f", "-c", "+0b", "/tmp/c.pcap"}, {"wireshark", "-k", "-i", "-"}}, rec.started)
		assert.Equal(t, "tail", proc.cmd.Args[0])
	})

	t.Run("empty command", func(t *testing.T) {
		t.Parallel()
		l := New(&fakeOps{}, nil, WithStart((&recorder{}).start))
		_, err := l.LaunchCapture("  ")
		require.Error(t, err)
		assert.True(t, errors.Is(err, launcherr.ErrLaunch))
		assert.Equal(t, "No packet capture program configured", err.Error())
	})

	t.Run("empty pipe stage", func(t *testing.T) {
		t.Parallel()
		l := New(&fakeOps{}, nil, WithStart((&recorder{}).start))
		_, err := l.LaunchCapture("| wireshark -k -i -")
		assert.True(t, errors.Is(err, launcherr.ErrLaunch))
	})

	t.Run("sink failure", func(t *testing.T) {
		t.Parallel()
		l := New(&fakeOps{}, nil, WithStart((&recorder{failOn: "wireshark"}).start))
		_, err := l.LaunchCapture("tail -f x | wireshark -k -i -")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "wireshark -k -i -")
	})
}
