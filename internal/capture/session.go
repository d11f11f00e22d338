package capture

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/mfulz/gns3launch/internal/launcherr"
	"github.com/mfulz/gns3launch/protocol"
	"go.uber.org/zap"
)

// State is a capture session state.
type State int

const (
	StateIdle State = iota
	StateVersionProbe
	StateAuthenticating
	StateStreaming
	StateCompleted
	StateFailed
	StateTimedOut
)

var stateNames = map[State]string{
	StateIdle:           "idle",
	StateVersionProbe:   "version-probe",
	StateAuthenticating: "authenticating",
	StateStreaming:      "streaming",
	StateCompleted:      "completed",
	StateFailed:         "failed",
	StateTimedOut:       "timed-out",
}

func (s State) String() string {
	return stateNames[s]
}

// Terminal reports whether s ends a session.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateTimedOut
}

// Consumer is the running capture reader.
type Consumer interface {
	Kill() error
	Done() <-chan struct{}
}

// StartConsumer starts the capture reader on the capture file at path.
type StartConsumer func(path string) (Consumer, error)

// consumerExitWait bounds how long teardown waits for a killed reader to
// release the capture file.
const consumerExitWait = 2 * time.Second

// Session streams the capture of one link.
type Session struct {
	ID string

	client    *Client
	projectID string
	linkID    string
	start     StartConsumer
	log       *zap.SugaredLogger

	running  atomic.Bool
	terminal sync.Once

	mu    sync.Mutex
	state State
	path  string
}

// NewSession prepares a capture of link linkID in project projectID.
func (c *Client) NewSession(projectID, linkID string, start StartConsumer) *Session {
	id := uuid.NewString()
	return &Session{
		ID:        id,
		client:    c,
		projectID: projectID,
		linkID:    linkID,
		start:     start,
		log:       c.log.With("session", id),
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Path returns the capture file, empty before streaming starts.
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Terminal() || s.state == state {
		return
	}
	s.log.Debugf("[capture] %s -> %s", s.state, state)
	s.state = state
}

func (s *Session) finish(state State, err error) error {
	s.terminal.Do(func() {
		s.setState(state)
		if err != nil {
			s.log.Errorf("[capture] Session ended (%s): %v", state, err)
		} else {
			s.log.Infof("[capture] Session ended (%s)", state)
		}
	})
	return err
}

// Run negotiates the API, starts the capture reader and streams until the
// controller ends the stream, an error occurs, the header timeout fires or
// ctx is cancelled. The reader is killed and the capture file removed on
// every path. Run may be called once.
func (s *Session) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return launcherr.Network(nil, "Capture session %s already started", s.ID)
	}

	s.setState(StateVersionProbe)
	version, err := s.client.Negotiate(withObserver(ctx, s.setState))
	if err != nil {
		return s.finish(failureState(err), err)
	}

	file, err := os.CreateTemp("", "gns3-capture-*.pcap")
	if err != nil {
		return s.finish(StateFailed, launcherr.Launch(err, "Cannot create the capture file"))
	}
	s.mu.Lock()
	s.path = file.Name()
	s.mu.Unlock()
	defer func() {
		file.Close()
		if err := os.Remove(file.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.log.Warnf("[capture] Cannot remove %s: %v", file.Name(), err)
		}
	}()

	consumer, err := s.start(file.Name())
	if err != nil {
		return s.finish(StateFailed, err)
	}
	defer func() {
		if err := consumer.Kill(); err != nil {
			s.log.Warnf("[capture] Cannot kill the capture reader: %v", err)
		}
		select {
		case <-consumer.Done():
		case <-time.After(consumerExitWait):
		}
	}()

	s.setState(StateStreaming)
	return s.stream(ctx, version, file)
}

func (s *Session) stream(ctx context.Context, version protocol.APIVersion, file *os.File) error {
	path := protocol.StreamPath(version, s.projectID, s.linkID)
	target := s.client.BaseURL() + path

	s.log.Infof("[capture] Connecting to PCAP stream %s", target)
	resp, err := s.client.Do(withObserver(ctx, s.setState), http.MethodGet, path, version)
	if err != nil {
		return s.finish(failureState(err), err)
	}
	defer resp.Body.Close()
	s.setState(StateStreaming)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return s.finish(StateFailed, streamError(resp))
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != protocol.PcapMediaType {
		s.log.Debugf("[capture] Ignoring %q body", mediaType)
		_, err = io.Copy(io.Discard, resp.Body)
	} else {
		err = copyChunks(file, resp.Body)
	}

	switch {
	case err == nil:
		return s.finish(StateCompleted, nil)
	case ctx.Err() != nil:
		return s.finish(StateFailed, launcherr.Network(ctx.Err(), "PCAP stream cancelled"))
	default:
		return s.finish(StateFailed, launcherr.Network(err, "Error while reading PCAP stream"))
	}
}

// failureState maps a request error to the terminal state it causes.
func failureState(err error) State {
	if errors.Is(err, launcherr.ErrTimeout) {
		return StateTimedOut
	}
	return StateFailed
}

// copyChunks writes each chunk as soon as it arrives; os.File writes are
// unbuffered so the reader tailing the file sees them immediately.
func copyChunks(dst *os.File, src io.Reader) error {
	buf := make([]byte, 32*1024)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func streamError(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return launcherr.Auth(nil, "Unauthorized request to PCAP stream")
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if msg, ok := protocol.ErrorMessage(body); ok {
		return launcherr.Network(nil, "Error from server while connecting to PCAP stream: %s", msg)
	}
	return launcherr.Network(nil, "Error when connecting to PCAP stream: %s", resp.Status)
}

type observerKey struct{}

func withObserver(ctx context.Context, observe func(State)) context.Context {
	return context.WithValue(ctx, observerKey{}, observe)
}

func notify(ctx context.Context, state State) {
	if observe, ok := ctx.Value(observerKey{}).(func(State)); ok {
		observe(state)
	}
}
