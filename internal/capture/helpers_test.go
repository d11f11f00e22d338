package capture

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mfulz/gns3launch/protocol"
	"github.com/stretchr/testify/require"
)

const validToken = "valid-token"

// controller emulates the parts of the controller API the client uses.
type controller struct {
	v3     bool
	users  map[string]string
	stream http.HandlerFunc

	mu          sync.Mutex
	authCalls   int
	v3Probes    int
	streamCalls int
	basicUser   string
	userAgent   string
}

func (c *controller) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	c.userAgent = r.UserAgent()
	c.mu.Unlock()

	switch {
	case r.URL.Path == "/v2/version":
		if c.v3 {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, protocol.VersionResponse{Version: "2.2.50"})

	case r.URL.Path == "/v3/access/users/me":
		c.mu.Lock()
		c.v3Probes++
		c.mu.Unlock()
		if !c.v3 {
			http.NotFound(w, r)
			return
		}
		if !c.bearerOK(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, protocol.User{Username: "admin"})

	case r.URL.Path == protocol.AuthenticatePath && r.Method == http.MethodPost:
		c.mu.Lock()
		c.authCalls++
		c.mu.Unlock()
		var req protocol.AuthenticateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, protocol.ErrorResponse{Message: "bad json"})
			return
		}
		if pw, ok := c.users[req.Username]; !ok || pw != req.Password {
			writeJSON(w, http.StatusUnauthorized, protocol.ErrorResponse{Message: "Authentication was unsuccessful."})
			return
		}
		writeJSON(w, http.StatusOK, protocol.TokenResponse{AccessToken: validToken, TokenType: "bearer"})

	case strings.HasSuffix(r.URL.Path, "/pcap") || strings.HasSuffix(r.URL.Path, "/capture/stream"):
		c.mu.Lock()
		c.streamCalls++
		if user, _, ok := r.BasicAuth(); ok {
			c.basicUser = user
		}
		c.mu.Unlock()
		if c.v3 && !c.bearerOK(w, r) {
			return
		}
		c.stream(w, r)

	default:
		http.NotFound(w, r)
	}
}

type controllerStats struct {
	authCalls   int
	v3Probes    int
	streamCalls int
	basicUser   string
	userAgent   string
}

func (c *controller) stats() controllerStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return controllerStats{
		authCalls:   c.authCalls,
		v3Probes:    c.v3Probes,
		streamCalls: c.streamCalls,
		basicUser:   c.basicUser,
		userAgent:   c.userAgent,
	}
}

func (c *controller) bearerOK(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Authorization") == "Bearer "+validToken {
		return true
	}
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeJSON(w, http.StatusUnauthorized, protocol.ErrorResponse{Message: "Could not validate credentials"})
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// pcapChunks streams chunks with a flush after each one.
func pcapChunks(chunks ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", protocol.PcapMediaType)
		w.WriteHeader(http.StatusOK)
		for _, chunk := range chunks {
			_, _ = w.Write([]byte(chunk))
			w.(http.Flusher).Flush()
		}
	}
}

func testConfig(t *testing.T, srv *httptest.Server) Config {
	t.Helper()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	return Config{
		Protocol:  u.Scheme,
		Host:      u.Hostname(),
		Port:      uint16(port),
		Timeout:   2 * time.Second,
		UserAgent: "GNS3 WebClient pack vtest",
	}
}

// fakeConsumer captures the file content at kill time, which is the last
// moment before the session removes it.
type fakeConsumer struct {
	mu      sync.Mutex
	path    string
	content string
	kills   int
	done    chan struct{}
	once    sync.Once
}

func (f *fakeConsumer) start(path string) (Consumer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.path = path
	f.done = make(chan struct{})
	return f, nil
}

func (f *fakeConsumer) Kill() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kills++
	if data, err := os.ReadFile(f.path); err == nil {
		f.content = string(data)
	}
	f.once.Do(func() { close(f.done) })
	return nil
}

func (f *fakeConsumer) Done() <-chan struct{} {
	return f.done
}

// fakePrompter answers after delay, like a user taking their time.
type fakePrompter struct {
	delay time.Duration

	mu        sync.Mutex
	creds     Credentials
	credErr   error
	credCalls int
	accept    bool
	certCalls int
	lastCert  TrustRequest
}

func (p *fakePrompter) PromptCredentials(server, username string) (Credentials, error) {
	time.Sleep(p.delay)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.credCalls++
	return p.creds, p.credErr
}

func (p *fakePrompter) ConfirmCertificate(req TrustRequest) (bool, error) {
	time.Sleep(p.delay)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.certCalls++
	p.lastCert = req
	return p.accept, nil
}
