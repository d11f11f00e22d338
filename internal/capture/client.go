// Package capture streams packet captures of a link from the GNS3
// controller into a temporary file read by a local capture program.
//
// The Client negotiates the controller API generation, authenticates and
// applies the certificate trust policy. A Session runs one capture from
// start to its terminal state.
package capture

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mfulz/gns3launch/internal/launcherr"
	"github.com/mfulz/gns3launch/protocol"
	"go.uber.org/zap"
)

const (
	// DefaultPort is the controller port used when the URL has none.
	DefaultPort = 3080
	// DefaultTimeout bounds the wait for response headers.
	DefaultTimeout = 30 * time.Second
)

// Config describes how to reach the controller.
type Config struct {
	Protocol string // "http" or "https"
	Host     string
	Port     uint16

	Username string
	Password string
	Token    string

	AcceptInvalidCertificates bool
	// RootCAs verifies the controller certificate. Nil uses the system pool.
	RootCAs *x509.CertPool

	Timeout   time.Duration
	UserAgent string
}

// Option customizes a Client.
type Option func(*Client)

// WithCredentialsPrompt sets the prompt used after a rejected login.
func WithCredentialsPrompt(p CredentialsPrompter) Option {
	return func(c *Client) { c.credPrompt = p }
}

// WithCertificatePrompt sets the prompt used for untrusted certificates.
func WithCertificatePrompt(p CertificatePrompter) Option {
	return func(c *Client) { c.certPrompt = p }
}

// WithTokenSaver sets the function persisting a newly issued token.
func WithTokenSaver(save func(token string) error) Option {
	return func(c *Client) { c.saveToken = save }
}

// Client talks to one controller.
type Client struct {
	cfg      Config
	base     string
	hostPort string
	log      *zap.SugaredLogger
	http     *http.Client
	trust    *TrustCache

	credPrompt CredentialsPrompter
	certPrompt CertificatePrompter
	saveToken  func(string) error

	// certMu serializes certificate prompts.
	certMu sync.Mutex
	// prompting counts prompts waiting for the user.
	prompting atomic.Int32
	// promptEnd is the UnixNano time the last prompt was answered.
	promptEnd atomic.Int64

	mu       sync.Mutex
	username string
	password string
	token    string
}

// NewClient returns a Client for cfg. A nil log discards output.
func NewClient(cfg Config, log *zap.SugaredLogger, opts ...Option) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if cfg.Protocol == "" {
		cfg.Protocol = "http"
	}
	cfg.Protocol = strings.ToLower(cfg.Protocol)
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	hostPort := net.JoinHostPort(cfg.Host, strconv.Itoa(int(cfg.Port)))
	c := &Client{
		cfg:      cfg,
		base:     cfg.Protocol + "://" + hostPort,
		hostPort: hostPort,
		log:      log,
		trust:    NewTrustCache(),
		username: cfg.Username,
		password: cfg.Password,
		token:    cfg.Token,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   cfg.Timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSClientConfig: &tls.Config{
				// Verification is done in verifyConnection so the trust
				// policy can override it.
				InsecureSkipVerify: true,
				VerifyConnection:   c.verifyConnection,
			},
		},
	}
	return c
}

// BaseURL returns the controller root, e.g. "http://localhost:3080".
func (c *Client) BaseURL() string {
	return c.base
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Prompting reports whether a prompt is waiting for the user.
func (c *Client) Prompting() bool {
	return c.prompting.Load() > 0
}

func (c *Client) beginPrompt() {
	c.prompting.Add(1)
}

func (c *Client) endPrompt() {
	c.promptEnd.Store(time.Now().UnixNano())
	c.prompting.Add(-1)
}

// promptedWithin reports whether a prompt is pending or was answered less
// than d ago.
func (c *Client) promptedWithin(d time.Duration) bool {
	if c.Prompting() {
		return true
	}
	end := c.promptEnd.Load()
	return end != 0 && time.Since(time.Unix(0, end)) < d
}

// Negotiate detects the controller API generation: the v2 version endpoint
// is probed first, then the v3 current user endpoint.
func (c *Client) Negotiate(ctx context.Context) (protocol.APIVersion, error) {
	err := c.probe(ctx, protocol.V2)
	if err == nil {
		c.log.Infof("[capture] Controller %s speaks API v2", c.base)
		return protocol.V2, nil
	}
	if errors.Is(err, launcherr.ErrTLS) || errors.Is(err, launcherr.ErrTimeout) || ctx.Err() != nil {
		return "", err
	}
	c.log.Debugf("[capture] API v2 probe failed: %v", err)

	if err := c.probe(ctx, protocol.V3); err != nil {
		return "", err
	}
	c.log.Infof("[capture] Controller %s speaks API v3", c.base)
	return protocol.V3, nil
}

func (c *Client) probe(ctx context.Context, version protocol.APIVersion) error {
	resp, err := c.Do(ctx, http.MethodGet, protocol.ProbePath(version), version)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return launcherr.Auth(nil, "Unauthorized request to %s", c.base+protocol.ProbePath(version))
	default:
		return launcherr.Network(nil, "%s returned %s", c.base+protocol.ProbePath(version), resp.Status)
	}
}

// Do sends an authenticated request. On a v3 bearer challenge the client
// re-authenticates and repeats the request once; the caller handles any
// further 401.
func (c *Client) Do(ctx context.Context, method, path string, version protocol.APIVersion) (*http.Response, error) {
	resp, err := c.send(ctx, method, path, version, nil)
	if err != nil {
		return nil, err
	}
	if version != protocol.V3 || !isBearerChallenge(resp) {
		return resp, nil
	}
	resp.Body.Close()

	c.log.Infof("[capture] %s requires authentication", path)
	if err := c.reauthenticate(ctx); err != nil {
		return nil, err
	}
	return c.send(ctx, method, path, version, nil)
}

func (c *Client) send(ctx context.Context, method, path string, version protocol.APIVersion, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		r, err := protocol.EncodeJSON(body)
		if err != nil {
			return nil, err
		}
		reader = r
	}

	reqCtx, timer := c.withHeaderTimeout(ctx)
	req, err := http.NewRequestWithContext(reqCtx, method, c.base+path, reader)
	if err != nil {
		timer.release()
		return nil, launcherr.Network(err, "Cannot build request for %s", path)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	c.authorize(req, version)

	resp, err := c.http.Do(req)
	if err != nil {
		timer.release()
		if timer.fired.Load() {
			return nil, launcherr.Timeout("Timeout after %s seconds for request %s", seconds(c.cfg.Timeout), req.URL)
		}
		return nil, c.classify(ctx, req, err)
	}
	resp.Body = &releaseBody{ReadCloser: resp.Body, release: timer.release}
	return resp, nil
}

func (c *Client) authorize(req *http.Request, version protocol.APIVersion) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch version {
	case protocol.V3:
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
	default:
		if c.username != "" {
			auth := base64.StdEncoding.EncodeToString([]byte(c.username + ":" + c.password))
			req.Header.Set("Authorization", "Basic "+auth)
		}
	}
}

func (c *Client) classify(ctx context.Context, req *http.Request, err error) error {
	var certErr *CertificateError
	switch {
	case errors.As(err, &certErr):
		return launcherr.TLS(certErr, "SSL error when connecting to %s", c.base)
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		return launcherr.Network(ctx.Err(), "Request %s cancelled", req.URL)
	case errors.Is(err, context.DeadlineExceeded):
		return launcherr.Timeout("Timeout after %s seconds for request %s", seconds(c.cfg.Timeout), req.URL)
	}
	var tlsErr tls.RecordHeaderError
	if errors.As(err, &tlsErr) {
		return launcherr.TLS(err, "SSL error when connecting to %s", c.base)
	}
	return launcherr.Network(err, "Error while connecting to PCAP stream")
}

// reauthenticate obtains a new token. Stored credentials are tried once
// silently, then the user is prompted once.
func (c *Client) reauthenticate(ctx context.Context) error {
	notify(ctx, StateAuthenticating)

	c.mu.Lock()
	creds := Credentials{Username: c.username, Password: c.password}
	c.mu.Unlock()

	if creds.Username != "" {
		ok, err := c.authenticate(ctx, creds)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		c.log.Warnf("[capture] Stored credentials for %q were rejected", creds.Username)
	}

	if c.credPrompt == nil {
		return launcherr.Auth(nil, "Authentication required by %s", c.base)
	}
	prompted, err := c.promptCredentials(ctx, creds.Username)
	if err != nil {
		return launcherr.Auth(err, "Authentication to %s aborted", c.base)
	}
	ok, err := c.authenticate(ctx, prompted)
	if err != nil {
		return err
	}
	if !ok {
		return launcherr.Auth(nil, "Authentication to %s failed for user %q", c.base, prompted.Username)
	}

	c.mu.Lock()
	c.username, c.password = prompted.Username, prompted.Password
	c.mu.Unlock()
	return nil
}

// promptCredentials runs the prompt so that cancelling ctx unblocks the
// caller even while the prompt waits for input.
func (c *Client) promptCredentials(ctx context.Context, username string) (Credentials, error) {
	type result struct {
		creds Credentials
		err   error
	}
	c.beginPrompt()
	defer c.endPrompt()

	done := make(chan result, 1)
	go func() {
		creds, err := c.credPrompt.PromptCredentials(c.base, username)
		done <- result{creds, err}
	}()
	select {
	case r := <-done:
		return r.creds, r.err
	case <-ctx.Done():
		return Credentials{}, ctx.Err()
	}
}

// authenticate exchanges creds for a token. It reports false when the
// controller rejected the credentials.
func (c *Client) authenticate(ctx context.Context, creds Credentials) (bool, error) {
	c.log.Infof("[capture] Authenticating to %s as %q", c.base, creds.Username)
	resp, err := c.send(ctx, http.MethodPost, protocol.AuthenticatePath, protocol.V3,
		protocol.AuthenticateRequest{Username: creds.Username, Password: creds.Password})
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, nil
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if msg, ok := protocol.ErrorMessage(body); ok {
			return false, launcherr.Auth(nil, "Authentication to %s failed: %s", c.base, msg)
		}
		return false, launcherr.Auth(nil, "Authentication to %s failed: %s", c.base, resp.Status)
	}

	var token protocol.TokenResponse
	if err := protocol.DecodeJSON(resp.Body, &token); err != nil || token.AccessToken == "" {
		return false, launcherr.Auth(err, "Invalid authentication answer from %s", c.base)
	}

	c.mu.Lock()
	c.token = token.AccessToken
	c.mu.Unlock()

	if c.saveToken != nil {
		if err := c.saveToken(token.AccessToken); err != nil {
			c.log.Errorf("[capture] Could not save the controller token: %v", err)
		}
	}
	return true, nil
}

func (c *Client) verifyConnection(cs tls.ConnectionState) error {
	if len(cs.PeerCertificates) == 0 {
		return &CertificateError{HostPort: c.hostPort, Problems: []string{"No certificate presented"}}
	}
	problems := certificateProblems(cs.PeerCertificates, c.cfg.Host, c.cfg.RootCAs, time.Now())
	if len(problems) == 0 {
		return nil
	}
	if c.cfg.AcceptInvalidCertificates {
		c.log.Debugf("[capture] Ignoring SSL errors for %s: %s", c.hostPort, strings.Join(problems, "; "))
		return nil
	}

	leaf := cs.PeerCertificates[0]
	fingerprint := Fingerprint(leaf)
	if c.trust.Trusted(c.hostPort, fingerprint) {
		return nil
	}

	c.certMu.Lock()
	defer c.certMu.Unlock()
	if c.trust.Trusted(c.hostPort, fingerprint) {
		return nil
	}

	accepted := false
	if c.certPrompt != nil {
		c.beginPrompt()
		ok, err := c.certPrompt.ConfirmCertificate(TrustRequest{
			HostPort:    c.hostPort,
			Problems:    problems,
			Fingerprint: fingerprint,
			Details:     CertificateText(leaf),
		})
		c.endPrompt()
		accepted = ok && err == nil
	}
	if accepted {
		c.log.Infof("[capture] Certificate %s accepted for %s", fingerprint, c.hostPort)
		c.trust.Add(c.hostPort, fingerprint)
		return nil
	}

	for _, problem := range problems {
		c.log.Errorf("[capture] SSL error: %s", problem)
	}
	return &CertificateError{HostPort: c.hostPort, Problems: problems}
}

func isBearerChallenge(resp *http.Response) bool {
	if resp.StatusCode != http.StatusUnauthorized {
		return false
	}
	for _, challenge := range resp.Header.Values("WWW-Authenticate") {
		scheme, _, _ := strings.Cut(strings.TrimSpace(challenge), " ")
		if strings.EqualFold(scheme, "Bearer") {
			return true
		}
	}
	return false
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
