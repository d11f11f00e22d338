package capture

import (
	"context"
	"io"
	"net/http/httptrace"
	"sync/atomic"
	"time"
)

// headerTimer cancels a request whose response headers have not arrived
// within the client timeout. Time spent in a prompt, including a
// certificate prompt inside the TLS handshake, does not count: the timer
// re-arms while a prompt is pending or was answered within the last period.
// It goes inert once the first response byte is read.
type headerTimer struct {
	timeout   time.Duration
	prompted  func(time.Duration) bool
	cancel    context.CancelFunc
	timer     *time.Timer

	headers atomic.Bool
	fired   atomic.Bool
}

func (c *Client) withHeaderTimeout(ctx context.Context) (context.Context, *headerTimer) {
	ctx, cancel := context.WithCancel(ctx)
	h := &headerTimer{timeout: c.cfg.Timeout, prompted: c.promptedWithin, cancel: cancel}
	h.timer = time.AfterFunc(h.timeout, h.expire)
	trace := &httptrace.ClientTrace{GotFirstResponseByte: h.gotHeaders}
	return httptrace.WithClientTrace(ctx, trace), h
}

func (h *headerTimer) expire() {
	if h.headers.Load() {
		return
	}
	if h.prompted(h.timeout) {
		h.timer.Reset(h.timeout)
		return
	}
	h.fired.Store(true)
	h.cancel()
}

func (h *headerTimer) gotHeaders() {
	h.headers.Store(true)
	h.timer.Stop()
}

// release stops the timer and frees the request context.
func (h *headerTimer) release() {
	h.timer.Stop()
	h.cancel()
}

// releaseBody releases the request's header timer once the body is closed.
type releaseBody struct {
	io.ReadCloser
	release func()
}

func (b *releaseBody) Close() error {
	err := b.ReadCloser.Close()
	b.release()
	return err
}
