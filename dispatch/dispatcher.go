// Package dispatch provides the registry mapping console URL schemes to the
// handlers that validate and launch them.
package dispatch

import (
	"context"
	"sync"

	"github.com/mfulz/gns3launch/internal/consoleurl"
	"github.com/mfulz/gns3launch/internal/launcherr"
)

// HandlerFunc handles one parsed console URL.
type HandlerFunc func(ctx context.Context, u *consoleurl.URL) error

// Dispatcher maps schemes to their handlers.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[consoleurl.Scheme]HandlerFunc
}

// New creates a new Dispatcher.
func New() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[consoleurl.Scheme]HandlerFunc),
	}
}

// Register binds a scheme to a handler, replacing any previous one.
func (d *Dispatcher) Register(scheme consoleurl.Scheme, handler HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[scheme] = handler
}

// Schemes returns the registered schemes in consoleurl.Schemes order.
func (d *Dispatcher) Schemes() []consoleurl.Scheme {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []consoleurl.Scheme
	for _, s := range consoleurl.Schemes {
		if _, ok := d.handlers[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Dispatch executes the handler registered for u's scheme.
func (d *Dispatcher) Dispatch(ctx context.Context, u *consoleurl.URL) error {
	d.mu.RLock()
	handler, ok := d.handlers[u.Scheme]
	d.mu.RUnlock()

	if !ok {
		return launcherr.Parse(nil, "Protocol not found or supported in URL '%s'", u.String())
	}
	return handler(ctx, u)
}
