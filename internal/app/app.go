// Package app wires the launcher together. An App is built once in main and
// owns every collaborator a console request needs: settings, the process
// launcher, the capture client settings and the interactive prompts.
package app

import (
	"context"
	"crypto/x509"
	"time"

	"github.com/mfulz/gns3launch/dispatch"
	"github.com/mfulz/gns3launch/internal/capture"
	"github.com/mfulz/gns3launch/internal/command"
	"github.com/mfulz/gns3launch/internal/consoleurl"
	"github.com/mfulz/gns3launch/internal/launcher"
	"github.com/mfulz/gns3launch/internal/launcherr"
	"github.com/mfulz/gns3launch/internal/settings"
	"go.uber.org/zap"
)

// Prompter asks the user for credentials and certificate exceptions.
type Prompter interface {
	capture.CredentialsPrompter
	capture.CertificatePrompter
}

// Options holds the collaborators of an App.
type Options struct {
	Store    settings.Store
	Launcher *launcher.Launcher
	Prompter Prompter
	Logger   *zap.SugaredLogger

	// Version is reported in the User-Agent of controller requests.
	Version string
	// CaptureTimeout bounds the wait for the controller's first response.
	CaptureTimeout time.Duration
	// RootCAs overrides the system roots when verifying the controller.
	RootCAs *x509.CertPool
}

// App dispatches console URLs to their handlers.
type App struct {
	store    settings.Store
	launcher *launcher.Launcher
	prompter Prompter
	log      *zap.SugaredLogger

	version string
	timeout time.Duration
	rootCAs *x509.CertPool

	dispatcher *dispatch.Dispatcher
}

// New builds an App and registers a handler for every supported scheme.
func New(opts Options) *App {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	timeout := opts.CaptureTimeout
	if timeout <= 0 {
		timeout = capture.DefaultTimeout
	}

	a := &App{
		store:      opts.Store,
		launcher:   opts.Launcher,
		prompter:   opts.Prompter,
		log:        log,
		version:    opts.Version,
		timeout:    timeout,
		rootCAs:    opts.RootCAs,
		dispatcher: dispatch.New(),
	}
	a.dispatcher.Register(consoleurl.SchemeTelnet, a.openConsole)
	a.dispatcher.Register(consoleurl.SchemeVNC, a.openVNC)
	a.dispatcher.Register(consoleurl.SchemeSpice, a.openConsole)
	a.dispatcher.Register(consoleurl.SchemePcap, a.openCapture)
	return a
}

// Schemes lists the schemes the App handles.
func (a *App) Schemes() []consoleurl.Scheme {
	return a.dispatcher.Schemes()
}

// Open parses raw and runs its handler. Console handlers return once the
// program is started; capture handlers return when the stream ends.
func (a *App) Open(ctx context.Context, raw string) error {
	u, err := consoleurl.Parse(raw)
	if err != nil {
		return err
	}
	a.log.Infof("[app] Opening %s (host=%s port=%s)", u.Scheme, u.Host, u.PortString())
	return a.dispatcher.Dispatch(ctx, u)
}

func (a *App) template(scheme consoleurl.Scheme) (string, error) {
	commands, err := settings.LoadCommands(a.store)
	if err != nil {
		return "", err
	}
	template := commands.ForScheme(scheme)
	if template == "" {
		return "", launcherr.Validation("No command configured for protocol handler '%s'", scheme.Protocol())
	}
	a.log.Debugf("[app] Command template for %s: '%s'", scheme.Protocol(), template)
	return template, nil
}

func (a *App) openConsole(_ context.Context, u *consoleurl.URL) error {
	template, err := a.template(u.Scheme)
	if err != nil {
		return err
	}
	line, err := command.Resolve(template, u, command.Options{})
	if err != nil {
		return err
	}
	return a.launcher.Launch(line)
}

func (a *App) openVNC(ctx context.Context, u *consoleurl.URL) error {
	if u.HasPort && u.Port < command.VNCBasePort {
		return launcherr.Validation("VNC requires a port superior or equal to %d, current port is '%d'", command.VNCBasePort, u.Port)
	}
	return a.openConsole(ctx, u)
}
