package app

import (
	"context"

	"github.com/mfulz/gns3launch/internal/capture"
	"github.com/mfulz/gns3launch/internal/command"
	"github.com/mfulz/gns3launch/internal/consoleurl"
	"github.com/mfulz/gns3launch/internal/launcherr"
	"github.com/mfulz/gns3launch/internal/settings"
)

const (
	paramProjectID = "project_id"
	paramLinkID    = "link_id"
)

func (a *App) openCapture(ctx context.Context, u *consoleurl.URL) error {
	projectID := u.Param(paramProjectID, "")
	linkID := u.Param(paramLinkID, "")
	if projectID == "" || linkID == "" {
		return launcherr.Validation("project_id and link_id are required URL parameters!")
	}

	template, err := a.template(u.Scheme)
	if err != nil {
		return err
	}
	// Surface template errors before anything is sent to the controller.
	if _, err := command.Resolve(template, u, command.Options{Capture: true}); err != nil {
		return err
	}

	controller, err := settings.LoadController(a.store)
	if err != nil {
		return err
	}

	client := capture.NewClient(a.clientConfig(u, controller), a.log, a.clientOptions()...)
	session := client.NewSession(projectID, linkID, func(path string) (capture.Consumer, error) {
		line, err := command.Resolve(template, u, command.Options{Capture: true, PcapFile: path})
		if err != nil {
			return nil, err
		}
		proc, err := a.launcher.LaunchCapture(line)
		if err != nil {
			return nil, err
		}
		return proc, nil
	})
	a.log.Infof("[app] Capture session %s for link %s of project %s on %s", session.ID, linkID, projectID, client.BaseURL())
	return session.Run(ctx)
}

func (a *App) clientConfig(u *consoleurl.URL, controller settings.Controller) capture.Config {
	cfg := capture.Config{
		Protocol:                  controller.Protocol,
		Host:                      u.Host,
		Username:                  controller.Username,
		Password:                  controller.Password,
		Token:                     controller.Token,
		AcceptInvalidCertificates: controller.AcceptInvalidSSLCertificates,
		RootCAs:                   a.rootCAs,
		Timeout:                   a.timeout,
		UserAgent:                 "GNS3 WebClient pack v" + a.version,
	}
	if u.HasPort {
		cfg.Port = u.Port
	}
	return cfg
}

func (a *App) clientOptions() []capture.Option {
	opts := []capture.Option{
		capture.WithTokenSaver(func(token string) error {
			return settings.SaveToken(a.store, token)
		}),
	}
	if a.prompter != nil {
		opts = append(opts,
			capture.WithCredentialsPrompt(a.prompter),
			capture.WithCertificatePrompt(a.prompter),
		)
	}
	return opts
}
