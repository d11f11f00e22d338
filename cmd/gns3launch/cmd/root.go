// Package cmd provides the CLI commands of the gns3launch binary.
package cmd

import (
	"time"

	"github.com/mfulz/gns3launch/internal/app"
	"github.com/mfulz/gns3launch/internal/config"
	"github.com/mfulz/gns3launch/internal/launcher"
	"github.com/mfulz/gns3launch/internal/logging"
	"github.com/mfulz/gns3launch/internal/platform"
	"github.com/mfulz/gns3launch/internal/prompt"
	"github.com/mfulz/gns3launch/internal/settings"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// options holds the persistent flags shared by every command.
type options struct {
	version      string
	configPath   string
	settingsPath string
	timeout      time.Duration
}

// runtime is the state a command needs once configuration is loaded.
type runtime struct {
	cfg   *config.Config
	log   *zap.SugaredLogger
	store *settings.FileStore
}

func (o *options) setup() (*runtime, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.timeout > 0 {
		cfg.Capture.Timeout = o.timeout
	}

	log, err := logging.New(cfg.Logger)
	if err != nil {
		return nil, err
	}

	path := o.settingsPath
	if path == "" {
		path = cfg.Settings.File
	}
	if path == "" {
		path = settings.DefaultPath()
	}
	systemPath := cfg.Settings.SystemFile
	if systemPath == "" {
		systemPath = settings.SystemPath()
	}
	log.Debugf("[gns3launch] Settings file %s (system %s)", path, systemPath)

	return &runtime{
		cfg:   cfg,
		log:   log,
		store: settings.NewFileStore(path, systemPath, o.version, log),
	}, nil
}

// NewRootCmd builds the command tree. The root command takes the console
// URL to open.
func NewRootCmd(version string) *cobra.Command {
	opts := &options{version: version}

	root := &cobra.Command{
		Use:   "gns3launch <url>",
		Short: "Open GNS3 console and packet capture URLs",
		Long: `gns3launch is the protocol handler of the GNS3 web client. It resolves the
configured command for a gns3+telnet, gns3+vnc, gns3+spice or gns3+pcap URL
and starts it. Packet captures are streamed from the controller into a
temporary file read by the capture program until the stream ends.

Examples:
  gns3launch "gns3+telnet://localhost:5000?name=R1"
  gns3launch "gns3+pcap://localhost:3080?project_id=<id>&link_id=<id>"`,
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			rt, err := opts.setup()
			if err != nil {
				return err
			}
			defer rt.log.Sync()

			a := app.New(app.Options{
				Store:          rt.store,
				Launcher:       launcher.New(platform.New(), rt.log),
				Prompter:       prompt.NewTerminal(),
				Logger:         rt.log,
				Version:        version,
				CaptureTimeout: rt.cfg.Capture.Timeout,
			})
			if err := a.Open(cmd.Context(), args[0]); err != nil {
				rt.log.Errorf("[gns3launch] %v", err)
				return err
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to launcher.yaml")
	root.PersistentFlags().StringVar(&opts.settingsPath, "settings", "", "Path to the settings file")
	root.Flags().DurationVar(&opts.timeout, "timeout", 0, "Capture header timeout (overrides capture.timeout)")

	root.AddCommand(newSettingsCmd(opts))
	root.AddCommand(newCommandsCmd(opts))
	return root
}

// withRuntime adapts a command body needing a loaded runtime to RunE.
func withRuntime(opts *options, run func(cmd *cobra.Command, rt *runtime, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		rt, err := opts.setup()
		if err != nil {
			return err
		}
		defer rt.log.Sync()
		return run(cmd, rt, args)
	}
}
