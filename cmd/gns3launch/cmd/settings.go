package cmd

import (
	"fmt"
	"strconv"

	"github.com/mfulz/gns3launch/internal/settings"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const masked = "********"

func newSettingsCmd(opts *options) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change the shared settings file",
	}

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "show [section]",
		Short: "Print the settings as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			blob, err := rt.store.All()
			if err != nil {
				return err
			}
			maskSecrets(blob)

			var out any = blob
			if len(args) == 1 {
				section, ok := blob[args[0]]
				if !ok {
					return fmt.Errorf("unknown settings section: %s", args[0])
				}
				out = section
			}

			data, err := yaml.Marshal(out)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}),
	})

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "set <section> <key> <value>",
		Short: "Store a single settings value",
		Example: `  gns3launch settings set ControllerSettings protocol https
  gns3launch settings set ControllerSettings accept_invalid_ssl_certificates true`,
		Args: cobra.ExactArgs(3),
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			section, key, value := args[0], args[1], args[2]
			if err := rt.store.Save(section, map[string]any{key: parseScalar(value)}); err != nil {
				return err
			}
			rt.log.Infof("[settings] %s.%s updated", section, key)
			return nil
		}),
	})

	return settingsCmd
}

// parseScalar stores "true" and "false" as booleans, anything else as text.
func parseScalar(value string) any {
	switch value {
	case "true", "false":
		b, _ := strconv.ParseBool(value)
		return b
	}
	return value
}

func maskSecrets(blob map[string]any) {
	controller, ok := blob[settings.SectionController].(map[string]any)
	if !ok {
		return
	}
	for _, key := range []string{"password", "token"} {
		if v, ok := controller[key].(string); ok && v != "" {
			controller[key] = masked
		}
	}
}
