package cmd

import (
	"fmt"
	"io"

	"github.com/mfulz/gns3launch/internal/command"
	"github.com/mfulz/gns3launch/internal/consoleurl"
	"github.com/mfulz/gns3launch/internal/settings"
	"github.com/spf13/cobra"
)

func newCommandsCmd(opts *options) *cobra.Command {
	commandsCmd := &cobra.Command{
		Use:   "commands",
		Short: "Manage the programs started for each protocol",
	}

	commandsCmd.AddCommand(&cobra.Command{
		Use:   "list [scheme]",
		Short: "List preconfigured and custom commands, '*' marks the active one",
		Args:  cobra.MaximumNArgs(1),
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			schemes := consoleurl.Schemes
			if len(args) == 1 {
				scheme, err := parseScheme(args[0])
				if err != nil {
					return err
				}
				schemes = []consoleurl.Scheme{scheme}
			}

			active, err := settings.LoadCommands(rt.store)
			if err != nil {
				return err
			}
			custom, err := settings.LoadCustomCommands(rt.store)
			if err != nil {
				return err
			}
			preconfigured := settings.PreconfiguredCommands()

			out := cmd.OutOrStdout()
			for _, scheme := range schemes {
				listScheme(out, scheme, active.ForScheme(scheme), preconfigured.ForScheme(scheme), custom.ForScheme(scheme))
			}
			return nil
		}),
	})

	commandsCmd.AddCommand(&cobra.Command{
		Use:     "use <scheme> <name>",
		Short:   "Make a preconfigured or custom command active",
		Example: `  gns3launch commands use telnet "Xterm"`,
		Args:    cobra.ExactArgs(2),
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			scheme, err := parseScheme(args[0])
			if err != nil {
				return err
			}
			custom, err := settings.LoadCustomCommands(rt.store)
			if err != nil {
				return err
			}

			name := args[1]
			template, ok := settings.PreconfiguredCommands().ForScheme(scheme)[name]
			if !ok {
				template, ok = custom.ForScheme(scheme)[name]
			}
			if !ok {
				return fmt.Errorf("no %s command named '%s'", scheme.Protocol(), name)
			}

			active, err := settings.LoadCommands(rt.store)
			if err != nil {
				return err
			}
			active.Set(scheme, template)
			if err := settings.SaveCommands(rt.store, active); err != nil {
				return err
			}
			rt.log.Infof("[settings] %s command set to '%s'", scheme.Protocol(), name)
			return nil
		}),
	})

	commandsCmd.AddCommand(&cobra.Command{
		Use:     "add <scheme> <name> <template>",
		Short:   "Save a custom telnet, vnc or spice command",
		Example: `  gns3launch commands add telnet "My terminal" "kitty -T {name} telnet {host} {port}"`,
		Args:    cobra.ExactArgs(3),
		RunE: withRuntime(opts, func(cmd *cobra.Command, rt *runtime, args []string) error {
			scheme, err := parseScheme(args[0])
			if err != nil {
				return err
			}
			name, template := args[1], args[2]
			if _, err := command.Placeholders(template); err != nil {
				return err
			}

			custom, err := settings.LoadCustomCommands(rt.store)
			if err != nil {
				return err
			}
			commands := custom.ForScheme(scheme)
			if commands == nil {
				return fmt.Errorf("custom commands are not supported for %s", scheme.Protocol())
			}
			commands[name] = template
			if err := settings.SaveCustomCommands(rt.store, custom); err != nil {
				return err
			}
			rt.log.Infof("[settings] Custom %s command '%s' saved", scheme.Protocol(), name)
			return nil
		}),
	})

	return commandsCmd
}

func parseScheme(s string) (consoleurl.Scheme, error) {
	scheme, ok := consoleurl.ParseScheme(s)
	if !ok {
		return "", fmt.Errorf("unknown scheme: %s", s)
	}
	return scheme, nil
}

func listScheme(out io.Writer, scheme consoleurl.Scheme, active string, preconfigured, custom map[string]string) {
	fmt.Fprintf(out, "%s:\n", scheme.Protocol())
	found := false
	line := func(kind, name, template string) {
		mark := " "
		if template == active {
			mark = "*"
			found = true
		}
		fmt.Fprintf(out, " %s %-40s %s\n", mark, name, kind)
	}
	for _, name := range settings.SortedNames(preconfigured) {
		line("", name, preconfigured[name])
	}
	for _, name := range settings.SortedNames(custom) {
		line("(custom)", name, custom[name])
	}
	if !found && active != "" {
		fmt.Fprintf(out, " * %s\n", active)
	}
}
