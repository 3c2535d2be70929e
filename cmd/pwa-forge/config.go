package pwaforge

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pwa-forge/pwa-forge/pkg/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
		Example: `  # Show the effective configuration
  pwa-forge config list

  # Read one value
  pwa-forge config get default_browser

  # Change a value
  pwa-forge config set default_browser firefox`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show every effective configuration value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			for _, line := range config.List(rt.Config) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Read one configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			value, err := config.Get(rt.Config, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Write one configuration value",
		Long: "Set writes a value into the user configuration file.\n\nSettable keys:\n  " +
			strings.Join(config.SettableKeys(), "\n  "),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			if err := config.Set(rt.Paths, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
			return nil
		},
	})

	return cmd
}
