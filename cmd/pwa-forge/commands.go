// Package pwaforge assembles the command line interface. Commands stay
// thin: flag parsing and output rendering live here, behavior lives in
// pkg/commands.
package pwaforge

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pwa-forge/pwa-forge/internal/version"
	"github.com/pwa-forge/pwa-forge/pkg/commands/runtime"
	"github.com/pwa-forge/pwa-forge/pkg/logging"
)

// flags shared across subcommands via the root
type rootFlags struct {
	verbosity int
	dryRun    bool
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:     "pwa-forge",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(flags.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&flags.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&flags.dryRun, "dry-run", false, MsgFlagDryRun)

	rootCmd.AddCommand(newAddCmd(flags))
	rootCmd.AddCommand(newRemoveCmd(flags))
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newSyncCmd(flags))
	rootCmd.AddCommand(newAuditCmd())
	rootCmd.AddCommand(newEditCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHandlerCmd(flags))
	rootCmd.AddCommand(newUserscriptCmd(flags))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// newRuntime builds the production dependency bundle for a command
func newRuntime() (*runtime.Runtime, error) {
	return runtime.New()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pwa-forge version %s\n", version.Version)
			fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			fmt.Fprintf(out, "  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
		},
	}
}
