package pwaforge

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pwa-forge/pwa-forge/pkg/commands/remove"
	"github.com/pwa-forge/pwa-forge/pkg/style"
)

func newRemoveCmd(flags *rootFlags) *cobra.Command {
	opts := remove.Options{}

	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: MsgRemoveShort,
		Example: `  # Remove an app, keep its browser profile
  pwa-forge remove mail

  # Remove everything including the profile
  pwa-forge remove mail --purge`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			opts.ID = args[0]
			opts.DryRun = flags.dryRun

			result, err := remove.Remove(cmd.Context(), rt, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Removed %s\n", style.Bold(result.ID))
			printArtifacts(out, result.Removed)
			if result.DryRun {
				fmt.Fprintln(out, MsgDryRunNotice)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.PurgeProfile, "purge", false, MsgFlagPurge)

	return cmd
}
