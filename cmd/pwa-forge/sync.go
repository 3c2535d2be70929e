package pwaforge

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pwa-forge/pwa-forge/pkg/commands/sync"
)

func newSyncCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sync [id]",
		Short: MsgSyncShort,
		Long:  MsgSyncLong,
		Example: `  # Regenerate artifacts for every app
  pwa-forge sync

  # Just one app
  pwa-forge sync mail

  # See what would change
  pwa-forge sync --dry-run`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			opts := sync.Options{DryRun: flags.dryRun}
			if len(args) == 1 {
				opts.AppID = args[0]
			}

			result, err := sync.Sync(cmd.Context(), rt, opts)
			if err != nil {
				return err
			}

			printSyncResult(cmd.OutOrStdout(), result)
			if result.Failed() {
				return fmt.Errorf("sync failed for one or more applications")
			}
			return nil
		},
	}
}
