package pwaforge

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pwa-forge/pwa-forge/pkg/commands/edit"
)

func newEditCmd() *cobra.Command {
	opts := edit.Options{}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: MsgEditShort,
		Long:  MsgEditLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			opts.AppID = args[0]

			out := cmd.OutOrStdout()
			result, err := edit.Edit(cmd.Context(), rt, opts)
			if result != nil && result.RolledBack {
				fmt.Fprintln(out, MsgEditRollback)
				return err
			}
			if err != nil {
				return err
			}

			if !result.Changed {
				fmt.Fprintln(out, MsgEditNoChange)
				return nil
			}
			fmt.Fprintf(out, "Updated %s\n", result.ID)
			if result.Sync != nil {
				printSyncResult(out, result.Sync)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.NoSync, "no-sync", false, MsgFlagEditNoSync)

	return cmd
}
