package pwaforge

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pwa-forge/pwa-forge/pkg/commands/list"
	"github.com/pwa-forge/pwa-forge/pkg/style"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: MsgListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}

			result, err := list.List(rt)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(result.Apps) == 0 {
				fmt.Fprintln(out, MsgNoApps)
				return nil
			}

			fmt.Fprintf(out, "%-20s %-10s %-10s %s\n",
				style.Bold("ID"), style.Bold("STATE"), style.Bold("BROWSER"), style.Bold("URL"))
			for _, app := range result.Apps {
				fmt.Fprintf(out, "%-20s %-10s %-10s %s\n",
					app.ID, stateLabel(app.State), app.Browser, app.URL)
			}
			return nil
		},
	}
}

func stateLabel(state list.SyncState) string {
	switch state {
	case list.StateSynced:
		return style.SuccessStyle.Render(string(state))
	case list.StatePending:
		return style.WarningStyle.Render(string(state))
	default:
		return style.ErrorStyle.Render(string(state))
	}
}
