package pwaforge

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pwa-forge/pwa-forge/pkg/commands/audit"
	"github.com/pwa-forge/pwa-forge/pkg/style"
)

func newAuditCmd() *cobra.Command {
	opts := audit.Options{}

	cmd := &cobra.Command{
		Use:   "audit [id]",
		Short: MsgAuditShort,
		Long:  MsgAuditLong,
		Example: `  # Check everything
  pwa-forge audit

  # Check one app
  pwa-forge audit mail

  # Repair whatever is broken
  pwa-forge audit --fix`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				opts.AppID = args[0]
			}

			result, err := audit.Audit(cmd.Context(), rt, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, app := range result.Apps {
				fmt.Fprintln(out, style.Bold(app.ID))
				for _, c := range app.Checks {
					fmt.Fprintln(out, style.RenderCheckLine(c.Status, c.Name, c.Detail))
				}
			}
			for _, h := range result.Handlers {
				fmt.Fprintln(out, style.Bold(h.Scheme+" handler"))
				for _, c := range h.Checks {
					fmt.Fprintln(out, style.RenderCheckLine(c.Status, c.Name, c.Detail))
				}
			}
			for _, orphan := range result.Orphans {
				fmt.Fprintf(out, "%s orphaned registry entry: %s\n", style.WarningIndicator, orphan)
			}
			for _, fix := range result.Fixes {
				fmt.Fprintf(out, "%s fixed: %s\n", style.SuccessIndicator, fix)
			}
			for _, msg := range result.Unfixable {
				fmt.Fprintf(out, "%s %s\n", style.ErrorIndicator, msg)
			}

			if result.Failed() {
				fmt.Fprintln(out, MsgAuditFailed)
				return fmt.Errorf("audit found problems")
			}
			fmt.Fprintln(out, MsgAuditClean)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Fix, "fix", false, MsgFlagFix)

	return cmd
}
