package pwaforge

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pwa-forge/pwa-forge/pkg/commands/userscript"
	"github.com/pwa-forge/pwa-forge/pkg/style"
)

func newUserscriptCmd(flags *rootFlags) *cobra.Command {
	opts := userscript.Options{}

	cmd := &cobra.Command{
		Use:   "userscript <id>",
		Short: MsgUserscriptShort,
		Example: `  # Generate the userscript for an app
  pwa-forge userscript mail

  # Write it somewhere specific
  pwa-forge userscript mail --output ~/scripts/mail.user.js

  # Preview the script without writing it
  pwa-forge userscript mail --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			opts.AppID = args[0]
			opts.DryRun = flags.dryRun

			result, err := userscript.Generate(rt, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.DryRun {
				fmt.Fprint(out, result.Content)
				fmt.Fprintln(out, MsgDryRunNotice)
				return nil
			}
			fmt.Fprintf(out, "Userscript written to %s\n", style.PathStyle.Render(result.Path))
			fmt.Fprintln(out, "Install it in your browser's userscript manager (Violentmonkey, Tampermonkey).")
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Output, "output", "", MsgFlagOutput)
	cmd.Flags().StringVar(&opts.Scheme, "scheme", "", MsgFlagScheme)

	return cmd
}
