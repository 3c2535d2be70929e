package pwaforge

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pwa-forge/pwa-forge/pkg/commands/handler"
	"github.com/pwa-forge/pwa-forge/pkg/style"
)

func newHandlerCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "handler",
		Short: MsgHandlerShort,
		Long:  MsgHandlerLong,
		Example: `  # Install the default scheme handler
  pwa-forge handler install

  # Install a handler for a custom scheme in firefox
  pwa-forge handler install myscheme --browser firefox

  # Decode and open a rewritten link directly
  pwa-forge handler open "ff://https%3A%2F%2Fexample.com%2F"`,
	}

	cmd.AddCommand(newHandlerInstallCmd(flags))
	cmd.AddCommand(newHandlerRemoveCmd(flags))
	cmd.AddCommand(newHandlerListCmd())
	cmd.AddCommand(newHandlerOpenCmd())

	return cmd
}

func newHandlerInstallCmd(flags *rootFlags) *cobra.Command {
	opts := handler.InstallOptions{}

	cmd := &cobra.Command{
		Use:   "install [scheme]",
		Short: "Install a URL scheme handler",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				opts.Scheme = args[0]
			} else {
				opts.Scheme = rt.Config.ExternalLinkScheme
			}
			opts.DryRun = flags.dryRun

			result, err := handler.Install(cmd.Context(), rt, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Installed handler for %s:// (opens in %s)\n",
				style.Bold(result.Entry.Scheme), result.Entry.Browser)
			printArtifacts(out, result.Artifacts)
			if result.DryRun {
				fmt.Fprintln(out, MsgDryRunNotice)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Browser, "browser", "", MsgFlagBrowser)
	cmd.Flags().BoolVar(&opts.Force, "force", false, MsgFlagForce)

	return cmd
}

func newHandlerRemoveCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <scheme>",
		Short: "Remove a URL scheme handler",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}

			opts := handler.RemoveOptions{Scheme: args[0], DryRun: flags.dryRun}
			if err := handler.Remove(cmd.Context(), rt, opts); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Removed handler for %s://\n", style.Bold(args[0]))
			if flags.dryRun {
				fmt.Fprintln(out, MsgDryRunNotice)
			}
			return nil
		},
	}
}

func newHandlerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: MsgFlagListHandlers,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}

			handlers, err := handler.List(rt)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(handlers) == 0 {
				fmt.Fprintln(out, MsgNoHandlers)
				return nil
			}
			for _, h := range handlers {
				fmt.Fprintf(out, "%s://  %s  %s\n",
					style.Bold(h.Scheme), h.Browser, style.PathStyle.Render(h.Script))
			}
			return nil
		},
	}
}

func newHandlerOpenCmd() *cobra.Command {
	opts := handler.OpenOptions{}

	cmd := &cobra.Command{
		Use:   "open <url>",
		Short: "Decode a rewritten link and open it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			opts.Raw = args[0]
			if opts.Scheme == "" {
				opts.Scheme = rt.Config.ExternalLinkScheme
			}

			target, err := handler.Open(cmd.Context(), rt, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opened %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Scheme, "scheme", "", MsgFlagScheme)
	cmd.Flags().StringVar(&opts.Browser, "browser", "", MsgFlagHandlerOpen)

	return cmd
}
