package pwaforge

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pwa-forge/pwa-forge/pkg/commands/add"
	"github.com/pwa-forge/pwa-forge/pkg/style"
)

func newAddCmd(flags *rootFlags) *cobra.Command {
	opts := add.Options{}

	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: MsgAddShort,
		Long:  MsgAddLong,
		Example: `  # Add an app; name, id and window class come from the URL
  pwa-forge add https://mail.example.com

  # Pick the browser and name yourself
  pwa-forge add https://music.example.com --name Music --browser firefox

  # Write the manifest only, sync later
  pwa-forge add https://chat.example.com --no-sync`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			opts.URL = args[0]
			opts.DryRun = flags.dryRun

			result, err := add.Add(cmd.Context(), rt, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added %s (%s)\n", style.Bold(result.Manifest.ID), result.Manifest.URL)
			fmt.Fprintf(out, "  manifest: %s\n",
				style.PathStyle.Render(rt.Paths.ManifestPath(result.Manifest.ID)))
			if result.Sync != nil {
				printSyncResult(out, result.Sync)
			} else if result.DryRun {
				fmt.Fprintln(out, MsgDryRunNotice)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", MsgFlagName)
	cmd.Flags().StringVar(&opts.ID, "id", "", MsgFlagID)
	cmd.Flags().StringVar(&opts.Browser, "browser", "", MsgFlagBrowser)
	cmd.Flags().StringVar(&opts.Profile, "profile", "", MsgFlagProfile)
	cmd.Flags().StringVar(&opts.Icon, "icon", "", MsgFlagIcon)
	cmd.Flags().StringVar(&opts.Comment, "comment", "", MsgFlagComment)
	cmd.Flags().StringVar(&opts.WMClass, "wm-class", "", MsgFlagWMClass)
	cmd.Flags().StringSliceVar(&opts.Categories, "categories", nil, MsgFlagCategories)
	cmd.Flags().BoolVar(&opts.Inject, "inject", false, MsgFlagInject)
	cmd.Flags().BoolVar(&opts.NoSync, "no-sync", false, MsgFlagNoSync)

	return cmd
}
