package pwaforge

import (
	"fmt"
	"io"

	"github.com/pwa-forge/pwa-forge/pkg/artifact"
	synccmd "github.com/pwa-forge/pwa-forge/pkg/commands/sync"
	"github.com/pwa-forge/pwa-forge/pkg/style"
)

func actionIndicator(action artifact.Action) string {
	switch action {
	case artifact.ActionCreate, artifact.ActionUpdate, artifact.ActionRemove:
		return style.SuccessIndicator
	case artifact.ActionMissing:
		return style.WarningIndicator
	default:
		return style.SkippedIndicator
	}
}

func printArtifacts(w io.Writer, results []artifact.WriteResult) {
	for _, r := range results {
		fmt.Fprintf(w, "  %s %-9s %s\n",
			actionIndicator(r.Action), r.Action, style.PathStyle.Render(r.Path))
	}
}

func printSyncResult(w io.Writer, res *synccmd.Result) {
	for _, app := range res.Apps {
		fmt.Fprintln(w, style.Bold(app.ID))
		if app.Err != nil {
			fmt.Fprintf(w, "  %s %v\n", style.ErrorIndicator, app.Err)
			continue
		}
		for _, warning := range app.Warnings {
			fmt.Fprintf(w, "  %s %s\n", style.WarningIndicator, warning)
		}
		printArtifacts(w, app.Artifacts)
	}
	if res.DryRun {
		fmt.Fprintln(w, MsgDryRunNotice)
	}
}
