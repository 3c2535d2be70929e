package main

import (
	"fmt"
	"os"

	pwaforge "github.com/pwa-forge/pwa-forge/cmd/pwa-forge"
	"github.com/pwa-forge/pwa-forge/pkg/errors"
	"github.com/pwa-forge/pwa-forge/pkg/style"
)

func main() {
	rootCmd := pwaforge.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, style.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))

		// User mistakes exit 2, everything else exits 1.
		if errors.IsUserError(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
