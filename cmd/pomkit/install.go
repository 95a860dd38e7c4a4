package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pomkit/pomkit/pkg/browser"
)

func newInstallCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "install [browser...]",
		Short: "Install the Playwright driver and browsers",
		Long: "Install downloads the Playwright driver and the given browsers " +
			"(chromium, firefox, webkit, chrome, msedge). Without arguments every default browser is installed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.installer(browser.DriverOptions{
				Browsers: args,
				Verbose:  true,
				Stdout:   cmd.OutOrStdout(),
				Stderr:   cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Playwright is ready.")
			return nil
		},
	}
}
