package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pomkit/pomkit/pkg/browser"
	"github.com/pomkit/pomkit/pkg/config"
)

func newLaunchConfigCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "launch-config",
		Short: "Print the resolved browser, launch options and viewport policy without launching",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}

			engine, err := browser.ParseEngine(cfg.Get(config.KeyBrowser))
			if err != nil {
				return err
			}
			headless := cfg.GetBool(config.KeyHeadless)
			maximize := cfg.GetBool(config.KeyMaximizeWindow)
			launch := browser.BuildLaunchConfig(engine, headless, maximize)
			kind := browser.ViewportKindFor(engine, maximize)

			channel := engine.Channel()
			if channel == "" {
				channel = "(bundled)"
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "config:\t%s\n", cfg.Path())
			fmt.Fprintf(w, "browser:\t%s\n", engine)
			fmt.Fprintf(w, "family:\t%s\n", engine.Family())
			fmt.Fprintf(w, "channel:\t%s\n", channel)
			fmt.Fprintf(w, "headless:\t%t\n", headless)
			fmt.Fprintf(w, "maximize:\t%t\n", maximize)
			fmt.Fprintf(w, "launch:\t%s\n", launch)
			fmt.Fprintf(w, "viewport:\t%s\n", kind)
			if kind == browser.ViewportScreenSize {
				fmt.Fprintf(w, "screen:\t%s\n", configuredScreen(cfg))
			}
			fmt.Fprintf(w, "report:\t%s\n", cfg.ReportDir())
			return w.Flush()
		},
	}
}

// configuredScreen describes where the screen size will come from.
func configuredScreen(cfg config.Source) string {
	width := cfg.GetInt(config.KeyScreenWidth, 0)
	height := cfg.GetInt(config.KeyScreenHeight, 0)
	if width > 0 && height > 0 {
		return browser.Size{Width: width, Height: height}.String()
	}
	return fmt.Sprintf("probed at launch (fallback %s)", browser.Size{
		Width:  browser.DefaultScreenWidth,
		Height: browser.DefaultScreenHeight,
	})
}
