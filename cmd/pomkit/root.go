package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pomkit/pomkit/pkg/browser"
	"github.com/pomkit/pomkit/pkg/config"
	"github.com/pomkit/pomkit/pkg/logging"
)

// app carries the global flags and the seams tests replace.
type app struct {
	configPath  string
	browserName string
	headless    bool
	install     bool
	verbose     bool

	driverFactory browser.DriverFactory
	installer     func(browser.DriverOptions) error
}

func newApp() *app {
	return &app{installer: browser.Install}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "pomkit",
		Short:        "Page object test scaffold for Playwright",
		Version:      version,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "properties file (default $POM_CONFIG or "+config.DefaultPath+")")
	flags.StringVar(&a.browserName, "browser", "", "override the browser key (chrome, msedge, chromium, firefox, webkit)")
	flags.BoolVar(&a.headless, "headless", false, "override the headless key")
	flags.BoolVar(&a.install, "install", false, "install the Playwright driver and browsers before launching")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "mirror log output to stderr")

	root.AddCommand(
		newLaunchConfigCommand(a),
		newInstallCommand(a),
		newLoginCommand(a),
	)
	return root
}

// loadConfig reads the properties file and applies flag overrides.
func (a *app) loadConfig(cmd *cobra.Command) (*config.PropertiesStore, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	if a.browserName != "" {
		cfg.Set(config.KeyBrowser, a.browserName)
	}
	if cmd.Flags().Changed("headless") {
		cfg.Set(config.KeyHeadless, fmt.Sprint(a.headless))
	}
	return cfg, nil
}

// newLogger opens the run log. A log directory that cannot be created is
// reported on stderr and logging continues there.
func (a *app) newLogger(cmd *cobra.Command, cfg config.Source) *logging.Logger {
	log, err := logging.NewLogger("pomkit", logging.Options{
		Dir:     cfg.Get(config.KeyLogDir),
		Level:   cfg.Get(config.KeyLogLevel),
		Console: a.verbose,
	})
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	return log
}

func (a *app) managerOptions() []browser.Option {
	if a.driverFactory != nil {
		return []browser.Option{browser.WithDriverFactory(a.driverFactory)}
	}
	if a.install {
		return []browser.Option{browser.WithDriverFactory(browser.PlaywrightDriverFactory(browser.DriverOptions{Install: true}))}
	}
	return nil
}
