package browser

import (
	"fmt"
	"io"

	"github.com/playwright-community/playwright-go"
)

// Driver owns the automation engine process and launches browsers on it.
type Driver interface {
	// Launch starts a browser of the engine's family with the given options.
	Launch(engine Engine, opts playwright.BrowserTypeLaunchOptions) (playwright.Browser, error)

	// Stop shuts the engine process down.
	Stop() error
}

// DriverFactory starts a new Driver. It is called once per Start.
type DriverFactory func() (Driver, error)

// DriverOptions configures the Playwright driver.
type DriverOptions struct {
	// Install downloads the driver and browsers before running.
	Install bool

	// Browsers restricts which browsers Install downloads.
	Browsers []string

	// Verbose lets the installer write progress to Stdout/Stderr.
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

func (o DriverOptions) runOptions() *playwright.RunOptions {
	opts := &playwright.RunOptions{
		Browsers: o.Browsers,
		Verbose:  o.Verbose,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
	if o.Stdout != nil {
		opts.Stdout = o.Stdout
	}
	if o.Stderr != nil {
		opts.Stderr = o.Stderr
	}
	return opts
}

// PlaywrightDriver is the Driver backed by playwright-go.
type PlaywrightDriver struct {
	pw *playwright.Playwright
}

// StartPlaywright installs (optionally) and runs the Playwright driver.
func StartPlaywright(opts DriverOptions) (*PlaywrightDriver, error) {
	runOpts := opts.runOptions()

	if opts.Install {
		if err := playwright.Install(runOpts); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}
	return &PlaywrightDriver{pw: pw}, nil
}

// PlaywrightDriverFactory returns a DriverFactory that calls StartPlaywright.
func PlaywrightDriverFactory(opts DriverOptions) DriverFactory {
	return func() (Driver, error) {
		return StartPlaywright(opts)
	}
}

// Install downloads the Playwright driver and browsers without running them.
func Install(opts DriverOptions) error {
	if err := playwright.Install(opts.runOptions()); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}
	return nil
}

// Launch picks the BrowserType for the engine family and launches it.
func (d *PlaywrightDriver) Launch(engine Engine, opts playwright.BrowserTypeLaunchOptions) (playwright.Browser, error) {
	var bt playwright.BrowserType
	switch engine.Family() {
	case FamilyFirefox:
		bt = d.pw.Firefox
	case FamilyWebKit:
		bt = d.pw.WebKit
	default:
		bt = d.pw.Chromium
	}
	return bt.Launch(opts)
}

// Stop stops the Playwright driver process.
func (d *PlaywrightDriver) Stop() error {
	return d.pw.Stop()
}
