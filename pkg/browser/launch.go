package browser

import (
	"strings"

	"github.com/playwright-community/playwright-go"
)

// LaunchConfig is the browser launch configuration derived from the
// selected engine and the headless/maximize flags.
type LaunchConfig struct {
	Headless bool
	Channel  string
	Args     []string
}

// BuildLaunchConfig derives launch options deterministically.
//
// Only the literal "chrome" selection receives --start-maximized; msedge and
// chromium do not, even with maximize requested. That matches the behaviour
// suites were written against and is kept until someone confirms otherwise.
func BuildLaunchConfig(engine Engine, headless, maximize bool) LaunchConfig {
	cfg := LaunchConfig{
		Headless: headless,
		Channel:  engine.Channel(),
	}
	if maximize && engine == EngineChrome {
		cfg.Args = []string{StartMaximizedArg}
	}
	return cfg
}

// Options converts the config into Playwright launch options.
func (c LaunchConfig) Options() playwright.BrowserTypeLaunchOptions {
	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(c.Headless),
	}
	if c.Channel != "" {
		opts.Channel = playwright.String(c.Channel)
	}
	if len(c.Args) > 0 {
		opts.Args = append([]string(nil), c.Args...)
	}
	return opts
}

// HasArg reports whether arg is part of the launch arguments.
func (c LaunchConfig) HasArg(arg string) bool {
	for _, a := range c.Args {
		if a == arg {
			return true
		}
	}
	return false
}

func (c LaunchConfig) String() string {
	var b strings.Builder
	b.WriteString("headless=")
	if c.Headless {
		b.WriteString("true")
	} else {
		b.WriteString("false")
	}
	if c.Channel != "" {
		b.WriteString(" channel=")
		b.WriteString(c.Channel)
	}
	if len(c.Args) > 0 {
		b.WriteString(" args=")
		b.WriteString(strings.Join(c.Args, ","))
	}
	return b.String()
}
