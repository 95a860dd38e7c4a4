package browser

import (
	"errors"
	"fmt"
	"strings"
)

// Engine is the browser selected by the "browser" configuration key.
// It is resolved once at Start and never re-matched on strings afterwards.
type Engine int

const (
	// EngineChrome is branded Google Chrome driven through the Chromium engine.
	EngineChrome Engine = iota + 1

	// EngineMSEdge is Microsoft Edge driven through the Chromium engine.
	EngineMSEdge

	// EngineChromium is the Chromium build bundled with Playwright.
	EngineChromium

	// EngineFirefox is Playwright's patched Firefox.
	EngineFirefox

	// EngineWebKit is Playwright's WebKit build.
	EngineWebKit
)

// Family is the underlying automation engine an Engine runs on.
type Family int

const (
	FamilyChromium Family = iota + 1
	FamilyFirefox
	FamilyWebKit
)

// ErrUnsupportedBrowser is matched by every UnsupportedBrowserError.
var ErrUnsupportedBrowser = errors.New("unsupported browser")

// ErrNotRunning is returned when a context is requested before Start.
var ErrNotRunning = errors.New("browser not started")

// ErrNoConfig is returned when the manager must start but was never given a
// configuration.
var ErrNoConfig = errors.New("no configuration to start the browser from")

// UnsupportedBrowserError reports a browser name outside the recognized set.
type UnsupportedBrowserError struct {
	Name string
}

func (e *UnsupportedBrowserError) Error() string {
	return fmt.Sprintf("unsupported browser: %q (expected one of chrome, msedge, chromium, firefox, webkit)", e.Name)
}

// Is lets errors.Is match ErrUnsupportedBrowser.
func (e *UnsupportedBrowserError) Is(target error) bool {
	return target == ErrUnsupportedBrowser
}

var engineNames = map[string]Engine{
	"chrome":   EngineChrome,
	"msedge":   EngineMSEdge,
	"chromium": EngineChromium,
	"firefox":  EngineFirefox,
	"webkit":   EngineWebKit,
}

// ParseEngine resolves a configured browser name. Matching is exact after
// trimming surrounding whitespace and lowercasing.
func ParseEngine(name string) (Engine, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	engine, ok := engineNames[normalized]
	if !ok {
		return 0, &UnsupportedBrowserError{Name: name}
	}
	return engine, nil
}

// String returns the configuration name of the engine.
func (e Engine) String() string {
	switch e {
	case EngineChrome:
		return "chrome"
	case EngineMSEdge:
		return "msedge"
	case EngineChromium:
		return "chromium"
	case EngineFirefox:
		return "firefox"
	case EngineWebKit:
		return "webkit"
	default:
		return fmt.Sprintf("engine(%d)", int(e))
	}
}

// Family returns the automation engine family.
func (e Engine) Family() Family {
	switch e {
	case EngineFirefox:
		return FamilyFirefox
	case EngineWebKit:
		return FamilyWebKit
	default:
		return FamilyChromium
	}
}

// Channel returns the Chromium distribution channel, or "" for the engine default.
func (e Engine) Channel() string {
	switch e {
	case EngineChrome:
		return "chrome"
	case EngineMSEdge:
		return "msedge"
	default:
		return ""
	}
}

// String returns the Playwright name of the family.
func (f Family) String() string {
	switch f {
	case FamilyChromium:
		return "chromium"
	case FamilyFirefox:
		return "firefox"
	case FamilyWebKit:
		return "webkit"
	default:
		return fmt.Sprintf("family(%d)", int(f))
	}
}

// State is the lifecycle state of a Manager.
type State int

const (
	StateUninitialized State = iota
	StateStarting
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Size is a width/height pair in CSS pixels.
type Size struct {
	Width  int
	Height int
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Default values
const (
	DefaultScreenWidth  = 1920
	DefaultScreenHeight = 1080

	// StartMaximizedArg asks Chromium to open its window maximized.
	StartMaximizedArg = "--start-maximized"
)
