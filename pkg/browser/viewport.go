package browser

import (
	"github.com/playwright-community/playwright-go"
)

// ViewportKind selects how a new context sizes its viewport.
type ViewportKind int

const (
	// ViewportFixedDefault leaves the engine's default viewport in place.
	ViewportFixedDefault ViewportKind = iota

	// ViewportScreenSize sets an explicit viewport equal to the screen resolution.
	ViewportScreenSize

	// ViewportNativeMaximize disables the emulated viewport so the maximized
	// window (see StartMaximizedArg) defines the content area.
	ViewportNativeMaximize
)

func (k ViewportKind) String() string {
	switch k {
	case ViewportScreenSize:
		return "screen-size"
	case ViewportNativeMaximize:
		return "native-maximize"
	default:
		return "fixed-default"
	}
}

// ViewportPolicy is the resolved viewport rule for new contexts.
// Size is only meaningful for ViewportScreenSize.
type ViewportPolicy struct {
	Kind ViewportKind
	Size Size
}

// ViewportKindFor picks the viewport rule for an engine.
// Chrome and Edge rely on the window manager; every other engine, plain
// Chromium included, gets an explicit screen-sized viewport.
func ViewportKindFor(engine Engine, maximize bool) ViewportKind {
	if !maximize {
		return ViewportFixedDefault
	}
	switch engine {
	case EngineChrome, EngineMSEdge:
		return ViewportNativeMaximize
	default:
		return ViewportScreenSize
	}
}

// ContextOptions converts the policy into Playwright context options.
func (p ViewportPolicy) ContextOptions() playwright.BrowserNewContextOptions {
	var opts playwright.BrowserNewContextOptions
	switch p.Kind {
	case ViewportScreenSize:
		opts.Viewport = &playwright.Size{
			Width:  p.Size.Width,
			Height: p.Size.Height,
		}
	case ViewportNativeMaximize:
		opts.NoViewport = playwright.Bool(true)
	}
	return opts
}
