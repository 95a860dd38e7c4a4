package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// ScreenProbe reports the primary screen resolution used for screen-sized viewports.
type ScreenProbe interface {
	ScreenSize(b playwright.Browser) (Size, error)
}

// StaticScreen always reports the same size.
type StaticScreen Size

// ScreenSize returns the fixed size.
func (s StaticScreen) ScreenSize(playwright.Browser) (Size, error) {
	return Size(s), nil
}

// WindowScreenProbe asks the launched browser for window.screen in a
// throwaway context. In headed mode this is the OS screen resolution.
type WindowScreenProbe struct{}

const screenScript = `() => ({ width: window.screen.width, height: window.screen.height })`

// ScreenSize opens a scratch context, evaluates window.screen and closes it again.
func (WindowScreenProbe) ScreenSize(b playwright.Browser) (Size, error) {
	if b == nil {
		return Size{}, ErrNotRunning
	}

	ctx, err := b.NewContext(playwright.BrowserNewContextOptions{NoViewport: playwright.Bool(true)})
	if err != nil {
		return Size{}, fmt.Errorf("failed to create probe context: %w", err)
	}
	defer ctx.Close()

	page, err := ctx.NewPage()
	if err != nil {
		return Size{}, fmt.Errorf("failed to create probe page: %w", err)
	}

	result, err := page.Evaluate(screenScript)
	if err != nil {
		return Size{}, fmt.Errorf("failed to read window.screen: %w", err)
	}
	return parseScreenResult(result)
}

func parseScreenResult(result interface{}) (Size, error) {
	fields, ok := result.(map[string]interface{})
	if !ok {
		return Size{}, fmt.Errorf("unexpected window.screen result %T", result)
	}
	width, okW := toInt(fields["width"])
	height, okH := toInt(fields["height"])
	if !okW || !okH || width <= 0 || height <= 0 {
		return Size{}, fmt.Errorf("invalid window.screen result %v", fields)
	}
	return Size{Width: width, Height: height}, nil
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// FallbackScreen tries each probe in order and returns the first success,
// or Default when all of them fail.
type FallbackScreen struct {
	Probes  []ScreenProbe
	Default Size
}

// ScreenSize walks the probes. It never returns an error when Default is set.
func (f FallbackScreen) ScreenSize(b playwright.Browser) (Size, error) {
	var lastErr error
	for _, p := range f.Probes {
		size, err := p.ScreenSize(b)
		if err == nil {
			return size, nil
		}
		lastErr = err
	}
	if f.Default.Width > 0 && f.Default.Height > 0 {
		return f.Default, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no screen probes configured")
	}
	return Size{}, lastErr
}

// DefaultScreenProbe prefers a configured size, then window.screen, then 1920x1080.
func DefaultScreenProbe(width, height int) ScreenProbe {
	var probes []ScreenProbe
	if width > 0 && height > 0 {
		probes = append(probes, StaticScreen{Width: width, Height: height})
	}
	probes = append(probes, WindowScreenProbe{})
	return FallbackScreen{
		Probes:  probes,
		Default: Size{Width: DefaultScreenWidth, Height: DefaultScreenHeight},
	}
}
