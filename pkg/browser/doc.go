// Package browser owns the Playwright driver and browser lifetime for a test process.
//
// A single Manager holds one driver and at most one launched browser. Test code asks
// it for fresh, isolated contexts (or pages) and closes them when a test ends.
//
// # Browser selection
//
// The "browser" configuration key selects the engine:
//
//   - chrome: Chromium engine, channel "chrome"
//   - msedge: Chromium engine, channel "msedge"
//   - chromium: bundled Chromium, no channel
//   - firefox, webkit: the matching Playwright engines
//
// Names are trimmed and matched case-insensitively. Anything else fails Start with
// ErrUnsupportedBrowser before a driver process is spawned.
//
// # Maximize
//
// With maximize.window=true the behaviour depends on the engine:
//
//   - chrome launches with --start-maximized and contexts disable the emulated
//     viewport so the real window size applies
//   - msedge also disables the viewport but is launched without --start-maximized
//   - chromium, firefox and webkit get an explicit viewport equal to the screen size
//
// # Lifecycle
//
//	m := browser.NewManager(browser.WithLogger(log))
//	if err := m.Start(cfg); err != nil {
//	    return err
//	}
//	defer m.Stop()
//
//	page, err := m.NewPage()
//	if err != nil {
//	    return err
//	}
//	defer page.Context().Close()
//
// Start and Stop are idempotent and serialised. NewContext and NewPage may be called
// from several goroutines once the manager is running.
package browser
