package browser

import (
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/pomkit/pomkit/pkg/config"
	"github.com/pomkit/pomkit/pkg/logging"
)

// EventSink receives human-readable lifecycle messages, typically the run report.
// Errors returned by the sink are ignored.
type EventSink interface {
	LogInfo(message string) error
}

// Manager is the single authority over the Playwright driver and the launched
// browser for a process. Start and Stop are mutually exclusive; NewContext and
// NewPage may be called concurrently while the manager is running.
type Manager struct {
	mu sync.RWMutex

	driverFactory DriverFactory
	probeOverride ScreenProbe
	log           *logging.Logger
	events        EventSink
	lastSource    config.Source

	state    State
	driver   Driver
	browser  playwright.Browser
	engine   Engine
	launch   LaunchConfig
	maximize bool
	kind     ViewportKind
	timeout  float64
	probe    ScreenProbe

	// screen caches the probed size for ViewportScreenSize while running.
	screenMu sync.Mutex
	screen   *Size
}

// Option configures a Manager.
type Option func(*Manager)

// WithDriverFactory replaces the Playwright driver, mostly for tests.
func WithDriverFactory(f DriverFactory) Option {
	return func(m *Manager) {
		m.driverFactory = f
	}
}

// WithScreenProbe overrides screen detection for screen-sized viewports.
func WithScreenProbe(p ScreenProbe) Option {
	return func(m *Manager) {
		m.probeOverride = p
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) {
		m.log = l
	}
}

// WithEventSink mirrors lifecycle messages to a report.
func WithEventSink(s EventSink) Option {
	return func(m *Manager) {
		m.events = s
	}
}

// WithDefaultSource sets the configuration ActiveBrowser falls back to when
// Start was never called.
func WithDefaultSource(src config.Source) Option {
	return func(m *Manager) {
		m.lastSource = src
	}
}

// NewManager creates a manager in the Uninitialized state.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		driverFactory: PlaywrightDriverFactory(DriverOptions{}),
		log:           logging.Nop(),
		state:         StateUninitialized,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start resolves the configured browser, launches it and keeps the handles
// for the process. Calling Start while running is a no-op. An unknown browser
// name fails with ErrUnsupportedBrowser before any process is spawned.
func (m *Manager) Start(src config.Source) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startLocked(src)
}

func (m *Manager) startLocked(src config.Source) error {
	if m.state == StateRunning {
		return nil
	}
	if src == nil {
		src = m.lastSource
	}
	if src == nil {
		return ErrNoConfig
	}
	m.lastSource = src

	name := src.Get(config.KeyBrowser)
	engine, err := ParseEngine(name)
	if err != nil {
		m.log.Errorf("Refusing to launch: %v", err)
		return err
	}

	headless := src.GetBool(config.KeyHeadless)
	maximize := src.GetBool(config.KeyMaximizeWindow)
	launch := BuildLaunchConfig(engine, headless, maximize)

	previous := m.state
	m.state = StateStarting

	m.logEvent(fmt.Sprintf("Launching browser: %s | Headless: %t | Maximize: %t", engine, headless, maximize),
		"browser", engine.String(), "headless", headless, "maximize", maximize, "launch", launch.String())

	driver, err := m.driverFactory()
	if err != nil {
		m.state = previous
		return err
	}

	browser, err := driver.Launch(engine, launch.Options())
	if err != nil {
		_ = driver.Stop() // Ignore errors, the launch error matters more
		m.state = previous
		return fmt.Errorf("failed to launch %s: %w", engine, err)
	}

	m.driver = driver
	m.browser = browser
	m.engine = engine
	m.launch = launch
	m.maximize = maximize
	m.kind = ViewportKindFor(engine, maximize)
	m.timeout = float64(src.GetInt(config.KeyTimeoutMs, 0))
	m.probe = m.probeOverride
	if m.probe == nil {
		m.probe = DefaultScreenProbe(src.GetInt(config.KeyScreenWidth, 0), src.GetInt(config.KeyScreenHeight, 0))
	}
	m.state = StateRunning
	return nil
}

// ActiveBrowser returns the launched browser. If the manager is not running
// it starts once with the last supplied (or default) configuration; this is a
// compatibility shim for suites that never call Start explicitly.
func (m *Manager) ActiveBrowser() (playwright.Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateRunning {
		if err := m.startLocked(nil); err != nil {
			return nil, err
		}
	}
	return m.browser, nil
}

// NewContext creates an isolated browser context sized by the viewport policy.
// Errors from Playwright are returned as-is.
func (m *Manager) NewContext() (playwright.BrowserContext, error) {
	return m.NewContextFor(nil)
}

// NewContextFor is NewContext with the viewport message sent to sink instead
// of the manager's event sink, so concurrent tests each get their own. A nil
// sink falls back to the manager's.
func (m *Manager) NewContextFor(sink EventSink) (playwright.BrowserContext, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if sink == nil {
		sink = m.events
	}

	if m.state != StateRunning {
		return nil, ErrNotRunning
	}

	policy, err := m.viewportPolicy()
	if err != nil {
		return nil, err
	}

	switch policy.Kind {
	case ViewportScreenSize:
		m.logEventTo(sink, fmt.Sprintf("Viewport set to screen size: %s", policy.Size), "viewport", policy.Size.String())
	case ViewportNativeMaximize:
		m.logEventTo(sink, "Chromium-based browser, viewport disabled for native maximize.", "viewport", "none")
	default:
		m.logEventTo(sink, "Using default viewport (not maximized).", "viewport", "default")
	}

	ctx, err := m.browser.NewContext(policy.ContextOptions())
	if err != nil {
		return nil, err
	}
	if m.timeout > 0 {
		ctx.SetDefaultTimeout(m.timeout)
	}
	return ctx, nil
}

// NewPage creates a fresh context with a single page in it. The caller owns
// both; closing page.Context() releases them.
func (m *Manager) NewPage() (playwright.Page, error) {
	return m.NewPageFor(nil)
}

// NewPageFor is NewPage with context events sent to sink, see NewContextFor.
func (m *Manager) NewPageFor(sink EventSink) (playwright.Page, error) {
	ctx, err := m.NewContextFor(sink)
	if err != nil {
		return nil, err
	}

	page, err := ctx.NewPage()
	if err != nil {
		_ = ctx.Close() // Ignore errors, continue cleanup
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return page, nil
}

// viewportPolicy must be called with at least the read lock held.
func (m *Manager) viewportPolicy() (ViewportPolicy, error) {
	policy := ViewportPolicy{Kind: m.kind}
	if m.kind != ViewportScreenSize {
		return policy, nil
	}

	m.screenMu.Lock()
	defer m.screenMu.Unlock()

	if m.screen == nil {
		size, err := m.probe.ScreenSize(m.browser)
		if err != nil {
			return policy, fmt.Errorf("failed to detect screen size: %w", err)
		}
		m.screen = &size
	}
	policy.Size = *m.screen
	return policy, nil
}

// Stop closes the browser and then the driver. It is safe to call at any
// time, including when nothing was started. Browser close errors are ignored.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	wasRunning := m.browser != nil || m.driver != nil

	if m.browser != nil {
		_ = m.browser.Close() // Ignore errors, the browser may already be gone
		m.browser = nil
	}

	var err error
	if m.driver != nil {
		if stopErr := m.driver.Stop(); stopErr != nil {
			err = fmt.Errorf("failed to stop playwright: %w", stopErr)
		}
		m.driver = nil
	}

	m.screenMu.Lock()
	m.screen = nil
	m.screenMu.Unlock()

	if wasRunning {
		m.state = StateStopped
		m.logEvent("Browser and Playwright stopped.")
	}
	return err
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Engine returns the engine selected by the last successful Start.
func (m *Manager) Engine() Engine {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.engine
}

// LaunchConfig returns the launch configuration of the last successful Start.
func (m *Manager) LaunchConfig() LaunchConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.launch
}

// SetEventSink replaces the lifecycle event sink.
func (m *Manager) SetEventSink(s EventSink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = s
}

// logEvent writes a structured log entry and mirrors the message to the
// event sink. Sink failures never affect the lifecycle.
func (m *Manager) logEvent(msg string, keysAndValues ...interface{}) {
	m.logEventTo(m.events, msg, keysAndValues...)
}

func (m *Manager) logEventTo(sink EventSink, msg string, keysAndValues ...interface{}) {
	m.log.Infow(msg, keysAndValues...)
	if sink != nil {
		_ = sink.LogInfo(msg)
	}
}

// Maximize reports whether the running browser was started with maximize.window.
func (m *Manager) Maximize() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.maximize
}

// ViewportKind returns the viewport rule new contexts are created with.
func (m *Manager) ViewportKind() ViewportKind {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.kind
}
