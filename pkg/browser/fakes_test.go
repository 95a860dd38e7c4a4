package browser

import (
	"errors"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// callLog records the order of lifecycle calls across fakes.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakePage struct {
	playwright.Page
	ctx *fakeContext
}

func (p *fakePage) Context() playwright.BrowserContext {
	return p.ctx
}

type fakeContext struct {
	playwright.BrowserContext

	id         int
	opts       playwright.BrowserNewContextOptions
	newPageErr error

	mu      sync.Mutex
	closed  bool
	timeout float64
}

func (c *fakeContext) NewPage() (playwright.Page, error) {
	if c.newPageErr != nil {
		return nil, c.newPageErr
	}
	return &fakePage{ctx: c}, nil
}

func (c *fakeContext) Close(options ...playwright.BrowserContextCloseOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeContext) SetDefaultTimeout(timeout float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = timeout
}

func (c *fakeContext) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type fakeBrowser struct {
	playwright.Browser

	log        *callLog
	newPageErr error
	closeErr   error

	mu       sync.Mutex
	contexts []*fakeContext
	closed   int
}

func (b *fakeBrowser) NewContext(options ...playwright.BrowserNewContextOptions) (playwright.BrowserContext, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ctx := &fakeContext{id: len(b.contexts) + 1, newPageErr: b.newPageErr}
	if len(options) > 0 {
		ctx.opts = options[0]
	}
	b.contexts = append(b.contexts, ctx)
	return ctx, nil
}

func (b *fakeBrowser) Close(options ...playwright.BrowserCloseOptions) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed++
	b.log.add("browser.close")
	return b.closeErr
}

func (b *fakeBrowser) contextCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.contexts)
}

type fakeDriver struct {
	log       *callLog
	launchErr error
	stopErr   error
	browser   *fakeBrowser

	mu      sync.Mutex
	engines []Engine
	opts    []playwright.BrowserTypeLaunchOptions
	stopped int
}

func (d *fakeDriver) Launch(engine Engine, opts playwright.BrowserTypeLaunchOptions) (playwright.Browser, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.engines = append(d.engines, engine)
	d.opts = append(d.opts, opts)
	if d.launchErr != nil {
		return nil, d.launchErr
	}
	if d.browser == nil {
		d.browser = &fakeBrowser{log: d.log}
	}
	return d.browser, nil
}

func (d *fakeDriver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped++
	d.log.add("driver.stop")
	return d.stopErr
}

// fakeFactory hands out a fresh fakeDriver on every call.
type fakeFactory struct {
	log        *callLog
	launchErr  error
	newPageErr error
	startErr   error

	mu      sync.Mutex
	drivers []*fakeDriver
}

func (f *fakeFactory) factory() DriverFactory {
	return func() (Driver, error) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.startErr != nil {
			return nil, f.startErr
		}
		d := &fakeDriver{
			log:       f.log,
			launchErr: f.launchErr,
			browser:   &fakeBrowser{log: f.log, newPageErr: f.newPageErr},
		}
		f.drivers = append(f.drivers, d)
		return d, nil
	}
}

func (f *fakeFactory) started() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.drivers)
}

func (f *fakeFactory) last() *fakeDriver {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.drivers) == 0 {
		return nil
	}
	return f.drivers[len(f.drivers)-1]
}

// countingProbe counts probe calls.
type countingProbe struct {
	size Size
	err  error

	mu    sync.Mutex
	calls int
}

func (p *countingProbe) ScreenSize(playwright.Browser) (Size, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.size, p.err
}

func (p *countingProbe) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// recordingSink captures lifecycle messages.
type recordingSink struct {
	err error

	mu       sync.Mutex
	messages []string
}

func (s *recordingSink) LogInfo(message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, message)
	return s.err
}

func (s *recordingSink) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

var errBoom = errors.New("boom")
