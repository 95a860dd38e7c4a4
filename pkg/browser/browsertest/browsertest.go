// Package browsertest provides scripted in-memory Playwright objects for tests
// that need a running Manager without a real browser.
//
//	d := browsertest.NewDriver()
//	d.Browser.Setup = func(p *browsertest.Page) {
//	    p.OnClick("#login-button", func(p *browsertest.Page) { p.SetText(".title", "Products") })
//	}
//	m := browser.NewManager(browser.WithDriverFactory(d.Factory()))
package browsertest

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/pomkit/pomkit/pkg/browser"
)

// ErrNoElement is returned for selectors the page has no text for.
var ErrNoElement = errors.New("element not found")

var (
	_ browser.Driver            = (*Driver)(nil)
	_ playwright.Browser        = (*Browser)(nil)
	_ playwright.BrowserContext = (*Context)(nil)
	_ playwright.Page           = (*Page)(nil)
	_ playwright.Locator        = (*Locator)(nil)
)

// Driver is a browser.Driver that always launches the same Browser.
type Driver struct {
	Browser *Browser

	// LaunchErr, when set, fails every Launch.
	LaunchErr error

	mu       sync.Mutex
	launches []playwright.BrowserTypeLaunchOptions
	stops    int
}

// NewDriver returns a driver with a fresh Browser.
func NewDriver() *Driver {
	return &Driver{Browser: &Browser{}}
}

// Factory returns a DriverFactory handing out d.
func (d *Driver) Factory() browser.DriverFactory {
	return func() (browser.Driver, error) {
		return d, nil
	}
}

// Launch implements browser.Driver.
func (d *Driver) Launch(_ browser.Engine, opts playwright.BrowserTypeLaunchOptions) (playwright.Browser, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.launches = append(d.launches, opts)
	if d.LaunchErr != nil {
		return nil, d.LaunchErr
	}
	return d.Browser, nil
}

// Stop implements browser.Driver.
func (d *Driver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stops++
	return nil
}

// Launches returns the options of every Launch call.
func (d *Driver) Launches() []playwright.BrowserTypeLaunchOptions {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]playwright.BrowserTypeLaunchOptions(nil), d.launches...)
}

// Stops counts Stop calls.
func (d *Driver) Stops() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stops
}

// Browser hands out Contexts.
type Browser struct {
	playwright.Browser

	// Setup runs on every new Page before it is returned.
	Setup func(*Page)

	mu       sync.Mutex
	contexts []*Context
	closed   bool
}

// NewContext implements playwright.Browser.
func (b *Browser) NewContext(options ...playwright.BrowserNewContextOptions) (playwright.BrowserContext, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := &Context{browser: b}
	if len(options) > 0 {
		c.Options = options[0]
	}
	b.contexts = append(b.contexts, c)
	return c, nil
}

// Close implements playwright.Browser.
func (b *Browser) Close(options ...playwright.BrowserCloseOptions) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// CreatedContexts returns every context created so far.
func (b *Browser) CreatedContexts() []*Context {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Context(nil), b.contexts...)
}

// Closed reports whether Close was called.
func (b *Browser) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Context hands out Pages.
type Context struct {
	playwright.BrowserContext

	Options playwright.BrowserNewContextOptions

	browser *Browser

	mu      sync.Mutex
	pages   []*Page
	timeout float64
	closed  bool
}

// NewPage implements playwright.BrowserContext.
func (c *Context) NewPage() (playwright.Page, error) {
	p := &Page{
		ctx:   c,
		texts: map[string]string{},
		errs:  map[string]error{},
		vals:  map[string]string{},
		click: map[string]func(*Page){},
	}
	if setup := c.browser.Setup; setup != nil {
		setup(p)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = append(c.pages, p)
	return p, nil
}

// Close implements playwright.BrowserContext.
func (c *Context) Close(options ...playwright.BrowserContextCloseOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// SetDefaultTimeout implements playwright.BrowserContext.
func (c *Context) SetDefaultTimeout(timeout float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = timeout
}

// Closed reports whether Close was called.
func (c *Context) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// CreatedPages returns the pages opened in c.
func (c *Context) CreatedPages() []*Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Page(nil), c.pages...)
}

// Page is a scripted page. Element state is keyed by selector.
type Page struct {
	playwright.Page

	ctx *Context

	mu      sync.Mutex
	url     string
	title   string
	texts   map[string]string
	errs    map[string]error
	vals    map[string]string
	click   map[string]func(*Page)
	calls   []string
	shots   []string
	shotErr error
	dialog  func(playwright.Dialog)
}

// SetTitle sets the document title.
func (p *Page) SetTitle(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.title = title
}

// SetText makes selector present with the given inner text.
func (p *Page) SetText(selector, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.texts[selector] = text
}

// SetError fails every locator call on selector with err.
func (p *Page) SetError(selector string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs[selector] = err
}

// FailScreenshots makes Screenshot return err.
func (p *Page) FailScreenshots(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shotErr = err
}

// OnClick runs fn after selector is clicked.
func (p *Page) OnClick(selector string, fn func(*Page)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.click[selector] = fn
}

// Value returns what was last filled into selector.
func (p *Page) Value(selector string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vals[selector]
}

// Calls returns the recorded interactions, "<action> <selector>".
func (p *Page) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

// Screenshots returns the paths written by Screenshot.
func (p *Page) Screenshots() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.shots...)
}

// Dialog delivers d to the dialog handler registered with Once.
func (p *Page) Dialog(d playwright.Dialog) {
	p.mu.Lock()
	fn := p.dialog
	p.dialog = nil
	p.mu.Unlock()
	if fn != nil {
		fn(d)
	}
}

func (p *Page) record(action, selector string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, action+" "+selector)
	return p.errs[selector]
}

// Context implements playwright.Page.
func (p *Page) Context() playwright.BrowserContext {
	return p.ctx
}

// Goto implements playwright.Page.
func (p *Page) Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error) {
	if err := p.record("goto", url); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = url
	return nil, nil
}

// Title implements playwright.Page.
func (p *Page) Title() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title, nil
}

// URL implements playwright.Page.
func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

// Screenshot writes a placeholder file to the requested path.
func (p *Page) Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.shotErr != nil {
		return nil, p.shotErr
	}
	data := []byte("png")
	if len(options) > 0 && options[0].Path != nil {
		path := *options[0].Path
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, err
		}
		p.shots = append(p.shots, path)
	}
	return data, nil
}

// Once implements playwright.Page for the "dialog" event; other events are
// ignored.
func (p *Page) Once(name string, handler interface{}) {
	fn, ok := handler.(func(playwright.Dialog))
	if name != "dialog" || !ok {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dialog = fn
}

// Close implements playwright.Page.
func (p *Page) Close(options ...playwright.PageCloseOptions) error {
	return nil
}

// locator lets Locator embed playwright.Locator without a field named
// Locator hiding the Locator method.
type locator interface {
	playwright.Locator
}

// Locator implements playwright.Page.
func (p *Page) Locator(selector string, options ...playwright.PageLocatorOptions) playwright.Locator {
	return &Locator{page: p, selector: selector}
}

// Locator acts on one selector of a Page.
type Locator struct {
	locator

	page     *Page
	selector string
}

// Click implements playwright.Locator.
func (l *Locator) Click(options ...playwright.LocatorClickOptions) error {
	if err := l.page.record("click", l.selector); err != nil {
		return err
	}
	l.page.mu.Lock()
	fn := l.page.click[l.selector]
	l.page.mu.Unlock()
	if fn != nil {
		fn(l.page)
	}
	return nil
}

// Fill implements playwright.Locator.
func (l *Locator) Fill(value string, options ...playwright.LocatorFillOptions) error {
	if err := l.page.record("fill", l.selector); err != nil {
		return err
	}
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	l.page.vals[l.selector] = value
	return nil
}

func (l *Locator) text() (string, error) {
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	text, ok := l.page.texts[l.selector]
	if !ok {
		return "", fmt.Errorf("%s: %w", l.selector, ErrNoElement)
	}
	return text, nil
}

// InnerText implements playwright.Locator.
func (l *Locator) InnerText(options ...playwright.LocatorInnerTextOptions) (string, error) {
	if err := l.page.record("text", l.selector); err != nil {
		return "", err
	}
	return l.text()
}

// AllInnerTexts implements playwright.Locator.
func (l *Locator) AllInnerTexts() ([]string, error) {
	if err := l.page.record("texts", l.selector); err != nil {
		return nil, err
	}
	text, err := l.text()
	if err != nil {
		return []string{}, nil
	}
	return []string{text}, nil
}

// WaitFor implements playwright.Locator. Visible waits fail for absent selectors.
func (l *Locator) WaitFor(options ...playwright.LocatorWaitForOptions) error {
	if err := l.page.record("wait", l.selector); err != nil {
		return err
	}
	if len(options) > 0 && options[0].State != nil && *options[0].State == *playwright.WaitForSelectorStateVisible {
		_, err := l.text()
		return err
	}
	return nil
}

// SelectOption implements playwright.Locator.
func (l *Locator) SelectOption(values playwright.SelectOptionValues, options ...playwright.LocatorSelectOptionOptions) ([]string, error) {
	if err := l.page.record("select", l.selector); err != nil {
		return nil, err
	}
	var selected []string
	switch {
	case values.Values != nil:
		selected = *values.Values
	case values.Labels != nil:
		selected = *values.Labels
	}
	if len(selected) > 0 {
		l.page.mu.Lock()
		l.page.vals[l.selector] = selected[0]
		l.page.mu.Unlock()
	}
	return selected, nil
}

// Check implements playwright.Locator.
func (l *Locator) Check(options ...playwright.LocatorCheckOptions) error {
	return l.setChecked(true)
}

// Uncheck implements playwright.Locator.
func (l *Locator) Uncheck(options ...playwright.LocatorUncheckOptions) error {
	return l.setChecked(false)
}

func (l *Locator) setChecked(on bool) error {
	action := "uncheck"
	if on {
		action = "check"
	}
	if err := l.page.record(action, l.selector); err != nil {
		return err
	}
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	if on {
		l.page.vals[l.selector] = "on"
	} else {
		delete(l.page.vals, l.selector)
	}
	return nil
}

// IsVisible implements playwright.Locator.
func (l *Locator) IsVisible(options ...playwright.LocatorIsVisibleOptions) (bool, error) {
	if err := l.page.record("visible", l.selector); err != nil {
		return false, err
	}
	_, err := l.text()
	return err == nil, nil
}

// IsEnabled implements playwright.Locator.
func (l *Locator) IsEnabled(options ...playwright.LocatorIsEnabledOptions) (bool, error) {
	if err := l.page.record("enabled", l.selector); err != nil {
		return false, err
	}
	return true, nil
}

// IsChecked implements playwright.Locator.
func (l *Locator) IsChecked(options ...playwright.LocatorIsCheckedOptions) (bool, error) {
	if err := l.page.record("checked", l.selector); err != nil {
		return false, err
	}
	return l.page.Value(l.selector) == "on", nil
}
