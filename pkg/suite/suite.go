// Package suite wires the browser manager, run report and page actions into
// a per-test harness for Go tests and data-driven runs.
//
//	func TestLogin(t *testing.T) {
//	    c := s.Begin(t)
//	    login := c.LoginPage()
//	    ...
//	}
//
// One Suite serves a whole package; call New from TestMain and Close after
// m.Run so the browser is stopped and report.json is written.
package suite

import (
	"errors"
	"fmt"
	"testing"

	"github.com/playwright-community/playwright-go"

	"github.com/pomkit/pomkit/pkg/actions"
	"github.com/pomkit/pomkit/pkg/browser"
	"github.com/pomkit/pomkit/pkg/config"
	"github.com/pomkit/pomkit/pkg/logging"
	"github.com/pomkit/pomkit/pkg/pages"
	"github.com/pomkit/pomkit/pkg/report"
	"github.com/pomkit/pomkit/pkg/retry"
)

// Suite owns the browser and the report for a run.
type Suite struct {
	cfg      config.Source
	log      *logging.Logger
	manager  *browser.Manager
	reporter *report.Reporter
}

type options struct {
	log      *logging.Logger
	reporter *report.Reporter
	manager  []browser.Option
}

// Option configures a Suite.
type Option func(*options)

// WithLogger sets the logger shared by the suite, its manager and actions.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithReporter uses r instead of a report created from the configuration.
func WithReporter(r *report.Reporter) Option {
	return func(o *options) {
		o.reporter = r
	}
}

// WithManagerOptions passes extra options to the browser manager.
func WithManagerOptions(opts ...browser.Option) Option {
	return func(o *options) {
		o.manager = append(o.manager, opts...)
	}
}

// New creates the run report and starts the browser.
func New(cfg config.Source, opts ...Option) (*Suite, error) {
	o := options{log: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	reporter := o.reporter
	if reporter == nil {
		var err error
		reporter, err = report.FromConfig(cfg)
		if err != nil {
			return nil, err
		}
	}

	mopts := append([]browser.Option{
		browser.WithLogger(o.log),
		browser.WithEventSink(reporter),
		browser.WithDefaultSource(cfg),
	}, o.manager...)
	manager := browser.NewManager(mopts...)

	if err := manager.Start(cfg); err != nil {
		return nil, err
	}

	return &Suite{
		cfg:      cfg,
		log:      o.log,
		manager:  manager,
		reporter: reporter,
	}, nil
}

// Close stops the browser and writes the report.
func (s *Suite) Close() error {
	stopErr := s.manager.Stop()
	flushErr := s.reporter.Flush()
	return errors.Join(stopErr, flushErr)
}

// Config returns the configuration the suite was started with.
func (s *Suite) Config() config.Source {
	return s.cfg
}

// Manager returns the browser manager.
func (s *Suite) Manager() *browser.Manager {
	return s.manager
}

// Reporter returns the run report.
func (s *Suite) Reporter() *report.Reporter {
	return s.reporter
}

// Case is one test on its own browser context.
type Case struct {
	Name    string
	Context playwright.BrowserContext
	Page    playwright.Page
	Actions *actions.PageActions
	Report  *report.Test

	suite *Suite
}

// Begin opens a fresh context and page for tb and registers the teardown that
// records the outcome and closes the context.
func (s *Suite) Begin(tb testing.TB) *Case {
	tb.Helper()

	c, err := s.newCase(tb.Name())
	if err != nil {
		tb.Fatalf("failed to open browser context: %v", err)
	}
	tb.Cleanup(func() {
		c.finish(tb.Failed(), tb.Skipped(), nil)
	})
	return c
}

// Attempt runs fn as the test called name outside of go test, retrying
// failures up to retry.count times. Each attempt gets its own Case.
func (s *Suite) Attempt(name string, fn func(*Case) error) error {
	return retry.FromConfig(s.cfg).Run(func(attempt int) error {
		c, err := s.newCase(name)
		if err != nil {
			return err
		}
		err = fn(c)
		c.finish(err != nil, false, err)
		if err != nil {
			s.log.Warnf("Attempt %d of %s failed: %v", attempt, name, err)
		}
		return err
	})
}

// newCase creates the report test first and hands it to the manager so the
// context's lifecycle messages land on it, also when cases run in parallel.
func (s *Suite) newCase(name string) (*Case, error) {
	test := s.reporter.CreateTest(name)

	page, err := s.manager.NewPageFor(test)
	if err != nil {
		test.Fail(fmt.Sprintf("Test failed: %s: %v", name, err), "")
		return nil, err
	}

	return &Case{
		Name:    name,
		Context: page.Context(),
		Page:    page,
		Actions: actions.New(page, name, s.actionOptions(test)...),
		Report:  test,
		suite:   s,
	}, nil
}

func (s *Suite) actionOptions(test *report.Test) []actions.Option {
	return []actions.Option{
		actions.WithReporter(test),
		actions.WithScreenshotDir(s.reporter.Dir()),
		actions.WithLogger(s.log),
	}
}

// finish records the outcome and releases the context.
func (c *Case) finish(failed, skipped bool, cause error) {
	defer c.close()

	switch {
	case failed:
		msg := "Test failed: " + c.Name
		if cause != nil {
			msg = fmt.Sprintf("%s: %v", msg, cause)
		}
		shot, err := actions.TakeScreenshot(c.Page, c.suite.reporter.Dir(), c.Name+"_failure")
		if err != nil {
			c.suite.log.Warnf("Failure screenshot for %s failed: %v", c.Name, err)
		}
		c.Report.Fail(msg, shot)
	case skipped:
		c.Report.Skip("Test skipped: " + c.Name)
	default:
		c.Report.Pass("Test passed: " + c.Name)
	}
}

func (c *Case) close() {
	if c.Context == nil {
		return
	}
	if err := c.Context.Close(); err != nil {
		c.suite.log.Warnf("Failed to close context for %s: %v", c.Name, err)
	}
	c.Context = nil
}

// BaseURL returns the configured application URL.
func (c *Case) BaseURL() string {
	return c.suite.cfg.Get(config.KeyBaseURL)
}

// LoginPage returns the login page object bound to this case.
func (c *Case) LoginPage() *pages.LoginPage {
	return pages.NewLoginPage(c.Page, c.Name, c.suite.actionOptions(c.Report)...)
}

// HomePage returns the home page object bound to this case.
func (c *Case) HomePage() *pages.HomePage {
	return pages.NewHomePage(c.Page, c.Name, c.suite.actionOptions(c.Report)...)
}
