package suite

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/pomkit/pomkit/pkg/browser"
	"github.com/pomkit/pomkit/pkg/browser/browsertest"
	"github.com/pomkit/pomkit/pkg/config"
	"github.com/pomkit/pomkit/pkg/pages"
	"github.com/pomkit/pomkit/pkg/report"
)

const baseURL = "https://www.saucedemo.com"

func sauceDemo(p *browsertest.Page) {
	p.OnClick(pages.LoginButton, func(p *browsertest.Page) {
		if p.Value(pages.PasswordInput) == "secret_sauce" {
			p.SetText(pages.ProductsTitle, "Products")
			return
		}
		p.SetText(pages.ErrorMessage, "Epic sadface")
	})
}

func newSuite(t *testing.T, values map[string]string) (*Suite, *browsertest.Driver) {
	t.Helper()

	cfg := config.NewMapSource(map[string]string{
		config.KeyBrowser:  "chromium",
		config.KeyHeadless: "true",
		config.KeyBaseURL:  baseURL,
		config.KeyName:     "QA",
	})
	for k, v := range values {
		cfg.Values[k] = v
	}
	cfg.RunDir = filepath.Join(t.TempDir(), "run")

	d := browsertest.NewDriver()
	d.Browser.Setup = sauceDemo

	s, err := New(cfg, WithManagerOptions(browser.WithDriverFactory(d.Factory())))
	require.NoError(t, err)
	return s, d
}

func statuses(r *report.Reporter) map[string]report.Status {
	out := map[string]report.Status{}
	for _, test := range r.Tests() {
		out[test.Name()] = test.Status()
	}
	return out
}

func TestNewStartsBrowser(t *testing.T) {
	s, d := newSuite(t, nil)

	assert.Equal(t, browser.StateRunning, s.Manager().State())
	assert.Equal(t, browser.EngineChromium, s.Manager().Engine())
	assert.Len(t, d.Launches(), 1)
	assert.Equal(t, baseURL, s.Config().Get(config.KeyBaseURL))

	require.NoError(t, s.Close())
	assert.Equal(t, browser.StateStopped, s.Manager().State())
	assert.Equal(t, 1, d.Stops())
	assert.FileExists(t, filepath.Join(s.Reporter().Dir(), report.FileName))
}

func TestNewRejectsUnknownBrowser(t *testing.T) {
	cfg := config.NewMapSource(map[string]string{config.KeyBrowser: "opera"})
	cfg.RunDir = t.TempDir()

	_, err := New(cfg, WithManagerOptions(browser.WithDriverFactory(browsertest.NewDriver().Factory())))
	assert.ErrorIs(t, err, browser.ErrUnsupportedBrowser)
}

func TestBegin(t *testing.T) {
	s, d := newSuite(t, nil)
	defer s.Close()

	var cases []*Case
	t.Run("validLogin", func(t *testing.T) {
		c := s.Begin(t)
		cases = append(cases, c)

		_, err := c.LoginPage().Open(c.BaseURL())
		require.NoError(t, err)
		_, err = c.LoginPage().Login("standard_user", "secret_sauce")
		require.NoError(t, err)

		title, err := c.HomePage().Title()
		require.NoError(t, err)
		assert.Equal(t, "Products", title)
	})
	t.Run("skipped", func(t *testing.T) {
		cases = append(cases, s.Begin(t))
		t.Skip("not today")
	})

	got := statuses(s.Reporter())
	assert.Equal(t, report.StatusPass, got["TestBegin/validLogin"])
	assert.Equal(t, report.StatusSkip, got["TestBegin/skipped"])

	contexts := d.Browser.CreatedContexts()
	require.Len(t, contexts, 2)
	for i, ctx := range contexts {
		assert.True(t, ctx.Closed(), "context %d left open", i)
	}
	for _, c := range cases {
		assert.Nil(t, c.Context)
	}

	steps := s.Reporter().Tests()[0].Steps()
	assert.Equal(t, "Using default viewport (not maximized).", steps[0].Message)
	assert.Equal(t, "Navigate → "+baseURL, steps[1].Message)
	assert.Equal(t, "Test passed: TestBegin/validLogin", steps[len(steps)-1].Message)
}

func TestAttemptRetriesFailures(t *testing.T) {
	s, d := newSuite(t, map[string]string{config.KeyRetryCount: "1"})
	defer s.Close()

	errTitle := errors.New("title mismatch")
	calls := 0
	err := s.Attempt("flakyLogin", func(c *Case) error {
		calls++
		if calls == 1 {
			return errTitle
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	tests := s.Reporter().Tests()
	require.Len(t, tests, 2)
	assert.Equal(t, report.StatusFail, tests[0].Status())
	assert.Equal(t, report.StatusPass, tests[1].Status())

	failSteps := tests[0].Steps()
	last := failSteps[len(failSteps)-1]
	assert.Equal(t, "Test failed: flakyLogin: title mismatch", last.Message)
	require.NotEmpty(t, last.Screenshot)
	_, statErr := os.Stat(filepath.Join(s.Reporter().Dir(), last.Screenshot))
	assert.NoError(t, statErr)

	for _, ctx := range d.Browser.CreatedContexts() {
		assert.True(t, ctx.Closed())
	}
}

func TestAttemptGivesUp(t *testing.T) {
	s, _ := newSuite(t, map[string]string{config.KeyRetryCount: "0"})
	defer s.Close()

	errLogin := errors.New("login failed")
	err := s.Attempt("badLogin", func(c *Case) error {
		_, err := c.LoginPage().Open(c.BaseURL())
		require.NoError(t, err)
		_, err = c.LoginPage().Login("locked_out_user", "nope")
		require.NoError(t, err)
		msg, err := c.LoginPage().ErrorMessage()
		require.NoError(t, err)
		assert.Equal(t, "Epic sadface", msg)
		return errLogin
	})
	assert.ErrorIs(t, err, errLogin)
	assert.Equal(t, report.Summary{Total: 1, Failed: 1}, s.Reporter().Summary())
}

func TestFailureScreenshotErrorStillRecordsFailure(t *testing.T) {
	s, d := newSuite(t, map[string]string{config.KeyRetryCount: "0"})
	defer s.Close()
	d.Browser.Setup = func(p *browsertest.Page) {
		p.FailScreenshots(errors.New("target closed"))
	}

	err := s.Attempt("crashed", func(*Case) error { return errors.New("crash") })
	require.Error(t, err)

	steps := s.Reporter().Tests()[0].Steps()
	last := steps[len(steps)-1]
	assert.Equal(t, report.StatusFail, last.Status)
	assert.Empty(t, last.Screenshot)
}

func TestLifecycleEventsReachReport(t *testing.T) {
	s, _ := newSuite(t, nil)

	require.NoError(t, s.Attempt("first", func(*Case) error { return nil }))
	require.NoError(t, s.Close())

	var messages []string
	for _, step := range s.Reporter().Tests()[0].Steps() {
		messages = append(messages, step.Message)
	}
	assert.Contains(t, messages, "Using default viewport (not maximized).")
	assert.Contains(t, messages, "Browser and Playwright stopped.")
}

func TestParallelCasesKeepTheirOwnEvents(t *testing.T) {
	s, _ := newSuite(t, map[string]string{config.KeyRetryCount: "0"})
	defer s.Close()

	const rows = 8
	var g errgroup.Group
	for i := 0; i < rows; i++ {
		i := i
		g.Go(func() error {
			return s.Attempt(fmt.Sprintf("row[%d]", i), func(c *Case) error {
				_, err := c.LoginPage().Open(c.BaseURL())
				return err
			})
		})
	}
	require.NoError(t, g.Wait())

	tests := s.Reporter().Tests()
	require.Len(t, tests, rows)
	for _, test := range tests {
		var viewport, navigate int
		for _, step := range test.Steps() {
			switch step.Message {
			case "Using default viewport (not maximized).":
				viewport++
			case "Navigate → " + baseURL:
				navigate++
			}
		}
		assert.Equal(t, 1, viewport, "viewport events on %s", test.Name())
		assert.Equal(t, 1, navigate, "navigate steps on %s", test.Name())
	}
}
