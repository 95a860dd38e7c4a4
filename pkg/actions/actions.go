// Package actions wraps Playwright page interactions so that every step is
// logged and captured as a screenshot in the run report.
package actions

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/pomkit/pomkit/pkg/logging"
)

// SafeClickTimeout bounds each SafeClick attempt, in milliseconds.
const SafeClickTimeout = 3000.0

// StepReporter receives action steps. *report.Test implements it.
type StepReporter interface {
	StepPass(message, screenshotPath string)
	Info(message string)
}

// PageActions issues UI actions on a page and reports each one.
type PageActions struct {
	page    playwright.Page
	prefix  string
	steps   StepReporter
	shotDir string
	log     *logging.Logger
}

// Option configures PageActions.
type Option func(*PageActions)

// WithReporter sends steps and screenshots to r.
func WithReporter(r StepReporter) Option {
	return func(a *PageActions) {
		a.steps = r
	}
}

// WithScreenshotDir sets the directory screenshots are written under.
func WithScreenshotDir(dir string) Option {
	return func(a *PageActions) {
		a.shotDir = dir
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(a *PageActions) {
		a.log = l
	}
}

// New wraps page. prefix, usually the test name, starts every screenshot name.
func New(page playwright.Page, prefix string, opts ...Option) *PageActions {
	a := &PageActions{
		page:   page,
		prefix: prefix,
		log:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Page returns the wrapped page.
func (a *PageActions) Page() playwright.Page {
	return a.page
}

// logStep records a passed step with a screenshot. A failed screenshot is
// noted in the report and never fails the action.
func (a *PageActions) logStep(desc string) {
	a.logStepShot(desc, desc)
}

// logStepShot is logStep with the screenshot named after shotName, which
// keeps typed values out of file names.
func (a *PageActions) logStepShot(desc, shotName string) {
	a.log.Debugf("%s: %s", a.prefix, desc)
	if a.steps == nil {
		return
	}

	shot, err := TakeScreenshot(a.page, a.shotDir, a.prefix+"_"+shotName)
	if err != nil {
		a.log.Warnf("Screenshot failed for %q: %v", desc, err)
		a.steps.Info("Screenshot failed for: " + desc)
		return
	}
	a.steps.StepPass(desc, shot)
}

// Navigate opens url.
func (a *PageActions) Navigate(url string) error {
	if _, err := a.page.Goto(url); err != nil {
		return fmt.Errorf("navigate to %s failed: %w", url, err)
	}
	a.logStep("Navigate → " + url)
	return nil
}

// Click clicks the element matching selector.
func (a *PageActions) Click(selector string) error {
	if err := a.page.Locator(selector).Click(); err != nil {
		return fmt.Errorf("click %s failed: %w", selector, err)
	}
	a.logStep("Click → " + selector)
	return nil
}

// SafeClick tries to click up to retries times with a short timeout per
// attempt and returns the last error. retries below 1 count as one attempt.
func (a *PageActions) SafeClick(selector string, retries int) error {
	if retries < 1 {
		retries = 1
	}

	var lastErr error
	for i := 0; i < retries; i++ {
		err := a.page.Locator(selector).Click(playwright.LocatorClickOptions{
			Timeout: playwright.Float(SafeClickTimeout),
		})
		if err == nil {
			a.logStep("SafeClick → " + selector)
			return nil
		}
		lastErr = err
		a.log.Debugf("SafeClick %s attempt %d/%d failed: %v", selector, i+1, retries, err)
	}
	return fmt.Errorf("safe click %s failed after %d attempts: %w", selector, retries, lastErr)
}

// Fill types value into the element matching selector.
func (a *PageActions) Fill(selector, value string) error {
	if err := a.page.Locator(selector).Fill(value); err != nil {
		return fmt.Errorf("fill %s failed: %w", selector, err)
	}
	a.logStepShot("Fill → "+selector+" = "+value, "Fill → "+selector)
	return nil
}

// GetText returns the rendered text of the element matching selector.
func (a *PageActions) GetText(selector string) (string, error) {
	text, err := a.page.Locator(selector).InnerText()
	if err != nil {
		return "", fmt.Errorf("get text of %s failed: %w", selector, err)
	}
	a.logStep("GetText → " + selector + " = " + text)
	return text, nil
}

// WaitForVisible waits until selector is visible.
func (a *PageActions) WaitForVisible(selector string) error {
	return a.waitFor(selector, playwright.WaitForSelectorStateVisible, "WaitForVisible")
}

// WaitForHidden waits until selector is hidden or detached.
func (a *PageActions) WaitForHidden(selector string) error {
	return a.waitFor(selector, playwright.WaitForSelectorStateHidden, "WaitForHidden")
}

func (a *PageActions) waitFor(selector string, state *playwright.WaitForSelectorState, name string) error {
	err := a.page.Locator(selector).WaitFor(playwright.LocatorWaitForOptions{State: state})
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", strings.ToLower(name), selector, err)
	}
	a.logStep(name + " → " + selector)
	return nil
}

// SelectByValue selects the option whose value attribute is value.
func (a *PageActions) SelectByValue(selector, value string) error {
	_, err := a.page.Locator(selector).SelectOption(playwright.SelectOptionValues{
		Values: &[]string{value},
	})
	if err != nil {
		return fmt.Errorf("select value %q in %s failed: %w", value, selector, err)
	}
	a.logStep("SelectByValue → " + selector + " = " + value)
	return nil
}

// SelectByText selects the option whose label is text.
func (a *PageActions) SelectByText(selector, text string) error {
	_, err := a.page.Locator(selector).SelectOption(playwright.SelectOptionValues{
		Labels: &[]string{text},
	})
	if err != nil {
		return fmt.Errorf("select text %q in %s failed: %w", text, selector, err)
	}
	a.logStep("SelectByText → " + selector + " = " + text)
	return nil
}

// Check ticks a checkbox or radio button.
func (a *PageActions) Check(selector string) error {
	if err := a.page.Locator(selector).Check(); err != nil {
		return fmt.Errorf("check %s failed: %w", selector, err)
	}
	a.logStep("Check → " + selector)
	return nil
}

// Uncheck clears a checkbox.
func (a *PageActions) Uncheck(selector string) error {
	if err := a.page.Locator(selector).Uncheck(); err != nil {
		return fmt.Errorf("uncheck %s failed: %w", selector, err)
	}
	a.logStep("Uncheck → " + selector)
	return nil
}

// SelectRadio selects a radio button.
func (a *PageActions) SelectRadio(selector string) error {
	if err := a.page.Locator(selector).Check(); err != nil {
		return fmt.Errorf("select radio %s failed: %w", selector, err)
	}
	a.logStep("SelectRadio → " + selector)
	return nil
}

// GetAllTexts returns the inner text of every element matching selector.
func (a *PageActions) GetAllTexts(selector string) ([]string, error) {
	texts, err := a.page.Locator(selector).AllInnerTexts()
	if err != nil {
		return nil, fmt.Errorf("get all texts of %s failed: %w", selector, err)
	}
	a.logStep(fmt.Sprintf("GetAllTexts → %s = %v", selector, texts))
	return texts, nil
}

// IsVisible reports whether selector is visible.
func (a *PageActions) IsVisible(selector string) (bool, error) {
	v, err := a.page.Locator(selector).IsVisible()
	if err != nil {
		return false, fmt.Errorf("is visible %s failed: %w", selector, err)
	}
	a.logStep(fmt.Sprintf("IsVisible → %s = %t", selector, v))
	return v, nil
}

// IsEnabled reports whether selector is enabled.
func (a *PageActions) IsEnabled(selector string) (bool, error) {
	v, err := a.page.Locator(selector).IsEnabled()
	if err != nil {
		return false, fmt.Errorf("is enabled %s failed: %w", selector, err)
	}
	a.logStep(fmt.Sprintf("IsEnabled → %s = %t", selector, v))
	return v, nil
}

// IsChecked reports whether selector is checked.
func (a *PageActions) IsChecked(selector string) (bool, error) {
	v, err := a.page.Locator(selector).IsChecked()
	if err != nil {
		return false, fmt.Errorf("is checked %s failed: %w", selector, err)
	}
	a.logStep(fmt.Sprintf("IsChecked → %s = %t", selector, v))
	return v, nil
}

// AcceptAlert accepts the next dialog the page opens.
func (a *PageActions) AcceptAlert() {
	a.page.Once("dialog", func(d playwright.Dialog) {
		if err := d.Accept(); err != nil {
			a.log.Warnf("Accept dialog failed: %v", err)
		}
	})
	a.logStep("Accept Alert")
}

// DismissAlert dismisses the next dialog the page opens.
func (a *PageActions) DismissAlert() {
	a.page.Once("dialog", func(d playwright.Dialog) {
		if err := d.Dismiss(); err != nil {
			a.log.Warnf("Dismiss dialog failed: %v", err)
		}
	})
	a.logStep("Dismiss Alert")
}

// TypeInAlert answers the next prompt dialog with text.
func (a *PageActions) TypeInAlert(text string) {
	a.page.Once("dialog", func(d playwright.Dialog) {
		if err := d.Accept(text); err != nil {
			a.log.Warnf("Prompt dialog failed: %v", err)
		}
	})
	a.logStep("TypeInAlert → " + text)
}
