// Package pages holds the page objects of the application under test.
//
// Each page object wraps a Playwright page and issues its interactions through
// actions.PageActions so that every step lands in the run report.
package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/pomkit/pomkit/pkg/actions"
)

// BasePage is embedded by every page object.
type BasePage struct {
	Page    playwright.Page
	Actions *actions.PageActions
}

// NewBasePage wraps page. testName prefixes step screenshots.
func NewBasePage(page playwright.Page, testName string, opts ...actions.Option) BasePage {
	return BasePage{
		Page:    page,
		Actions: actions.New(page, testName, opts...),
	}
}

// PageTitle returns the document title.
func (b BasePage) PageTitle() (string, error) {
	title, err := b.Page.Title()
	if err != nil {
		return "", fmt.Errorf("failed to read page title: %w", err)
	}
	return title, nil
}

// PageURL returns the current URL.
func (b BasePage) PageURL() string {
	return b.Page.URL()
}
