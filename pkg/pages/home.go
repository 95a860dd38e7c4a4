package pages

import (
	"github.com/playwright-community/playwright-go"

	"github.com/pomkit/pomkit/pkg/actions"
)

// ProductsTitle is the heading shown after a successful login.
const ProductsTitle = ".title"

// HomePage is the inventory page shown after login.
type HomePage struct {
	BasePage
}

// NewHomePage wraps page for the test named testName.
func NewHomePage(page playwright.Page, testName string, opts ...actions.Option) *HomePage {
	return &HomePage{BasePage: NewBasePage(page, testName, opts...)}
}

// Title returns the products heading text.
func (p *HomePage) Title() (string, error) {
	return p.Actions.GetText(ProductsTitle)
}
