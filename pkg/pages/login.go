package pages

import (
	"github.com/playwright-community/playwright-go"

	"github.com/pomkit/pomkit/pkg/actions"
)

// Login page selectors.
const (
	UsernameInput = "#user-name"
	PasswordInput = "#password"
	LoginButton   = "#login-button"
	ErrorMessage  = "#error-message"
)

// LoginPage is the sign-in form.
type LoginPage struct {
	BasePage
}

// NewLoginPage wraps page for the test named testName.
func NewLoginPage(page playwright.Page, testName string, opts ...actions.Option) *LoginPage {
	return &LoginPage{BasePage: NewBasePage(page, testName, opts...)}
}

// Open navigates to url.
func (p *LoginPage) Open(url string) (*LoginPage, error) {
	return p, p.Actions.Navigate(url)
}

// Login submits the form with the given credentials.
func (p *LoginPage) Login(username, password string) (*LoginPage, error) {
	if err := p.Actions.Fill(UsernameInput, username); err != nil {
		return p, err
	}
	if err := p.Actions.Fill(PasswordInput, password); err != nil {
		return p, err
	}
	if err := p.Actions.Click(LoginButton); err != nil {
		return p, err
	}
	return p, nil
}

// ErrorMessage returns the text of the login error banner.
func (p *LoginPage) ErrorMessage() (string, error) {
	return p.Actions.GetText(ErrorMessage)
}
