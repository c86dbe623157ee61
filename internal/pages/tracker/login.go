// File: internal/pages/tracker/login.go
package tracker

import (
	"context"

	"github.com/magidevv/authflows/internal/browser"
)

// LoginPath is where the login form lives, relative to the base URL.
const LoginPath = "login"

var loginSelectors = struct {
	Username           string
	Password           string
	Autologin          string
	LoginButton        string
	ForgotPasswordLink string
	SuccessMessage     string
	ErrorMessage       string
}{
	Username:           "#username",
	Password:           "#password",
	Autologin:          "#autologin",
	LoginButton:        "#login-submit",
	ForgotPasswordLink: "a.lost_password",
	SuccessMessage:     "#flash_notice",
	ErrorMessage:       "#flash_error",
}

// Login is the sign-in form. Flash messages shown after registration or a
// failed attempt also render here.
type Login struct {
	page *browser.Page
}

func NewLogin(p *browser.Page) *Login {
	return &Login{page: p}
}

func (l *Login) Open(ctx context.Context) error {
	return l.page.Navigate(ctx, LoginPath)
}

func (l *Login) Username() *browser.Locator           { return l.page.Locator(loginSelectors.Username) }
func (l *Login) Password() *browser.Locator           { return l.page.Locator(loginSelectors.Password) }
func (l *Login) Autologin() *browser.Locator          { return l.page.Locator(loginSelectors.Autologin) }
func (l *Login) LoginButton() *browser.Locator        { return l.page.Locator(loginSelectors.LoginButton) }
func (l *Login) ForgotPasswordLink() *browser.Locator { return l.page.Locator(loginSelectors.ForgotPasswordLink) }
func (l *Login) SuccessMessage() *browser.Locator     { return l.page.Locator(loginSelectors.SuccessMessage) }
func (l *Login) ErrorMessage() *browser.Locator       { return l.page.Locator(loginSelectors.ErrorMessage) }

// FormSelectors lists every control of the login form, in page order.
func (l *Login) FormSelectors() []string {
	return []string{
		loginSelectors.Username,
		loginSelectors.Password,
		loginSelectors.Autologin,
		loginSelectors.LoginButton,
		loginSelectors.ForgotPasswordLink,
	}
}

// SuccessMessageSelector and ErrorMessageSelector are exposed for verify-style assertions.
func (l *Login) SuccessMessageSelector() string { return loginSelectors.SuccessMessage }
func (l *Login) ErrorMessageSelector() string   { return loginSelectors.ErrorMessage }

// FillLoginForm types the credentials without submitting.
func (l *Login) FillLoginForm(ctx context.Context, username, password string) error {
	if err := l.page.Fill(ctx, loginSelectors.Username, username); err != nil {
		return err
	}
	return l.page.Fill(ctx, loginSelectors.Password, password)
}

func (l *Login) ClickLoginButton(ctx context.Context) error {
	return l.page.ClickAndWaitForNavigation(ctx, loginSelectors.LoginButton)
}

// LogIn fills the form and submits it.
func (l *Login) LogIn(ctx context.Context, username, password string) error {
	if err := l.FillLoginForm(ctx, username, password); err != nil {
		return err
	}
	return l.ClickLoginButton(ctx)
}
