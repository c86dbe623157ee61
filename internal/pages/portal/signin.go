// File: internal/pages/portal/signin.go
package portal

import (
	"context"

	"github.com/magidevv/authflows/internal/browser"
)

// SignInPath is the portal's sign-in form, relative to the base URL.
const SignInPath = "signin"

var signInSelectors = struct {
	UsernameField string
	PasswordField string
	SubmitButton  string
	ErrorBanner   string
}{
	UsernameField: "input[name=username]",
	PasswordField: "input[name=password]",
	SubmitButton:  "form.sign-in button[type=submit]",
	ErrorBanner:   ".alert-error",
}

// SignIn is the portal's credential form.
type SignIn struct {
	page   *browser.Page
	verify *browser.Verifier
}

func NewSignIn(p *browser.Page) *SignIn {
	return &SignIn{page: p, verify: p.Expect()}
}

func (s *SignIn) GoTo(ctx context.Context) error {
	return s.page.Navigate(ctx, SignInPath)
}

// VerifyOpened waits for the form to be the current page.
func (s *SignIn) VerifyOpened(ctx context.Context) error {
	if err := s.verify.VerifyURL(ctx, browser.MatchesPattern(`/`+SignInPath+`$`)); err != nil {
		return err
	}
	for _, sel := range []string{signInSelectors.UsernameField, signInSelectors.PasswordField, signInSelectors.SubmitButton} {
		if err := s.verify.VerifyVisible(ctx, sel, true, 0); err != nil {
			return err
		}
	}
	return nil
}

// SignIn types the credentials and submits the form.
func (s *SignIn) SignIn(ctx context.Context, username, password string) error {
	if err := s.page.Fill(ctx, signInSelectors.UsernameField, username); err != nil {
		return err
	}
	if err := s.page.Fill(ctx, signInSelectors.PasswordField, password); err != nil {
		return err
	}
	return s.page.ClickAndWaitForNavigation(ctx, signInSelectors.SubmitButton)
}

// VerifyError waits for the error banner to show text.
func (s *SignIn) VerifyError(ctx context.Context, text string) error {
	return s.verify.VerifyText(ctx, signInSelectors.ErrorBanner, browser.Exact(text), true)
}

// VerifyUsername waits for the username field to hold value.
func (s *SignIn) VerifyUsername(ctx context.Context, value string) error {
	return s.verify.VerifyValue(ctx, signInSelectors.UsernameField, value)
}
