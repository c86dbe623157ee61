// File: internal/pages/portal/header.go
package portal

import (
	"context"

	"github.com/magidevv/authflows/internal/browser"
)

var headerSelectors = struct {
	SignInLink    string
	UserMenu      string
	SignOutButton string
	ProfileLink   string
}{
	SignInLink:    "header a.sign-in",
	UserMenu:      "header .user-menu .username",
	SignOutButton: "header button.sign-out",
	ProfileLink:   "header a.profile",
}

// Header is the navigation bar shown on every portal page.
type Header struct {
	page   *browser.Page
	verify *browser.Verifier
}

func NewHeader(p *browser.Page) *Header {
	return &Header{page: p, verify: p.Expect()}
}

func (h *Header) ClickSignInLink(ctx context.Context) error {
	return h.page.Click(ctx, headerSelectors.SignInLink)
}

func (h *Header) ClickSignOut(ctx context.Context) error {
	return h.page.Click(ctx, headerSelectors.SignOutButton)
}

func (h *Header) ClickProfileLink(ctx context.Context) error {
	return h.page.Click(ctx, headerSelectors.ProfileLink)
}

// VerifySignedOut waits for the sign-in link and for the user menu to disappear.
func (h *Header) VerifySignedOut(ctx context.Context) error {
	if err := h.verify.VerifyVisible(ctx, headerSelectors.SignInLink, true, 0); err != nil {
		return err
	}
	return h.verify.VerifyVisible(ctx, headerSelectors.UserMenu, false, 0)
}

// VerifySignedInAs waits for the user menu to show username.
func (h *Header) VerifySignedInAs(ctx context.Context, username string) error {
	if err := h.verify.VerifyVisible(ctx, headerSelectors.SignInLink, false, 0); err != nil {
		return err
	}
	return h.verify.VerifyText(ctx, headerSelectors.UserMenu, browser.Exact(username), true)
}

// IsSignedIn reports whether the sign-out button is shown right now.
func (h *Header) IsSignedIn(ctx context.Context) (bool, error) {
	return h.page.IsVisible(ctx, headerSelectors.SignOutButton)
}
