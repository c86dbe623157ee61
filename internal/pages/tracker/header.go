// File: internal/pages/tracker/header.go
package tracker

import (
	"context"

	"github.com/magidevv/authflows/internal/browser"
)

var headerSelectors = struct {
	LoginLink        string
	RegisterLink     string
	LoggedAsUserLink string
	MyAccountLink    string
	LogoutLink       string
}{
	LoginLink:        "a.login",
	RegisterLink:     "a.register",
	LoggedAsUserLink: "div#loggedas a.user.active",
	MyAccountLink:    "a.my-account",
	LogoutLink:       "a.logout",
}

// Header is the top menu bar rendered on every page.
type Header struct {
	page *browser.Page
}

func NewHeader(p *browser.Page) *Header {
	return &Header{page: p}
}

// Open loads the home page, which is where every scenario starts.
func (h *Header) Open(ctx context.Context) error {
	return h.page.Navigate(ctx, "")
}

func (h *Header) LoginLink() *browser.Locator        { return h.page.Locator(headerSelectors.LoginLink) }
func (h *Header) RegisterLink() *browser.Locator     { return h.page.Locator(headerSelectors.RegisterLink) }
func (h *Header) LoggedAsUserLink() *browser.Locator { return h.page.Locator(headerSelectors.LoggedAsUserLink) }
func (h *Header) MyAccountLink() *browser.Locator    { return h.page.Locator(headerSelectors.MyAccountLink) }
func (h *Header) LogoutLink() *browser.Locator       { return h.page.Locator(headerSelectors.LogoutLink) }

func (h *Header) ClickLoginLink(ctx context.Context) error {
	return h.page.Click(ctx, headerSelectors.LoginLink)
}

func (h *Header) ClickRegisterLink(ctx context.Context) error {
	return h.page.Click(ctx, headerSelectors.RegisterLink)
}

func (h *Header) ClickLoggedAsUserLink(ctx context.Context) error {
	return h.page.Click(ctx, headerSelectors.LoggedAsUserLink)
}

func (h *Header) ClickMyAccountLink(ctx context.Context) error {
	return h.page.Click(ctx, headerSelectors.MyAccountLink)
}

func (h *Header) ClickLogoutLink(ctx context.Context) error {
	return h.page.Click(ctx, headerSelectors.LogoutLink)
}

// IsLoggedIn reports whether the logout link is shown right now. It does not wait.
func (h *Header) IsLoggedIn(ctx context.Context) (bool, error) {
	return h.page.IsVisible(ctx, headerSelectors.LogoutLink)
}
