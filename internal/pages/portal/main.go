// File: internal/pages/portal/main.go
package portal

import (
	"context"

	"github.com/magidevv/authflows/internal/browser"
)

var mainSelectors = struct {
	Title   string
	Tagline string
}{
	Title:   "h1.hero-title",
	Tagline: "p.hero-tagline",
}

// Main is the landing page.
type Main struct {
	page   *browser.Page
	verify *browser.Verifier
}

func NewMain(p *browser.Page) *Main {
	return &Main{page: p, verify: p.Expect()}
}

// GoTo opens the landing page.
func (m *Main) GoTo(ctx context.Context) error {
	return m.page.Navigate(ctx, "")
}

// VerifyOpened waits for the landing page to render.
func (m *Main) VerifyOpened(ctx context.Context) error {
	if err := m.verify.VerifyURL(ctx, browser.Exact(m.page.URL(""))); err != nil {
		return err
	}
	return m.verify.VerifyVisible(ctx, mainSelectors.Title, true, 0)
}

func (m *Main) VerifyTitle(ctx context.Context, title string) error {
	return m.verify.VerifyText(ctx, mainSelectors.Title, browser.Exact(title), true)
}
