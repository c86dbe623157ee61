// File: internal/pages/portal/footer.go
package portal

import (
	"context"

	"github.com/magidevv/authflows/internal/browser"
)

var footerSelectors = struct {
	Links     string
	Copyright string
}{
	Links:     "footer nav a",
	Copyright: "footer .copyright",
}

// DefaultFooterLinks are the link texts the footer renders, in order.
var DefaultFooterLinks = []string{"About", "Privacy", "Terms", "Contact"}

// Footer is the page footer shown on every portal page.
type Footer struct {
	page   *browser.Page
	verify *browser.Verifier
}

func NewFooter(p *browser.Page) *Footer {
	return &Footer{page: p, verify: p.Expect()}
}

func (f *Footer) VerifyLinks(ctx context.Context, texts []string) error {
	return f.verify.VerifyTexts(ctx, footerSelectors.Links, texts)
}

func (f *Footer) VerifyCopyright(ctx context.Context, holder string) error {
	return f.verify.AssertAllContainText(ctx, footerSelectors.Copyright, holder)
}

func (f *Footer) ClickLink(ctx context.Context, text string) error {
	return f.page.ClickByText(ctx, footerSelectors.Links, text)
}
