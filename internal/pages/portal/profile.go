// File: internal/pages/portal/profile.go
package portal

import (
	"context"

	"github.com/magidevv/authflows/internal/browser"
)

// ProfilePath is the signed-in user's profile page.
const ProfilePath = "profile"

var profileSelectors = struct {
	Heading  string
	Username string
	Email    string
	Since    string
}{
	Heading:  "h1.profile-name",
	Username: "dd.profile-username",
	Email:    "dd.profile-email",
	Since:    "dd.profile-since",
}

// Profile shows the account details of the signed-in user.
type Profile struct {
	page   *browser.Page
	verify *browser.Verifier
}

func NewProfile(p *browser.Page) *Profile {
	return &Profile{page: p, verify: p.Expect()}
}

func (p *Profile) GoTo(ctx context.Context) error {
	return p.page.Navigate(ctx, ProfilePath)
}

func (p *Profile) VerifyOpened(ctx context.Context) error {
	if err := p.verify.VerifyURL(ctx, browser.MatchesPattern(`/`+ProfilePath+`$`)); err != nil {
		return err
	}
	return p.verify.VerifyVisible(ctx, profileSelectors.Heading, true, 0)
}

func (p *Profile) VerifyUsername(ctx context.Context, username string) error {
	return p.verify.VerifyText(ctx, profileSelectors.Username, browser.Exact(username), true)
}

// VerifyMemberSince waits for the registration date, formatted YYYY-MM-DD.
func (p *Profile) VerifyMemberSince(ctx context.Context, date string) error {
	return p.verify.VerifyText(ctx, profileSelectors.Since, browser.Exact(date), true)
}

func (p *Profile) VerifyEmailAttribute(ctx context.Context, email string) error {
	return p.verify.VerifyAttribute(ctx, profileSelectors.Email, "data-email", email)
}
