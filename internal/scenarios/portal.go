package scenarios

import (
	"context"

	"github.com/magidevv/authflows/internal/browser"
	"github.com/magidevv/authflows/internal/config"
	"github.com/magidevv/authflows/internal/fakedata"
	"github.com/magidevv/authflows/internal/fixtures"
	"github.com/magidevv/authflows/internal/messages"
	"github.com/magidevv/authflows/internal/pages/portal"
)

// PortalSuite is a suite over the portal page-object set.
type PortalSuite = Suite[*fixtures.Portal]

// PortalEntries returns every portal scenario.
func PortalEntries() []Entry {
	return SignInSuite().Entries()
}

// SignInSuite covers the portal's sign-in and sign-out flows.
func SignInSuite() PortalSuite {
	return PortalSuite{
		Name:     "Portal",
		App:      config.AppPortal,
		Fixtures: fixtures.NewPortal,
		BeforeEach: func(s *Scenario, f *fixtures.Portal) {
			s.Step("Open the main page", func(ctx context.Context) error {
				if err := f.Main().GoTo(ctx); err != nil {
					return err
				}
				return f.Main().VerifyOpened(ctx)
			})
		},
		AfterEach: signOutIfSignedIn,
		Cases: []Case[*fixtures.Portal]{
			{Name: "sign in with valid credentials", Run: portalSignIn},
			{Name: "sign in with a wrong password", Run: portalSignInRejected},
			{Name: "sign out", Run: portalSignOut},
			{Name: "footer links", Run: portalFooter},
		},
	}
}

func signOutIfSignedIn(s *Scenario, f *fixtures.Portal) {
	s.Step("Sign out if signed in", func(ctx context.Context) error {
		signedIn, err := f.Header().IsSignedIn(ctx)
		if err != nil || !signedIn {
			return err
		}
		if err := f.Header().ClickSignOut(ctx); err != nil {
			return err
		}
		return f.Header().VerifySignedOut(ctx)
	})
}

func signInAsTestUser(s *Scenario, f *fixtures.Portal) {
	target := s.Config().Target()
	s.Step("Click sign-in link", func(ctx context.Context) error {
		if err := f.Header().ClickSignInLink(ctx); err != nil {
			return err
		}
		return f.SignIn().VerifyOpened(ctx)
	})
	s.Step("Submit credentials", func(ctx context.Context) error {
		return f.SignIn().SignIn(ctx, target.Username, target.Password)
	})
	s.Step("Verify user is signed in", func(ctx context.Context) error {
		return f.Header().VerifySignedInAs(ctx, target.Username)
	})
}

func portalSignIn(s *Scenario, f *fixtures.Portal) {
	signInAsTestUser(s, f)
	s.Step("Verify profile page", func(ctx context.Context) error {
		if err := f.Profile().VerifyOpened(ctx); err != nil {
			return err
		}
		return f.Profile().VerifyUsername(ctx, s.Config().Target().Username)
	})
}

func portalSignInRejected(s *Scenario, f *fixtures.Portal) {
	target := s.Config().Target()
	s.Step("Open sign-in page", func(ctx context.Context) error {
		if err := f.SignIn().GoTo(ctx); err != nil {
			return err
		}
		return f.SignIn().VerifyOpened(ctx)
	})
	s.Step("Submit a wrong password", func(ctx context.Context) error {
		return f.SignIn().SignIn(ctx, target.Username, fakedata.RandomString(12))
	})
	s.Step("Verify error banner", func(ctx context.Context) error {
		if err := f.SignIn().VerifyError(ctx, messages.Get(messages.InvalidCredentials)); err != nil {
			return err
		}
		return f.SignIn().VerifyUsername(ctx, target.Username)
	})
	s.Step("Verify user is signed out", func(ctx context.Context) error {
		return f.Header().VerifySignedOut(ctx)
	})
}

func portalSignOut(s *Scenario, f *fixtures.Portal) {
	signInAsTestUser(s, f)
	s.Step("Click sign out", func(ctx context.Context) error {
		return f.Header().ClickSignOut(ctx)
	})
	s.Step("Verify user is signed out", func(ctx context.Context) error {
		if err := f.Header().VerifySignedOut(ctx); err != nil {
			return err
		}
		return f.Main().VerifyOpened(ctx)
	})
}

func portalFooter(s *Scenario, f *fixtures.Portal) {
	s.Step("Verify footer links", func(ctx context.Context) error {
		return f.Footer().VerifyLinks(ctx, portal.DefaultFooterLinks)
	})
	s.Step("Verify copyright notice", func(ctx context.Context) error {
		return f.Footer().VerifyCopyright(ctx, "Authflows Portal")
	})
	s.Step("Open the privacy page", func(ctx context.Context) error {
		if err := f.Footer().ClickLink(ctx, "Privacy"); err != nil {
			return err
		}
		return s.Expect().VerifyURL(ctx, browser.MatchesPattern(`/privacy$`))
	})
}
