// File: internal/fixtures/fixtures.go
package fixtures

import (
	"github.com/magidevv/authflows/internal/browser"
	"github.com/magidevv/authflows/internal/pages/portal"
	"github.com/magidevv/authflows/internal/pages/tracker"
)

// Tracker is the page-object set for one tracker scenario. Every page object
// is created on first use and bound to the scenario's page.
type Tracker struct {
	Page *browser.Page

	header    *Lazy[*tracker.Header]
	login     *Lazy[*tracker.Login]
	register  *Lazy[*tracker.Register]
	myAccount *Lazy[*tracker.MyAccount]
	user      *Lazy[*tracker.User]
}

func NewTracker(p *browser.Page) *Tracker {
	return &Tracker{
		Page:      p,
		header:    NewLazy(func() *tracker.Header { return tracker.NewHeader(p) }),
		login:     NewLazy(func() *tracker.Login { return tracker.NewLogin(p) }),
		register:  NewLazy(func() *tracker.Register { return tracker.NewRegister(p) }),
		myAccount: NewLazy(func() *tracker.MyAccount { return tracker.NewMyAccount(p) }),
		user:      NewLazy(func() *tracker.User { return tracker.NewUser(p) }),
	}
}

func (f *Tracker) Header() *tracker.Header       { return f.header.Get() }
func (f *Tracker) Login() *tracker.Login         { return f.login.Get() }
func (f *Tracker) Register() *tracker.Register   { return f.register.Get() }
func (f *Tracker) MyAccount() *tracker.MyAccount { return f.myAccount.Get() }
func (f *Tracker) User() *tracker.User           { return f.user.Get() }

// Portal is the page-object set for one portal scenario.
type Portal struct {
	Page *browser.Page

	main    *Lazy[*portal.Main]
	header  *Lazy[*portal.Header]
	signIn  *Lazy[*portal.SignIn]
	profile *Lazy[*portal.Profile]
	footer  *Lazy[*portal.Footer]
}

func NewPortal(p *browser.Page) *Portal {
	return &Portal{
		Page:    p,
		main:    NewLazy(func() *portal.Main { return portal.NewMain(p) }),
		header:  NewLazy(func() *portal.Header { return portal.NewHeader(p) }),
		signIn:  NewLazy(func() *portal.SignIn { return portal.NewSignIn(p) }),
		profile: NewLazy(func() *portal.Profile { return portal.NewProfile(p) }),
		footer:  NewLazy(func() *portal.Footer { return portal.NewFooter(p) }),
	}
}

func (f *Portal) Main() *portal.Main       { return f.main.Get() }
func (f *Portal) Header() *portal.Header   { return f.header.Get() }
func (f *Portal) SignIn() *portal.SignIn   { return f.signIn.Get() }
func (f *Portal) Profile() *portal.Profile { return f.profile.Get() }
func (f *Portal) Footer() *portal.Footer   { return f.footer.Get() }
