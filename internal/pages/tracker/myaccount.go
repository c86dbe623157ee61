// File: internal/pages/tracker/myaccount.go
package tracker

import (
	"context"

	"github.com/magidevv/authflows/internal/browser"
)

// MyAccountPath is the signed-in user's settings page.
const MyAccountPath = "my/account"

var myAccountSelectors = struct {
	Avatar           string
	FirstName        string
	LastName         string
	Email            string
	IRC              string
	Username         string
	RegistrationDate string
}{
	Avatar:           "img.gravatar",
	FirstName:        "input#user_firstname",
	LastName:         "input#user_lastname",
	Email:            "input#user_mail",
	IRC:              "input#user_custom_field_values_3",
	Username:         "div#sidebar a.user.active",
	RegistrationDate: "div#sidebar",
}

// MyAccount is the account settings page of the signed-in user.
type MyAccount struct {
	page *browser.Page
}

func NewMyAccount(p *browser.Page) *MyAccount {
	return &MyAccount{page: p}
}

func (m *MyAccount) Open(ctx context.Context) error {
	return m.page.Navigate(ctx, MyAccountPath)
}

func (m *MyAccount) Avatar() *browser.Locator    { return m.page.Locator(myAccountSelectors.Avatar) }
func (m *MyAccount) FirstName() *browser.Locator { return m.page.Locator(myAccountSelectors.FirstName) }
func (m *MyAccount) LastName() *browser.Locator  { return m.page.Locator(myAccountSelectors.LastName) }
func (m *MyAccount) Email() *browser.Locator     { return m.page.Locator(myAccountSelectors.Email) }
func (m *MyAccount) IRC() *browser.Locator       { return m.page.Locator(myAccountSelectors.IRC) }

// Username is the sidebar link to the public profile.
func (m *MyAccount) Username() *browser.Locator { return m.page.Locator(myAccountSelectors.Username) }

// RegistrationDate is the sidebar block that carries the "Registered on" line.
func (m *MyAccount) RegistrationDate() *browser.Locator {
	return m.page.Locator(myAccountSelectors.RegistrationDate)
}

func (m *MyAccount) UsernameSelector() string         { return myAccountSelectors.Username }
func (m *MyAccount) RegistrationDateSelector() string { return myAccountSelectors.RegistrationDate }

func (m *MyAccount) ClickUsername(ctx context.Context) error {
	return m.page.Click(ctx, myAccountSelectors.Username)
}
