// File: internal/pages/tracker/user.go
package tracker

import (
	"context"
	"fmt"

	"github.com/magidevv/authflows/internal/browser"
)

var userSelectors = struct {
	Name             string
	Avatar           string
	Username         string
	Email            string
	IRC              string
	RegistrationDate string
	LastLogin        string
}{
	Name:             "h2",
	Avatar:           "img.gravatar",
	Username:         "ul > li:nth-of-type(1)",
	Email:            "ul > li > a[href^='mailto:']",
	IRC:              "li.string_cf.cf_3",
	RegistrationDate: "ul > li:nth-of-type(4)",
	LastLogin:        "ul > li:nth-of-type(5)",
}

// User is the read-only public profile of an account.
type User struct {
	page *browser.Page
}

func NewUser(p *browser.Page) *User {
	return &User{page: p}
}

// Open loads the profile of the user with the given id.
func (u *User) Open(ctx context.Context, id int) error {
	return u.page.Navigate(ctx, fmt.Sprintf("users/%d", id))
}

func (u *User) Name() *browser.Locator             { return u.page.Locator(userSelectors.Name) }
func (u *User) Avatar() *browser.Locator           { return u.page.Locator(userSelectors.Avatar) }
func (u *User) Username() *browser.Locator         { return u.page.Locator(userSelectors.Username) }
func (u *User) Email() *browser.Locator            { return u.page.Locator(userSelectors.Email) }
func (u *User) IRC() *browser.Locator              { return u.page.Locator(userSelectors.IRC) }
func (u *User) RegistrationDate() *browser.Locator { return u.page.Locator(userSelectors.RegistrationDate) }
func (u *User) LastLogin() *browser.Locator        { return u.page.Locator(userSelectors.LastLogin) }

func (u *User) NameSelector() string             { return userSelectors.Name }
func (u *User) UsernameSelector() string         { return userSelectors.Username }
func (u *User) RegistrationDateSelector() string { return userSelectors.RegistrationDate }
