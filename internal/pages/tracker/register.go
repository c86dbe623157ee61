// File: internal/pages/tracker/register.go
package tracker

import (
	"context"
	"fmt"

	"github.com/magidevv/authflows/internal/browser"
	"github.com/magidevv/authflows/internal/fakedata"
)

// RegisterPath is where the sign-up form lives, relative to the base URL.
const RegisterPath = "account/register"

var registerSelectors = struct {
	LoginLabel                string
	PasswordLabel             string
	PasswordConfirmationLabel string
	FirstNameLabel            string
	LastNameLabel             string
	LoginField                string
	PasswordField             string
	PasswordConfirmationField string
	FirstNameField            string
	LastNameField             string
	EmailField                string
	HideEmailCheckbox         string
	LanguageSelector          string
	OrganizationField         string
	LocationField             string
	IRCField                  string
	SubmitButton              string
	ErrorMessage              string
}{
	LoginLabel:                "label[for=user_login]",
	PasswordLabel:             "label[for=user_password]",
	PasswordConfirmationLabel: "label[for=user_password_confirmation]",
	FirstNameLabel:            "label[for=user_firstname]",
	LastNameLabel:             "label[for=user_lastname]",
	LoginField:                "#user_login",
	PasswordField:             "#user_password",
	PasswordConfirmationField: "#user_password_confirmation",
	FirstNameField:            "#user_firstname",
	LastNameField:             "#user_lastname",
	EmailField:                "#user_mail",
	HideEmailCheckbox:         "#pref_hide_mail",
	LanguageSelector:          "#user_language",
	OrganizationField:         "#user_custom_field_values_5",
	LocationField:             "#user_custom_field_values_6",
	IRCField:                  "#user_custom_field_values_3",
	SubmitButton:              "input[type=submit]",
	ErrorMessage:              "div#errorExplanation > ul > li",
}

// RegistrationForm is the full set of values typed into the sign-up form.
type RegistrationForm struct {
	Login                string
	Password             string
	PasswordConfirmation string
	FirstName            string
	LastName             string
	Email                string
	HideEmail            bool
	Organization         string
	Location             string
	IRC                  string
}

// FormFor builds a complete, valid form from a generated user with the
// e-mail address hidden.
func FormFor(u fakedata.User) RegistrationForm {
	return RegistrationForm{
		Login:                u.Login,
		Password:             u.Password,
		PasswordConfirmation: u.Password,
		FirstName:            u.FirstName,
		LastName:             u.LastName,
		Email:                u.Email,
		HideEmail:            true,
		Organization:         u.Organization,
		Location:             u.Location,
		IRC:                  u.IRC,
	}
}

// RequiredOnly keeps the mandatory fields and blanks the optional ones.
func (f RegistrationForm) RequiredOnly() RegistrationForm {
	f.Organization, f.Location, f.IRC = "", "", ""
	return f
}

// Register is the account sign-up form.
type Register struct {
	page *browser.Page
}

func NewRegister(p *browser.Page) *Register {
	return &Register{page: p}
}

func (r *Register) Open(ctx context.Context) error {
	return r.page.Navigate(ctx, RegisterPath)
}

func (r *Register) LoginField() *browser.Locator    { return r.page.Locator(registerSelectors.LoginField) }
func (r *Register) PasswordField() *browser.Locator { return r.page.Locator(registerSelectors.PasswordField) }
func (r *Register) PasswordConfirmationField() *browser.Locator {
	return r.page.Locator(registerSelectors.PasswordConfirmationField)
}
func (r *Register) FirstNameField() *browser.Locator    { return r.page.Locator(registerSelectors.FirstNameField) }
func (r *Register) LastNameField() *browser.Locator     { return r.page.Locator(registerSelectors.LastNameField) }
func (r *Register) EmailField() *browser.Locator        { return r.page.Locator(registerSelectors.EmailField) }
func (r *Register) HideEmailCheckbox() *browser.Locator { return r.page.Locator(registerSelectors.HideEmailCheckbox) }
func (r *Register) LanguageSelector() *browser.Locator  { return r.page.Locator(registerSelectors.LanguageSelector) }
func (r *Register) OrganizationField() *browser.Locator { return r.page.Locator(registerSelectors.OrganizationField) }
func (r *Register) LocationField() *browser.Locator     { return r.page.Locator(registerSelectors.LocationField) }
func (r *Register) IRCField() *browser.Locator          { return r.page.Locator(registerSelectors.IRCField) }
func (r *Register) SubmitButton() *browser.Locator      { return r.page.Locator(registerSelectors.SubmitButton) }

// ErrorMessage matches every entry of the validation error list.
func (r *Register) ErrorMessage() *browser.Locator { return r.page.Locator(registerSelectors.ErrorMessage) }

func (r *Register) LoginLabel() *browser.Locator    { return r.page.Locator(registerSelectors.LoginLabel) }
func (r *Register) PasswordLabel() *browser.Locator { return r.page.Locator(registerSelectors.PasswordLabel) }
func (r *Register) PasswordConfirmationLabel() *browser.Locator {
	return r.page.Locator(registerSelectors.PasswordConfirmationLabel)
}
func (r *Register) FirstNameLabel() *browser.Locator { return r.page.Locator(registerSelectors.FirstNameLabel) }
func (r *Register) LastNameLabel() *browser.Locator  { return r.page.Locator(registerSelectors.LastNameLabel) }

// Field names a validated input together with its label.
type Field int

const (
	FieldLogin Field = iota
	FieldPassword
	FieldPasswordConfirmation
	FieldFirstName
	FieldLastName
	FieldEmail
)

func (f Field) String() string {
	switch f {
	case FieldLogin:
		return "Login"
	case FieldPassword:
		return "Password"
	case FieldPasswordConfirmation:
		return "Confirmation"
	case FieldFirstName:
		return "First name"
	case FieldLastName:
		return "Last name"
	case FieldEmail:
		return "Email"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// FieldSelectors returns the input and label selectors for f. The e-mail
// field has no label highlight, so its label selector is empty.
func (r *Register) FieldSelectors(f Field) (input, label string) {
	switch f {
	case FieldLogin:
		return registerSelectors.LoginField, registerSelectors.LoginLabel
	case FieldPassword:
		return registerSelectors.PasswordField, registerSelectors.PasswordLabel
	case FieldPasswordConfirmation:
		return registerSelectors.PasswordConfirmationField, registerSelectors.PasswordConfirmationLabel
	case FieldFirstName:
		return registerSelectors.FirstNameField, registerSelectors.FirstNameLabel
	case FieldLastName:
		return registerSelectors.LastNameField, registerSelectors.LastNameLabel
	case FieldEmail:
		return registerSelectors.EmailField, ""
	}
	return "", ""
}

// FormSelectors lists every control of the sign-up form, in page order.
func (r *Register) FormSelectors() []string {
	return []string{
		registerSelectors.LoginField,
		registerSelectors.PasswordField,
		registerSelectors.PasswordConfirmationField,
		registerSelectors.FirstNameField,
		registerSelectors.LastNameField,
		registerSelectors.EmailField,
		registerSelectors.HideEmailCheckbox,
		registerSelectors.LanguageSelector,
		registerSelectors.OrganizationField,
		registerSelectors.LocationField,
		registerSelectors.IRCField,
		registerSelectors.SubmitButton,
	}
}

func (r *Register) ErrorMessageSelector() string     { return registerSelectors.ErrorMessage }
func (r *Register) LanguageSelectorSelector() string { return registerSelectors.LanguageSelector }

// FillRegistrationForm types every text field in form order. The hide-email
// box is only touched when form.HideEmail is set.
func (r *Register) FillRegistrationForm(ctx context.Context, form RegistrationForm) error {
	steps := []struct {
		sel   string
		value string
	}{
		{registerSelectors.LoginField, form.Login},
		{registerSelectors.PasswordField, form.Password},
		{registerSelectors.PasswordConfirmationField, form.PasswordConfirmation},
		{registerSelectors.FirstNameField, form.FirstName},
		{registerSelectors.LastNameField, form.LastName},
		{registerSelectors.EmailField, form.Email},
	}
	for _, s := range steps {
		if err := r.page.Fill(ctx, s.sel, s.value); err != nil {
			return err
		}
	}
	if form.HideEmail {
		if err := r.page.Check(ctx, registerSelectors.HideEmailCheckbox); err != nil {
			return err
		}
	}
	for _, s := range []struct {
		sel   string
		value string
	}{
		{registerSelectors.OrganizationField, form.Organization},
		{registerSelectors.LocationField, form.Location},
		{registerSelectors.IRCField, form.IRC},
	} {
		if err := r.page.Fill(ctx, s.sel, s.value); err != nil {
			return err
		}
	}
	return nil
}

func (r *Register) FillLoginField(ctx context.Context, login string) error {
	return r.page.Fill(ctx, registerSelectors.LoginField, login)
}

func (r *Register) FillPasswordField(ctx context.Context, password string) error {
	return r.page.Fill(ctx, registerSelectors.PasswordField, password)
}

func (r *Register) FillPasswordConfirmationField(ctx context.Context, password string) error {
	return r.page.Fill(ctx, registerSelectors.PasswordConfirmationField, password)
}

func (r *Register) FillFirstNameField(ctx context.Context, firstName string) error {
	return r.page.Fill(ctx, registerSelectors.FirstNameField, firstName)
}

func (r *Register) FillLastNameField(ctx context.Context, lastName string) error {
	return r.page.Fill(ctx, registerSelectors.LastNameField, lastName)
}

func (r *Register) FillEmailField(ctx context.Context, email string) error {
	return r.page.Fill(ctx, registerSelectors.EmailField, email)
}

// FillPasswords refills both password inputs, which the server clears after
// every rejected submit.
func (r *Register) FillPasswords(ctx context.Context, password, confirmation string) error {
	if err := r.FillPasswordField(ctx, password); err != nil {
		return err
	}
	return r.FillPasswordConfirmationField(ctx, confirmation)
}

func (r *Register) ClickSubmitButton(ctx context.Context) error {
	return r.page.ClickAndWaitForNavigation(ctx, registerSelectors.SubmitButton)
}
