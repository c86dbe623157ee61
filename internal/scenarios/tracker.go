package scenarios

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magidevv/authflows/internal/browser"
	"github.com/magidevv/authflows/internal/config"
	"github.com/magidevv/authflows/internal/fakedata"
	"github.com/magidevv/authflows/internal/fixtures"
	"github.com/magidevv/authflows/internal/messages"
	"github.com/magidevv/authflows/internal/pages/tracker"
)

// TrackerSuite is a suite over the tracker page-object set.
type TrackerSuite = Suite[*fixtures.Tracker]

// TrackerEntries returns every tracker scenario.
func TrackerEntries() []Entry {
	return Join(LoginSuite().Entries(), RegistrationSuite().Entries())
}

// LoginSuite covers signing in and out with the configured test account.
func LoginSuite() TrackerSuite {
	return TrackerSuite{
		Name:       "Login",
		App:        config.AppTracker,
		Fixtures:   fixtures.NewTracker,
		BeforeEach: openMainPage,
		AfterEach:  logoutIfLoggedIn,
		Cases: []Case[*fixtures.Tracker]{
			{Name: "valid credentials", Run: loginWithValidCredentials},
			{Name: "invalid credentials", Run: loginWithInvalidCredentials},
			{Name: "my account shows own username", Run: myAccountShowsUsername},
		},
	}
}

// RegistrationSuite covers the sign-up form: one successful registration and
// the validation of each mandatory field.
func RegistrationSuite() TrackerSuite {
	return TrackerSuite{
		Name:       "Registration",
		App:        config.AppTracker,
		Fixtures:   fixtures.NewTracker,
		BeforeEach: openMainPage,
		AfterEach:  logoutIfLoggedIn,
		Cases: []Case[*fixtures.Tracker]{
			{Name: "valid data", Run: registerWithValidData},
			{Name: "invalid login", Run: registerWithInvalidLogin},
			{Name: "invalid password", Run: registerWithInvalidPassword},
			{Name: "confirmation mismatch", Run: registerWithConfirmationMismatch},
			{Name: "invalid first name", Run: registerWithInvalidFirstName},
			{Name: "invalid last name", Run: registerWithInvalidLastName},
			{Name: "invalid email", Run: registerWithInvalidEmail},
		},
	}
}

// -- Hooks --

func openMainPage(s *Scenario, f *fixtures.Tracker) {
	s.Step("Navigate to the main page", func(ctx context.Context) error {
		return f.Header().Open(ctx)
	})
}

// logoutIfLoggedIn leaves the session logged out. On a logged-out page it
// does nothing.
func logoutIfLoggedIn(s *Scenario, f *fixtures.Tracker) {
	s.Step("Logout if user is logged in", func(ctx context.Context) error {
		loggedIn, err := f.Header().IsLoggedIn(ctx)
		if err != nil {
			return err
		}
		if !loggedIn {
			return nil
		}
		if err := f.Header().ClickLogoutLink(ctx); err != nil {
			return err
		}
		v := s.Expect()
		if err := v.VerifyURL(ctx, browser.Exact(s.Config().Target().BaseURL)); err != nil {
			return err
		}
		return v.VerifyVisible(ctx, f.Header().LoginLink().Selector(), true, 0)
	})
}

// -- Login --

func openLoginForm(s *Scenario, f *fixtures.Tracker) {
	s.Step("Verify login link is visible", func(ctx context.Context) error {
		return s.Expect().VerifyVisible(ctx, f.Header().LoginLink().Selector(), true, 0)
	})
	s.Step("Click login link", func(ctx context.Context) error {
		if err := f.Header().ClickLoginLink(ctx); err != nil {
			return err
		}
		return s.Expect().VerifyURL(ctx, browser.MatchesPattern(`/`+tracker.LoginPath+`$`))
	})
}

func logInAsTestUser(s *Scenario, f *fixtures.Tracker) {
	target := s.Config().Target()
	openLoginForm(s, f)
	s.Step("Fill and submit login form", func(ctx context.Context) error {
		return f.Login().LogIn(ctx, target.Username, target.Password)
	})
	verifySuccessfulLogin(s, f)
}

func verifySuccessfulLogin(s *Scenario, f *fixtures.Tracker) {
	target := s.Config().Target()
	s.Step("Verify successful login", func(ctx context.Context) error {
		v := s.Expect()
		if err := v.VerifyURL(ctx, browser.Exact(target.BaseURL)); err != nil {
			return err
		}
		sel := f.Header().LoggedAsUserLink().Selector()
		if err := v.VerifyVisible(ctx, sel, true, 0); err != nil {
			return err
		}
		return v.VerifyContainsText(ctx, sel, target.Username)
	})
}

func loginWithValidCredentials(s *Scenario, f *fixtures.Tracker) {
	target := s.Config().Target()
	openLoginForm(s, f)
	s.Step("Verify login form elements are visible", func(ctx context.Context) error {
		return verifyAllVisible(ctx, s.Expect(), f.Login().FormSelectors())
	})
	s.Step("Fill and submit login form", func(ctx context.Context) error {
		if err := f.Login().FillLoginForm(ctx, target.Username, target.Password); err != nil {
			return err
		}
		return f.Login().ClickLoginButton(ctx)
	})
	verifySuccessfulLogin(s, f)
}

func loginWithInvalidCredentials(s *Scenario, f *fixtures.Tracker) {
	target := s.Config().Target()
	openLoginForm(s, f)
	s.Step("Fill and submit login form with a wrong password", func(ctx context.Context) error {
		return f.Login().LogIn(ctx, target.Username, fakedata.RandomString(12))
	})
	s.Step("Verify error message", func(ctx context.Context) error {
		v := s.Expect()
		if err := v.VerifyURL(ctx, browser.MatchesPattern(`/`+tracker.LoginPath+`$`)); err != nil {
			return err
		}
		sel := f.Login().ErrorMessageSelector()
		if err := v.VerifyVisible(ctx, sel, true, 0); err != nil {
			return err
		}
		return v.VerifyText(ctx, sel, browser.Exact(messages.Get(messages.InvalidCredentials)), true)
	})
	s.Step("Verify user is not logged in", func(ctx context.Context) error {
		loggedIn, err := f.Header().IsLoggedIn(ctx)
		require.NoError(s, err)
		assert.False(s, loggedIn, "logout link must not be shown after a failed login")
		return nil
	})
}

func myAccountShowsUsername(s *Scenario, f *fixtures.Tracker) {
	logInAsTestUser(s, f)
	s.Step("Open my account page", func(ctx context.Context) error {
		if err := f.Header().ClickMyAccountLink(ctx); err != nil {
			return err
		}
		return s.Expect().VerifyURL(ctx, browser.MatchesPattern(`/`+tracker.MyAccountPath+`$`))
	})
	s.Step("Verify username in the sidebar", func(ctx context.Context) error {
		text, err := f.MyAccount().Username().TextContent(ctx)
		require.NoError(s, err)
		assert.Contains(s, text, s.Config().Target().Username)
		return nil
	})
	s.Step("Open public profile", func(ctx context.Context) error {
		if err := f.MyAccount().ClickUsername(ctx); err != nil {
			return err
		}
		return s.Expect().VerifyURL(ctx, browser.MatchesPattern(`/users/\d+$`))
	})
	s.Step("Verify public profile", func(ctx context.Context) error {
		v := s.Expect()
		if err := v.VerifyContainsText(ctx, f.User().UsernameSelector(), s.Config().Target().Username); err != nil {
			return err
		}
		return v.VerifyVisible(ctx, f.User().RegistrationDateSelector(), true, 0)
	})
}

// -- Registration --

func openRegistrationForm(s *Scenario, f *fixtures.Tracker) {
	s.Step("Click registration link", func(ctx context.Context) error {
		if err := f.Header().ClickRegisterLink(ctx); err != nil {
			return err
		}
		return s.Expect().VerifyURL(ctx, browser.MatchesPattern(`/`+tracker.RegisterPath))
	})
}

func registerWithValidData(s *Scenario, f *fixtures.Tracker) {
	s.Step("Verify registration link is visible", func(ctx context.Context) error {
		return s.Expect().VerifyVisible(ctx, f.Header().RegisterLink().Selector(), true, 0)
	})
	openRegistrationForm(s, f)
	s.Step("Verify registration form elements are visible", func(ctx context.Context) error {
		return verifyAllVisible(ctx, s.Expect(), f.Register().FormSelectors())
	})
	s.Step("Verify selected language", func(ctx context.Context) error {
		return s.Expect().VerifyValue(ctx, f.Register().LanguageSelectorSelector(), s.Config().Target().Locale)
	})

	user := fakedata.GenerateUser()
	s.Step("Fill registration form", func(ctx context.Context) error {
		s.Attach("Generated User Data", "application/json", user.JSON())
		return f.Register().FillRegistrationForm(ctx, tracker.FormFor(user))
	})
	s.Step("Submit registration form", f.Register().ClickSubmitButton)
	s.Step("Verify successful registration", func(ctx context.Context) error {
		v := s.Expect()
		if err := v.VerifyURL(ctx, browser.MatchesPattern(`/`+tracker.LoginPath+`$`)); err != nil {
			return err
		}
		sel := f.Login().SuccessMessageSelector()
		if err := v.VerifyVisible(ctx, sel, true, 0); err != nil {
			return err
		}
		return v.VerifyText(ctx, sel, browser.Exact(messages.RegistrationSuccess(user.Email)), true)
	})
}

// invalidInput is one rejected value for a field: how to type it and which
// messages the form must show afterwards, in order.
type invalidInput struct {
	step string
	fill func(ctx context.Context, r *tracker.Register) error
	want []messages.Key
}

// withValidPasswords refills both password inputs before typing the value
// under test, since the form clears them on every rejected submit.
func withValidPasswords(u fakedata.User, field tracker.Field, what string, fill func(ctx context.Context, r *tracker.Register) error, want ...messages.Key) invalidInput {
	return invalidInput{
		step: fmt.Sprintf("Fill 'Password' and 'Confirmation' fields with valid data and '%s' field with %s", field, what),
		fill: func(ctx context.Context, r *tracker.Register) error {
			if err := r.FillPasswords(ctx, u.Password, u.Password); err != nil {
				return err
			}
			return fill(ctx, r)
		},
		want: want,
	}
}

// blankField returns form with field emptied. Emptying the password also
// empties its confirmation.
func blankField(form tracker.RegistrationForm, field tracker.Field) tracker.RegistrationForm {
	switch field {
	case tracker.FieldLogin:
		form.Login = ""
	case tracker.FieldPassword:
		form.Password, form.PasswordConfirmation = "", ""
	case tracker.FieldPasswordConfirmation:
		form.PasswordConfirmation = ""
	case tracker.FieldFirstName:
		form.FirstName = ""
	case tracker.FieldLastName:
		form.LastName = ""
	case tracker.FieldEmail:
		form.Email = ""
	}
	return form
}

// fieldValidation drives the common shape of the negative registration
// scenarios: submit with only field missing, then try each invalid input.
type fieldValidation struct {
	field tracker.Field
	// highlighted is the field whose input and label turn red. It differs
	// from field for the confirmation, where the password is flagged.
	highlighted tracker.Field
	highlight   bool
	blankWant   []messages.Key
	inputs      func(u fakedata.User) []invalidInput
}

func (fv fieldValidation) run(s *Scenario, f *fixtures.Tracker) {
	openRegistrationForm(s, f)

	user := fakedata.GenerateUser()
	s.Attach("Generated User Data", "application/json", user.JSON())
	r := f.Register()

	s.Step(fmt.Sprintf("Fill all fields except the '%s' field with valid data", fv.field), func(ctx context.Context) error {
		return r.FillRegistrationForm(ctx, blankField(tracker.FormFor(user).RequiredOnly(), fv.field))
	})
	fv.submitAndVerify(s, r, fv.blankWant)

	for _, in := range fv.inputs(user) {
		in := in
		s.Step(in.step, func(ctx context.Context) error { return in.fill(ctx, r) })
		fv.submitAndVerify(s, r, in.want)
	}
}

func (fv fieldValidation) submitAndVerify(s *Scenario, r *tracker.Register, want []messages.Key) {
	s.Step("Submit registration form", r.ClickSubmitButton)

	texts := make([]string, len(want))
	for i, k := range want {
		texts[i] = messages.Get(k)
	}
	s.Step("Verify error message", func(ctx context.Context) error {
		v := s.Expect()
		sel := r.ErrorMessageSelector()
		if err := v.VerifyVisible(ctx, sel, true, 0); err != nil {
			return err
		}
		return v.VerifyTexts(ctx, sel, texts)
	})

	if !fv.highlight {
		return
	}
	s.Step(fmt.Sprintf("Verify '%s' field and its label are highlighted in red", fv.highlighted), func(ctx context.Context) error {
		return verifyHighlighted(ctx, s, r, fv.highlighted)
	})
}

// verifyHighlighted checks the label text color and the input border color
// against the configured highlight color.
func verifyHighlighted(ctx context.Context, s *Scenario, r *tracker.Register, field tracker.Field) error {
	color := s.Config().Assertions().HighlightColor
	input, label := r.FieldSelectors(field)
	v := s.Expect()
	if label != "" {
		if err := v.VerifyCSS(ctx, label, "color", color); err != nil {
			return err
		}
	}
	return v.VerifyCSS(ctx, input, "border-color", color)
}

const spaces = "     "

func registerWithInvalidLogin(s *Scenario, f *fixtures.Tracker) {
	fieldValidation{
		field:       tracker.FieldLogin,
		highlighted: tracker.FieldLogin,
		highlight:   true,
		blankWant:   []messages.Key{messages.BlankLogin},
		inputs: func(u fakedata.User) []invalidInput {
			fill := func(v string) func(ctx context.Context, r *tracker.Register) error {
				return func(ctx context.Context, r *tracker.Register) error { return r.FillLoginField(ctx, v) }
			}
			return []invalidInput{
				withValidPasswords(u, tracker.FieldLogin, "long string", fill(fakedata.RandomString(61)), messages.LongLogin),
				withValidPasswords(u, tracker.FieldLogin, "symbols", fill(fakedata.RandomSymbols(5)), messages.InvalidLogin),
				withValidPasswords(u, tracker.FieldLogin, "spaces", fill(spaces), messages.BlankLogin, messages.InvalidLogin),
				withValidPasswords(u, tracker.FieldLogin, "leading/trailing spaces", fill(" "+u.Login+" "), messages.InvalidLogin),
			}
		},
	}.run(s, f)
}

func registerWithInvalidPassword(s *Scenario, f *fixtures.Tracker) {
	fieldValidation{
		field:       tracker.FieldPassword,
		highlighted: tracker.FieldPassword,
		highlight:   true,
		blankWant:   []messages.Key{messages.ShortPassword},
		inputs: func(u fakedata.User) []invalidInput {
			short := fakedata.RandomString(7)
			return []invalidInput{{
				step: "Fill 'Confirmation' field with valid data and 'Password' field with short string",
				fill: func(ctx context.Context, r *tracker.Register) error {
					if err := r.FillPasswordConfirmationField(ctx, short); err != nil {
						return err
					}
					return r.FillPasswordField(ctx, short)
				},
				want: []messages.Key{messages.ShortPassword},
			}}
		},
	}.run(s, f)
}

func registerWithConfirmationMismatch(s *Scenario, f *fixtures.Tracker) {
	fieldValidation{
		field:       tracker.FieldPasswordConfirmation,
		highlighted: tracker.FieldPassword,
		highlight:   true,
		blankWant:   []messages.Key{messages.ConfirmationMismatch},
		inputs: func(u fakedata.User) []invalidInput {
			return []invalidInput{{
				step: "Fill 'Password' and 'Confirmation' fields with different data",
				fill: func(ctx context.Context, r *tracker.Register) error {
					return r.FillPasswords(ctx, u.Password, fakedata.RandomString(10))
				},
				want: []messages.Key{messages.ConfirmationMismatch},
			}}
		},
	}.run(s, f)
}

func registerWithInvalidFirstName(s *Scenario, f *fixtures.Tracker) {
	fieldValidation{
		field:       tracker.FieldFirstName,
		highlighted: tracker.FieldFirstName,
		highlight:   true,
		blankWant:   []messages.Key{messages.BlankFirstName},
		inputs: func(u fakedata.User) []invalidInput {
			fill := func(v string) func(ctx context.Context, r *tracker.Register) error {
				return func(ctx context.Context, r *tracker.Register) error { return r.FillFirstNameField(ctx, v) }
			}
			return []invalidInput{
				withValidPasswords(u, tracker.FieldFirstName, "long string", fill(fakedata.RandomString(31)), messages.LongFirstName),
				withValidPasswords(u, tracker.FieldFirstName, "spaces", fill(spaces), messages.BlankFirstName),
			}
		},
	}.run(s, f)
}

func registerWithInvalidLastName(s *Scenario, f *fixtures.Tracker) {
	fieldValidation{
		field:       tracker.FieldLastName,
		highlighted: tracker.FieldLastName,
		highlight:   true,
		blankWant:   []messages.Key{messages.BlankLastName},
		inputs: func(u fakedata.User) []invalidInput {
			fill := func(v string) func(ctx context.Context, r *tracker.Register) error {
				return func(ctx context.Context, r *tracker.Register) error { return r.FillLastNameField(ctx, v) }
			}
			return []invalidInput{
				withValidPasswords(u, tracker.FieldLastName, "long string", fill(fakedata.RandomString(31)), messages.LongLastName),
				withValidPasswords(u, tracker.FieldLastName, "spaces", fill(spaces), messages.BlankLastName),
			}
		},
	}.run(s, f)
}

func registerWithInvalidEmail(s *Scenario, f *fixtures.Tracker) {
	fieldValidation{
		field:     tracker.FieldEmail,
		blankWant: []messages.Key{messages.BlankEmail},
		inputs: func(u fakedata.User) []invalidInput {
			fill := func(v string) func(ctx context.Context, r *tracker.Register) error {
				return func(ctx context.Context, r *tracker.Register) error { return r.FillEmailField(ctx, v) }
			}
			inputs := []invalidInput{
				withValidPasswords(u, tracker.FieldEmail, "long string", fill(fakedata.RandomString(61)+"@domain.com"), messages.LongEmail),
			}
			for _, email := range fakedata.InvalidEmailFormats {
				inputs = append(inputs, withValidPasswords(u, tracker.FieldEmail, fmt.Sprintf("invalid format %q", email), fill(email), messages.InvalidEmail))
			}
			return append(inputs, withValidPasswords(u, tracker.FieldEmail, "spaces", fill(spaces), messages.BlankEmail))
		},
	}.run(s, f)
}

func verifyAllVisible(ctx context.Context, v *browser.Verifier, selectors []string) error {
	for _, sel := range selectors {
		if err := v.VerifyVisible(ctx, sel, true, 0); err != nil {
			return err
		}
	}
	return nil
}
