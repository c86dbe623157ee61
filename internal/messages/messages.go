// File: internal/messages/messages.go
package messages

import (
	"fmt"
	"sort"
)

// Locale identifies a language of the application under test.
type Locale string

// Key names a message the application renders.
type Key string

const English Locale = "en"

// Validation and flash messages.
const (
	InvalidCredentials     Key = "invalidCredentials"
	BlankEmail             Key = "blankEmail"
	BlankLogin             Key = "blankLogin"
	BlankFirstName         Key = "blankFirstName"
	BlankLastName          Key = "blankLastName"
	ShortPassword          Key = "shortPassword"
	LongLogin              Key = "longLogin"
	InvalidLogin           Key = "invalidLogin"
	InvalidEmail           Key = "invalidEmail"
	ConfirmationMismatch   Key = "confirmationMismatch"
	LongFirstName          Key = "longFirstName"
	LongLastName           Key = "longLastName"
	LongEmail              Key = "longEmail"
	SuccessfulRegistration Key = "successfulRegistration"
	SuccessfulActivation   Key = "successfulActivation"
)

var catalog = map[Locale]map[Key]string{
	English: {
		InvalidCredentials:     "Invalid user or password",
		BlankEmail:             "Email cannot be blank",
		BlankLogin:             "Login cannot be blank",
		BlankFirstName:         "First name cannot be blank",
		BlankLastName:          "Last name cannot be blank",
		ShortPassword:          "Password is too short (minimum is 8 characters)",
		LongLogin:              "Login is too long (maximum is 60 characters)",
		InvalidLogin:           "Login is invalid",
		InvalidEmail:           "Email is invalid",
		ConfirmationMismatch:   "Password doesn't match confirmation",
		LongFirstName:          "First name is too long (maximum is 30 characters)",
		LongLastName:           "Last name is too long (maximum is 30 characters)",
		LongEmail:              "Email is too long (maximum is 60 characters)",
		SuccessfulRegistration: "Account was successfully created. An email containing the instructions to activate your account was sent to ",
		SuccessfulActivation:   "Your account has been activated. You can log in.",
	},
}

// Lookup returns the message for key in locale.
func Lookup(locale Locale, key Key) (string, error) {
	entries, ok := catalog[locale]
	if !ok {
		return "", fmt.Errorf("unknown locale %q", locale)
	}
	msg, ok := entries[key]
	if !ok {
		return "", fmt.Errorf("no message %q for locale %q", key, locale)
	}
	return msg, nil
}

// Get returns the English message for key. It panics on an unknown key,
// which can only happen through a typo in code.
func Get(key Key) string {
	msg, err := Lookup(English, key)
	if err != nil {
		panic(err)
	}
	return msg
}

// RegistrationSuccess is the flash shown after registering with email.
func RegistrationSuccess(email string) string {
	return Get(SuccessfulRegistration) + email + "."
}

// Locales lists the available locales in sorted order.
func Locales() []Locale {
	out := make([]Locale, 0, len(catalog))
	for l := range catalog {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Keys lists the keys defined for locale in sorted order.
func Keys(locale Locale) []Key {
	entries := catalog[locale]
	out := make([]Key, 0, len(entries))
	for k := range entries {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
