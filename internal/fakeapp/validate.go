// File: internal/fakeapp/validate.go
package fakeapp

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/magidevv/authflows/internal/messages"
)

// Field limits enforced on sign-up.
const (
	MaxLoginLength    = 60
	MaxNameLength     = 30
	MaxEmailLength    = 60
	MinPasswordLength = 8
)

// Form field identifiers. They match the suffix of the input ids (user_<field>).
const (
	fieldLogin     = "login"
	fieldPassword  = "password"
	fieldFirstName = "firstname"
	fieldLastName  = "lastname"
	fieldMail      = "mail"
)

var (
	loginFormat = regexp.MustCompile(`(?i)^[a-z0-9_\-@.]*$`)
	emailFormat = regexp.MustCompile(`(?i)^[^@\s]+@(?:[-a-z0-9]+\.)+[a-z]{2,}$`)
)

// FieldError is one validation failure, attached to the input it highlights.
type FieldError struct {
	Field   string
	Message string
}

// Registration is the submitted sign-up form.
type Registration struct {
	Login                string
	Password             string
	PasswordConfirmation string
	FirstName            string
	LastName             string
	Email                string
	HideEmail            bool
	Language             string
	Organization         string
	Location             string
	IRC                  string
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

func tooLong(s string, limit int) bool { return utf8.RuneCountInString(s) > limit }

// Validate returns the errors for r in display order. A whitespace-only
// login fails both the presence and the format check.
func (r Registration) Validate(taken func(login string) bool) []FieldError {
	var errs []FieldError
	add := func(field string, key messages.Key) {
		errs = append(errs, FieldError{Field: field, Message: messages.Get(key)})
	}

	if isBlank(r.Login) {
		add(fieldLogin, messages.BlankLogin)
	}
	if tooLong(r.Login, MaxLoginLength) {
		add(fieldLogin, messages.LongLogin)
	}
	if r.Login != "" && !loginFormat.MatchString(r.Login) {
		add(fieldLogin, messages.InvalidLogin)
	}
	if taken != nil && !isBlank(r.Login) && taken(r.Login) {
		errs = append(errs, FieldError{Field: fieldLogin, Message: "Login has already been taken"})
	}

	switch {
	case isBlank(r.FirstName):
		add(fieldFirstName, messages.BlankFirstName)
	case tooLong(r.FirstName, MaxNameLength):
		add(fieldFirstName, messages.LongFirstName)
	}

	switch {
	case isBlank(r.LastName):
		add(fieldLastName, messages.BlankLastName)
	case tooLong(r.LastName, MaxNameLength):
		add(fieldLastName, messages.LongLastName)
	}

	switch {
	case isBlank(r.Email):
		add(fieldMail, messages.BlankEmail)
	case tooLong(r.Email, MaxEmailLength):
		add(fieldMail, messages.LongEmail)
	case !emailFormat.MatchString(r.Email):
		add(fieldMail, messages.InvalidEmail)
	}

	if utf8.RuneCountInString(r.Password) < MinPasswordLength {
		add(fieldPassword, messages.ShortPassword)
	}
	if r.Password != r.PasswordConfirmation {
		add(fieldPassword, messages.ConfirmationMismatch)
	}
	return errs
}

// errorFields collects the set of highlighted inputs.
func errorFields(errs []FieldError) map[string]bool {
	fields := make(map[string]bool, len(errs))
	for _, e := range errs {
		fields[e.Field] = true
	}
	return fields
}
