// File: internal/fakedata/fakedata_test.go
package fakedata

import (
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	redmineLogin = regexp.MustCompile(`(?i)^[a-z0-9_\-@.]*$`)
	redmineEmail = regexp.MustCompile(`(?i)^[^@\s]+@(?:[-a-z0-9]+\.)+[a-z]{2,}$`)
)

func TestGeneratorUser(t *testing.T) {
	g := New(42)

	for i := 0; i < 50; i++ {
		u := g.User()

		assert.NotEmpty(t, u.Login)
		assert.LessOrEqual(t, len(u.Login), 60)
		assert.Regexp(t, redmineLogin, u.Login)

		assert.GreaterOrEqual(t, len(u.Password), 8, "password must satisfy the minimum length")

		assert.LessOrEqual(t, len(u.Email), 60)
		assert.Regexp(t, redmineEmail, u.Email)
		assert.True(t, strings.HasSuffix(u.Email, "@"+EmailDomain))

		assert.NotEmpty(t, u.FirstName)
		assert.LessOrEqual(t, len(u.FirstName), 30)
		assert.NotEmpty(t, u.LastName)
		assert.LessOrEqual(t, len(u.LastName), 30)
		assert.NotEmpty(t, u.Organization)
		assert.NotEmpty(t, u.Location)
		assert.NotEmpty(t, u.IRC)
	}
}

func TestGeneratorUser_Distinct(t *testing.T) {
	g := New(7)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		u := g.User()
		assert.False(t, seen[u.Login], "login %q generated twice", u.Login)
		seen[u.Login] = true
	}
}

func TestGeneratorSeeded(t *testing.T) {
	assert.Equal(t, New(99).User(), New(99).User(), "same seed should yield the same record")
}

func TestStringGenerators(t *testing.T) {
	g := New(1)

	for _, n := range []int{1, 7, 31, 61} {
		nums := g.Numbers(n)
		assert.Len(t, nums, n)
		for _, r := range nums {
			assert.True(t, unicode.IsDigit(r), "Numbers(%d) produced %q", n, nums)
		}

		letters := g.Letters(n)
		assert.Len(t, letters, n)
		for _, r := range letters {
			assert.True(t, r < unicode.MaxASCII && unicode.IsLetter(r), "Letters(%d) produced %q", n, letters)
		}

		symbols := g.Symbols(n)
		assert.Len(t, symbols, n)
		for _, r := range symbols {
			assert.False(t, unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r), "Symbols(%d) produced %q", n, symbols)
		}
		assert.NotRegexp(t, redmineLogin, symbols, "symbol strings must never be a valid login")
	}

	assert.Empty(t, g.Numbers(0))
	assert.Empty(t, g.Letters(-1))
	assert.Empty(t, g.Symbols(0))
}

func TestPackageShorthands(t *testing.T) {
	assert.Len(t, RandomNumbers(5), 5)
	assert.Len(t, RandomString(31), 31)
	assert.Len(t, RandomSymbols(10), 10)
	assert.NotEmpty(t, GenerateUser().Email)
}

func TestGeneratorConcurrentUse(t *testing.T) {
	g := New(3)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = g.User()
				_ = g.Symbols(4)
			}
		}()
	}
	wg.Wait()
}

func TestInvalidEmailFormats(t *testing.T) {
	require.NotEmpty(t, InvalidEmailFormats)
	for _, email := range InvalidEmailFormats {
		assert.NotRegexp(t, redmineEmail, email, "%q should be rejected", email)
	}
}

func TestDates(t *testing.T) {
	ts := time.Date(2024, time.March, 9, 23, 30, 0, 0, time.FixedZone("UTC-2", -2*3600))
	assert.Equal(t, "2024-03-10", DateOf(ts), "dates are reported in UTC")
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, CurrentDate())
}

func TestUserJSON(t *testing.T) {
	u := User{Login: "jsmith", Email: "j@example.com"}
	out := u.JSON()
	assert.Contains(t, out, `"login": "jsmith"`)
	assert.Contains(t, out, `"firstName": ""`)

	full := New(5).User()
	var decoded User
	require.NoError(t, json.Unmarshal([]byte(full.JSON()), &decoded))
	if diff := cmp.Diff(full, decoded); diff != "" {
		t.Errorf("attachment does not round trip. Diff:\n%s", diff)
	}
}
