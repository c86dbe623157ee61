// File: internal/fakedata/fakedata.go
package fakedata

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// EmailDomain is the RFC 2606 reserved domain used for generated addresses.
const EmailDomain = "example.com"

// symbolAlphabet holds punctuation that no login validator accepts. The
// characters - _ . @ are legal in logins and are left out, as are quotes
// and the backslash so generated values survive being typed into a form.
const symbolAlphabet = "!#$%&()*+,/:;<=>?[]^`{|}~"

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// User is the synthetic account record used to fill the registration form.
type User struct {
	Login        string `json:"login"`
	Password     string `json:"password"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Organization string `json:"organization"`
	Location     string `json:"location"`
	IRC          string `json:"irc"`
}

// JSON renders the record for attaching to a scenario report.
func (u User) JSON() string {
	b, err := json.MarshalIndent(u, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", u)
	}
	return string(b)
}

// Generator produces random test data. It is safe for concurrent use.
type Generator struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
}

// New returns a generator seeded with seed. A seed of 0 picks a random one.
func New(seed int64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

var (
	defaultGen     *Generator
	defaultGenOnce sync.Once
)

// Default returns the process-wide generator.
func Default() *Generator {
	defaultGenOnce.Do(func() {
		defaultGen = New(time.Now().UnixNano())
	})
	return defaultGen
}

// User generates a complete, valid account record. Login and email carry a
// numeric suffix so that repeated runs against the same server do not collide.
func (g *Generator) User() User {
	g.mu.Lock()
	defer g.mu.Unlock()

	f := g.faker
	firstName := f.FirstName()
	lastName := f.LastName()
	suffix := f.DigitN(6)

	login := fmt.Sprintf("%s_%s", sanitize(f.Username()), suffix)
	email := fmt.Sprintf("%s.%s.%s@%s", sanitize(firstName), sanitize(lastName), suffix, EmailDomain)

	return User{
		Login:        truncate(login, 60),
		Password:     f.Password(true, true, true, false, false, 12),
		Email:        email,
		FirstName:    truncate(firstName, 30),
		LastName:     truncate(lastName, 30),
		Organization: f.Company(),
		Location:     f.City(),
		IRC:          sanitize(f.Username()),
	}
}

// Numbers returns n random decimal digits.
func (g *Generator) Numbers(n int) string {
	if n <= 0 {
		return ""
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.faker.DigitN(uint(n))
}

// Letters returns n random ASCII letters.
func (g *Generator) Letters(n int) string {
	if n <= 0 {
		return ""
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.faker.LetterN(uint(n))
}

// Symbols returns n random punctuation characters, none of which is a letter,
// digit, whitespace or a character a login may legally contain.
func (g *Generator) Symbols(n int) string {
	if n <= 0 {
		return ""
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		sb.WriteByte(symbolAlphabet[g.faker.IntRange(0, len(symbolAlphabet)-1)])
	}
	return sb.String()
}

// GenerateUser is shorthand for Default().User().
func GenerateUser() User { return Default().User() }

// RandomNumbers is shorthand for Default().Numbers(n).
func RandomNumbers(n int) string { return Default().Numbers(n) }

// RandomString is shorthand for Default().Letters(n).
func RandomString(n int) string { return Default().Letters(n) }

// RandomSymbols is shorthand for Default().Symbols(n).
func RandomSymbols(n int) string { return Default().Symbols(n) }

// CurrentDate returns today's date in UTC as YYYY-MM-DD.
func CurrentDate() string { return DateOf(time.Now()) }

// DateOf formats t in UTC as YYYY-MM-DD.
func DateOf(t time.Time) string { return t.UTC().Format("2006-01-02") }

// InvalidEmailFormats lists addresses that are malformed in exactly one way each.
// Every entry is rejected by the application's email format check.
var InvalidEmailFormats = []string{
	"plainaddress",
	"@missing-local.org",
	"missing-domain@",
	"missing-at-sign.example.com",
	"two@@example.com",
	"user@localhost",
	"user@example.c",
	"user@.example.com",
	"user@example..com",
	"user@exa_mple.com",
}

func sanitize(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), "")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
