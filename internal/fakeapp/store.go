// File: internal/fakeapp/store.go
package fakeapp

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials is returned when the login or password is wrong
	// or the account is not active yet.
	ErrInvalidCredentials = errors.New("invalid user or password")
	// ErrUnknownToken is returned for session and activation tokens the store never issued.
	ErrUnknownToken = errors.New("unknown token")
)

// Account is a user record held by the fake application.
type Account struct {
	ID           int
	Login        string
	Password     string
	FirstName    string
	LastName     string
	Email        string
	HideEmail    bool
	Language     string
	Organization string
	Location     string
	IRC          string
	Active       bool
	CreatedOn    time.Time
	LastLoginOn  time.Time
}

// Name is the display name shown on profile pages.
func (a Account) Name() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Store is an in-memory account, session and activation-token registry.
type Store struct {
	mu          sync.RWMutex
	nextID      int
	accounts    map[int]*Account
	byLogin     map[string]int
	sessions    map[string]int
	activations map[string]int
	now         func() time.Time
}

func NewStore() *Store {
	return &Store{
		nextID:      1,
		accounts:    make(map[int]*Account),
		byLogin:     make(map[string]int),
		sessions:    make(map[string]int),
		activations: make(map[string]int),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Seed adds an active account. It is used for the preconfigured test user.
func (s *Store) Seed(login, password string) Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.insertLocked(Account{
		Login:     login,
		Password:  password,
		FirstName: "John",
		LastName:  "Smith",
		Email:     login + "@example.com",
		Language:  "en",
		Active:    true,
	})
	return *a
}

// Register stores a new inactive account and returns its activation token.
func (s *Store) Register(a Account) (Account, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.Active = false
	stored := s.insertLocked(a)
	token := uuid.NewString()
	s.activations[token] = stored.ID
	return *stored, token
}

func (s *Store) insertLocked(a Account) *Account {
	a.ID = s.nextID
	s.nextID++
	a.CreatedOn = s.now()
	stored := &a
	s.accounts[a.ID] = stored
	s.byLogin[strings.ToLower(a.Login)] = a.ID
	return stored
}

// LoginTaken reports whether login is already registered, ignoring case.
func (s *Store) LoginTaken(login string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byLogin[strings.ToLower(login)]
	return ok
}

// Activate enables the account the token was issued for. Tokens are single use.
func (s *Store) Activate(token string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.activations[token]
	if !ok {
		return Account{}, ErrUnknownToken
	}
	delete(s.activations, token)
	a := s.accounts[id]
	a.Active = true
	return *a, nil
}

// ActivationToken returns the pending activation token for login, if any.
func (s *Store) ActivationToken(login string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byLogin[strings.ToLower(login)]
	if !ok {
		return "", false
	}
	for token, accountID := range s.activations {
		if accountID == id {
			return token, true
		}
	}
	return "", false
}

// Authenticate checks the credentials and opens a session.
func (s *Store) Authenticate(login, password string) (Account, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byLogin[strings.ToLower(login)]
	if !ok {
		return Account{}, "", ErrInvalidCredentials
	}
	a := s.accounts[id]
	if a.Password != password || !a.Active {
		return Account{}, "", ErrInvalidCredentials
	}
	a.LastLoginOn = s.now()
	token := uuid.NewString()
	s.sessions[token] = id
	return *a, token, nil
}

// SessionAccount resolves a session token to its account.
func (s *Store) SessionAccount(token string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.sessions[token]
	if !ok {
		return Account{}, ErrUnknownToken
	}
	return *s.accounts[id], nil
}

// EndSession forgets the session token. Unknown tokens are ignored.
func (s *Store) EndSession(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Account returns the account with id.
func (s *Store) Account(id int) (Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return Account{}, false
	}
	return *a, true
}
