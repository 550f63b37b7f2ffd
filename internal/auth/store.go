package auth

import (
	"maps"
)

// Store holds per-login passwords, tokens and cookies. An entry exists
// exactly while the credential is set. Store does no validation and no I/O;
// it is not safe for concurrent mutation.
type Store struct {
	passwords map[string]string
	tokens    map[string]string
	cookies   map[string]map[string]string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		passwords: make(map[string]string),
		tokens:    make(map[string]string),
		cookies:   make(map[string]map[string]string),
	}
}

// SetPassword sets the password of login, or removes it when password is nil.
func (s *Store) SetPassword(login string, password *string) {
	setOrDelete(s.passwords, login, password)
}

// SetToken sets the token of login, or removes it when token is nil.
func (s *Store) SetToken(login string, token *string) {
	setOrDelete(s.tokens, login, token)
}

// SetCookie sets a cookie for login, or removes it when value is nil.
func (s *Store) SetCookie(login, name string, value *string) {
	jar, ok := s.cookies[login]
	if !ok {
		if value == nil {
			return
		}
		jar = make(map[string]string)
		s.cookies[login] = jar
	}
	setOrDelete(jar, name, value)
	if len(jar) == 0 {
		delete(s.cookies, login)
	}
}

// Password returns the password of login.
func (s *Store) Password(login string) (string, bool) {
	pw, ok := s.passwords[login]
	return pw, ok
}

// Token returns the token of login.
func (s *Store) Token(login string) (string, bool) {
	tok, ok := s.tokens[login]
	return tok, ok
}

// Cookies returns a copy of the cookies of login, nil when there are none.
func (s *Store) Cookies(login string) map[string]string {
	return maps.Clone(s.cookies[login])
}

// Logins returns the number of logins with at least one credential or cookie.
func (s *Store) Logins() int {
	seen := make(map[string]struct{})
	for l := range s.passwords {
		seen[l] = struct{}{}
	}
	for l := range s.tokens {
		seen[l] = struct{}{}
	}
	for l := range s.cookies {
		seen[l] = struct{}{}
	}
	return len(seen)
}

func setOrDelete(m map[string]string, key string, value *string) {
	if value == nil {
		delete(m, key)
		return
	}
	m[key] = *value
}
