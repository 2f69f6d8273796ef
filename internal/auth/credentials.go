// Package auth owns the authentication building blocks: the fixed
// credential verifier, the access token service and the revocation store.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Credentials verifies username/password pairs against a fixed set loaded
// at startup.  Passwords are bcrypt-hashed immediately on load; plaintext
// is never retained or logged.
type Credentials struct {
	users map[string]string // username -> bcrypt hash
	dummy string            // hash compared for unknown usernames
}

// NewCredentials hashes the given username -> plaintext pairs with the
// provided bcrypt cost.  The dummy hash exists so that verification work is
// done even for unknown usernames, keeping failures indistinguishable.
func NewCredentials(pairs map[string]string, cost int) (*Credentials, error) {
	if len(pairs) == 0 {
		return nil, errors.New("auth: empty credential set")
	}
	users := make(map[string]string, len(pairs))
	for username, password := range pairs {
		h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
		if err != nil {
			return nil, err
		}
		users[username] = string(h)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("movie-catalog-dummy"), cost)
	if err != nil {
		return nil, err
	}
	return &Credentials{users: users, dummy: string(dummy)}, nil
}

// Verify reports whether the pair matches the credential set.  Unknown
// usernames and wrong passwords are both plain false; callers must not be
// able to tell them apart.
func (c *Credentials) Verify(username, password string) bool {
	hash, ok := c.users[username]
	if !ok {
		// Burn a comparison so an unknown username costs the same as a
		// wrong password.
		_ = bcrypt.CompareHashAndPassword([]byte(c.dummy), []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
