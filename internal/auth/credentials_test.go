package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestCredentialsVerify(t *testing.T) {
	creds, err := NewCredentials(map[string]string{
		"user1": "password1",
		"user2": "password2",
	}, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("new credentials: %v", err)
	}

	cases := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{"known pair", "user1", "password1", true},
		{"second known pair", "user2", "password2", true},
		{"wrong password", "user1", "password2", false},
		{"unknown username", "nobody", "password1", false},
		{"empty password", "user1", "", false},
		{"empty username", "", "password1", false},
	}
	for _, tc := range cases {
		if got := creds.Verify(tc.username, tc.password); got != tc.want {
			t.Errorf("%s: Verify(%q, %q) = %v, want %v", tc.name, tc.username, tc.password, got, tc.want)
		}
	}
}

func TestCredentialsEmptySet(t *testing.T) {
	if _, err := NewCredentials(nil, bcrypt.MinCost); err == nil {
		t.Fatal("expected an error for an empty credential set")
	}
}

func TestCredentialsNoPlaintextRetained(t *testing.T) {
	creds, err := NewCredentials(map[string]string{"user1": "password1"}, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("new credentials: %v", err)
	}
	for username, stored := range creds.users {
		if stored == "password1" {
			t.Fatalf("plaintext password stored for %s", username)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte("password1")); err != nil {
			t.Fatalf("stored value for %s is not a hash of the password: %v", username, err)
		}
	}
}
