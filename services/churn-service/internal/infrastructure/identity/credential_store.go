// Package identity authenticates dashboard users against a YAML credential file
// holding bcrypt password hashes.
package identity

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/bibbank/bib/pkg/auth"
	"github.com/bibbank/bib/services/churn-service/internal/domain/model"
	"github.com/bibbank/bib/services/churn-service/internal/domain/port"
)

type credentialsDocument struct {
	Users []userEntry `yaml:"users"`
}

type userEntry struct {
	Username     string   `yaml:"username"`
	PasswordHash string   `yaml:"password_hash"`
	Roles        []string `yaml:"roles"`
}

type user struct {
	hash  []byte
	roles []string
}

// CredentialStore implements port.Authenticator.
type CredentialStore struct {
	users map[string]user
	// dummyHash is compared against for unknown users so that both failure
	// paths cost one bcrypt comparison.
	dummyHash []byte
}

// LoadCredentialStore reads the credential file at path.
func LoadCredentialStore(path string) (*CredentialStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials %s: %w", path, err)
	}
	store, err := ParseCredentials(data)
	if err != nil {
		return nil, fmt.Errorf("credentials %s: %w", path, err)
	}
	return store, nil
}

// ParseCredentials decodes and validates a credential document.
func ParseCredentials(data []byte) (*CredentialStore, error) {
	var doc credentialsDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode credentials: %w", err)
	}
	if len(doc.Users) == 0 {
		return nil, fmt.Errorf("no users defined")
	}

	s := &CredentialStore{users: make(map[string]user, len(doc.Users))}
	for i, u := range doc.Users {
		if u.Username == "" {
			return nil, fmt.Errorf("user %d: username is required", i)
		}
		if _, dup := s.users[u.Username]; dup {
			return nil, fmt.Errorf("user %s is defined twice", u.Username)
		}
		if _, err := bcrypt.Cost([]byte(u.PasswordHash)); err != nil {
			return nil, fmt.Errorf("user %s: invalid password hash: %w", u.Username, err)
		}
		if len(u.Roles) == 0 {
			return nil, fmt.Errorf("user %s: at least one role is required", u.Username)
		}
		for _, r := range u.Roles {
			if !auth.IsKnownRole(r) {
				return nil, fmt.Errorf("user %s: unknown role %q", u.Username, r)
			}
		}
		s.users[u.Username] = user{hash: []byte(u.PasswordHash), roles: append([]string(nil), u.Roles...)}
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare credential store: %w", err)
	}
	s.dummyHash = dummy

	return s, nil
}

// Authenticate returns the principal for username when password matches its
// hash. Unknown users and wrong passwords both yield port.ErrInvalidCredentials.
func (s *CredentialStore) Authenticate(ctx context.Context, username, password string) (model.Principal, error) {
	if err := ctx.Err(); err != nil {
		return model.Principal{}, err
	}

	u, ok := s.users[username]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return model.Principal{}, port.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.hash, []byte(password)); err != nil {
		return model.Principal{}, port.ErrInvalidCredentials
	}

	return model.Principal{Username: username, Roles: append([]string(nil), u.roles...)}, nil
}
