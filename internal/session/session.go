package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/model-cloud/mcloud/internal/roles"
)

// UserProfile is the authenticated user's profile as returned by the API.
type UserProfile struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Nickname string   `json:"nickname"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone,omitempty"`
	Avatar   string   `json:"avatar,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// Store owns the session (token + profile) for the process lifetime.
// Every mutation writes through to durable storage; construction reads
// the storage once to seed memory. A non-empty token means logged in;
// the profile may be absent even when logged in (it is lazy-loaded).
type Store struct {
	mu      sync.Mutex
	storage Storage
	log     zerolog.Logger

	token string
	user  *UserProfile
}

// New constructs a Store seeded from storage. A corrupt persisted
// profile is logged and purged, never returned as an error.
func New(storage Storage, log zerolog.Logger) (*Store, error) {
	s := &Store{storage: storage, log: log}

	token, ok, err := storage.Get(KeyToken)
	if err != nil {
		return nil, fmt.Errorf("failed to restore token: %w", err)
	}
	if ok {
		s.token = token
	}

	s.initUserInfo()
	return s, nil
}

// initUserInfo restores a previously persisted profile. A value that no
// longer parses is purged so the next start comes up clean.
func (s *Store) initUserInfo() {
	raw, ok, err := s.storage.Get(KeyUserInfo)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to read persisted user info")
		return
	}
	if !ok {
		return
	}

	var user UserProfile
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.log.Warn().Err(err).Msg("discarding corrupt persisted user info")
		if delErr := s.storage.Delete(KeyUserInfo); delErr != nil {
			s.log.Warn().Err(delErr).Msg("failed to purge corrupt user info")
		}
		return
	}
	s.user = &user
}

// SetToken stores the token in memory and durable storage. An empty
// token removes the durable entry.
func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	if token == "" {
		return s.storage.Delete(KeyToken)
	}
	return s.storage.Set(KeyToken, token)
}

// SetUserInfo stores the profile in memory and durable storage. A nil
// profile removes the durable entry.
func (s *Store) SetUserInfo(user *UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = user
	if user == nil {
		return s.storage.Delete(KeyUserInfo)
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to serialize user info: %w", err)
	}
	return s.storage.Set(KeyUserInfo, string(data))
}

// ClearUserInfo resets token and profile and removes both durable
// entries. This is the single logout primitive.
func (s *Store) ClearUserInfo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = nil

	tokenErr := s.storage.Delete(KeyToken)
	userErr := s.storage.Delete(KeyUserInfo)
	if tokenErr != nil {
		return tokenErr
	}
	return userErr
}

// Token returns the current token, empty when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// UserInfo returns the current profile, nil when absent.
func (s *Store) UserInfo() *UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Username returns the profile's username, empty when absent.
func (s *Store) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ""
	}
	return s.user.Username
}

// Nickname returns the profile's nickname, falling back to the username.
func (s *Store) Nickname() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ""
	}
	if s.user.Nickname != "" {
		return s.user.Nickname
	}
	return s.user.Username
}

// IsLoggedIn reports whether a token is present.
func (s *Store) IsLoggedIn() bool {
	return s.Token() != ""
}

// Tier returns the capability tier derived from the profile's roles.
func (s *Store) Tier() roles.Tier {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return roles.TierUser
	}
	return roles.TierOf(s.user.Roles)
}

// IsAdmin reports whether the profile carries the admin or super_admin role.
func (s *Store) IsAdmin() bool {
	return s.Tier().IsAdmin()
}

// IsSuperAdmin reports whether the profile carries the super_admin role.
func (s *Store) IsSuperAdmin() bool {
	return s.Tier().IsSuperAdmin()
}
