// Package session owns the signed-in user's identity and token pair.
// The store is the only state shared across views; it is mutated solely
// by Login and Logout, never by auction actions.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/gavelhq/gavel/pkg/domain"
)

// persisted is the on-disk session layout: exactly the two opaque token
// strings, nothing else.
type persisted struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Store holds the current session and persists its token pair.
type Store struct {
	path string
	sess domain.Session
	log  *logrus.Logger
	now  func() time.Time
}

// NewStore creates a session store backed by the given file path.
func NewStore(path string, log *logrus.Logger) *Store {
	return &Store{path: path, log: log, now: time.Now}
}

// Current returns the session value. A zero value means signed out.
func (s *Store) Current() domain.Session { return s.sess }

// AccessToken implements client.TokenSource.
func (s *Store) AccessToken() string { return s.sess.AccessToken }

// Load restores a persisted session from disk. Identity is recovered
// from the access token's claims without verifying the signature; the
// server verifies on every request. An expired or unreadable token
// clears the persisted session rather than restoring a broken one.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("session: read %s: %w", s.path, err)
	}

	var p persisted
	if err := json.Unmarshal(data, &p); err != nil || p.AccessToken == "" {
		s.log.WithField("path", s.path).Warn("discarding unreadable session file")
		return s.clear()
	}

	user, isAdmin, ok := identityFromToken(p.AccessToken, s.now())
	if !ok {
		s.log.Info("persisted token expired or unreadable, signing out")
		return s.clear()
	}

	s.sess = domain.Session{
		User:         user,
		IsAdmin:      isAdmin,
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
	}
	s.log.WithField("username", user.Username).Info("session restored")
	return nil
}

// Login installs a freshly authenticated session and persists its
// token pair.
func (s *Store) Login(sess domain.Session) error {
	if !sess.Authenticated() {
		return fmt.Errorf("session: refusing to store an unauthenticated session")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("session: create dir: %w", err)
	}
	data, err := json.Marshal(persisted{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
	})
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("session: write %s: %w", s.path, err)
	}
	s.sess = sess
	s.log.WithField("username", sess.User.Username).Info("signed in")
	return nil
}

// Logout clears the session in memory and on disk.
func (s *Store) Logout() error {
	s.log.Info("signed out")
	return s.clear()
}

func (s *Store) clear() error {
	s.sess = domain.Session{}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: remove %s: %w", s.path, err)
	}
	return nil
}

// identityFromToken reads the unverified claims of a JWT access token.
// It reports ok only when the token carries a username and has not
// expired.
func identityFromToken(token string, now time.Time) (*domain.User, bool, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false, false
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && !now.Before(exp.Time) {
		return nil, false, false
	}
	username, _ := claims["username"].(string)
	if username == "" {
		return nil, false, false
	}
	email, _ := claims["email"].(string)
	isAdmin, _ := claims["is_admin"].(bool)
	return &domain.User{Username: username, Email: email}, isAdmin, true
}
