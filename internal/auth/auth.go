// Package auth provides email/password authentication with opaque
// session tokens and auth-state change notifications.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/devpath-labs/devpath/internal/store"
	"github.com/google/uuid"
)

const defaultSessionTTL = 24 * time.Hour

// ErrInvalidCredentials is returned when email or password do not match.
var ErrInvalidCredentials = errors.New("invalid email or password")

// User is an account that can sign in.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session is an authenticated session identified by an opaque token.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Event describes an auth-state change delivered to subscribers.
type Event struct {
	Type string // "login" or "logout"
	User User
}

// Service manages users and sessions. Users persist in the key-value
// store; sessions live in memory and expire after the configured TTL.
type Service struct {
	store      store.Store
	sessionTTL time.Duration

	mu       sync.RWMutex
	sessions map[string]Session
	subs     map[int]func(Event)
	nextSub  int
}

// Option configures a Service.
type Option func(*Service)

// WithSessionTTL sets how long a session token stays valid.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// NewService creates an auth service backed by the given store.
func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:      st,
		sessionTTL: defaultSessionTTL,
		sessions:   make(map[string]Session),
		subs:       make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bootstrap ensures an admin account with the given credentials exists.
// An existing account with the same email is left untouched.
func (s *Service) Bootstrap(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("bootstrap requires email and password")
	}

	users, err := s.loadUsers(ctx)
	if err != nil {
		return err
	}
	if _, ok := users[email]; ok {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	users[email] = User{
		ID:           "u-" + uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         "admin",
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.saveUsers(ctx, users); err != nil {
		return err
	}

	slog.Info("admin account bootstrapped", "email", email)
	return nil
}

// Login verifies the credentials and returns a new session.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return Session{}, err
	}

	user, ok := users[email]
	if !ok {
		// Burn a comparison so unknown emails take as long as bad passwords.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$x"), []byte(password))
		return Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	sess := Session{
		Token:     newToken(),
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}

	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()

	s.notify(Event{Type: "login", User: user})
	slog.Info("user logged in", "email", user.Email)
	return sess, nil
}

// Logout invalidates the session token. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	s.mu.Lock()
	sess, ok := s.sessions[token]
	delete(s.sessions, token)
	s.mu.Unlock()

	if !ok {
		return nil
	}

	users, err := s.loadUsers(ctx)
	if err != nil {
		return err
	}
	if user, found := users[sess.Email]; found {
		s.notify(Event{Type: "logout", User: user})
	}
	slog.Info("user logged out", "email", sess.Email)
	return nil
}

// Verify returns the session for a token if it exists and has not
// expired. Expired sessions are dropped.
func (s *Service) Verify(token string) (Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return Session{}, false
	}
	if time.Now().After(sess.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return Session{}, false
	}
	return sess, true
}

// Subscribe registers a callback for auth-state changes and returns an
// unsubscribe function.
func (s *Service) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Service) notify(ev Event) {
	s.mu.RLock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// loadUsers reads the users bucket, treating a missing or malformed
// bucket as empty.
func (s *Service) loadUsers(ctx context.Context) (map[string]User, error) {
	data, err := s.store.Read(ctx, store.BucketUsers)
	if errors.Is(err, store.ErrNotFound) {
		return map[string]User{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}

	users := map[string]User{}
	if err := json.Unmarshal(data, &users); err != nil {
		slog.Warn("users bucket is malformed, starting empty", "error", err)
		return map[string]User{}, nil
	}
	return users, nil
}

func (s *Service) saveUsers(ctx context.Context, users map[string]User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("marshal users: %w", err)
	}
	if err := s.store.Write(ctx, store.BucketUsers, data); err != nil {
		return fmt.Errorf("write users: %w", err)
	}
	return nil
}

func newToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}
