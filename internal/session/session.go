// Package session owns the authenticated identity and credential material for
// the admin console: login, signup, logout, password recovery, and one-shot
// session restoration at startup. Tokens and identity are persisted under
// well-known keys in a state file so a new process can resume the session
// without re-authenticating.
package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/staffrate/staffrate/internal/api"
	"github.com/staffrate/staffrate/internal/notify"
)

// Sentinel errors
var (
	// ErrNotAuthenticated is returned when an operation needs a live session.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrLoginFailed is returned when the server rejects credentials or the
	// response carries no access token.
	ErrLoginFailed = errors.New("login failed")
)

// State is the lifecycle state of the session.
type State int

const (
	// Unauthenticated means no identity is held.
	Unauthenticated State = iota

	// Restoring is the transient startup state while persisted credentials
	// are being verified. It always resolves to one of the other two.
	Restoring

	// Authenticated means identity and a non-empty access token are held.
	Authenticated
)

func (s State) String() string {
	switch s {
	case Restoring:
		return "restoring"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Credentials is the login payload.
type Credentials struct {
	EmployeeID string `json:"employeeId" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// ProfileFetcher retrieves the current identity from the server. The gateway
// satisfies this; its one-shot refresh-and-retry covers the single refresh
// attempt the restore policy allows.
type ProfileFetcher interface {
	Profile(ctx context.Context) (*api.User, error)
}

// Store owns the session. The gateway and resource clients hold a reference
// to it for token reads and the refresh callback; they never mutate identity
// directly.
type Store struct {
	baseURL    string
	httpClient *http.Client
	notifier   notify.Notifier
	persister  *persister
	validate   *validator.Validate

	// nowFunc is injectable for tests.
	nowFunc func() time.Time

	mu           sync.RWMutex
	state        State
	user         *api.User
	accessToken  string
	refreshToken string
}

// Option configures a Store.
type Option func(*Store)

// WithNow overrides the clock, primarily for testing token expiry handling.
func WithNow(now func() time.Time) Option {
	return func(s *Store) {
		s.nowFunc = now
	}
}

// NewStore creates a session store persisting under stateDir. If stateDir is
// empty, uses ~/.staffrate/
func NewStore(baseURL string, httpClient *http.Client, notifier notify.Notifier, stateDir string, opts ...Option) (*Store, error) {
	persister, err := newPersister(stateDir)
	if err != nil {
		return nil, err
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if notifier == nil {
		notifier = notify.Discard{}
	}

	store := &Store{
		baseURL:    baseURL,
		httpClient: httpClient,
		notifier:   notifier,
		persister:  persister,
		validate:   validator.New(),
		nowFunc:    time.Now,
		state:      Unauthenticated,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store, nil
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Authenticated reports whether a live session is held.
func (s *Store) Authenticated() bool {
	return s.State() == Authenticated
}

// RequireAuthenticated returns ErrNotAuthenticated unless a live session is
// held. Callers gate resource operations on it before any request goes out.
func (s *Store) RequireAuthenticated() error {
	if !s.Authenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

// User returns the current identity, or nil when unauthenticated.
func (s *Store) User() *api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// AccessToken returns the current bearer token. Empty when unauthenticated.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the persisted long-lived credential.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// SetAccessToken installs a new access token after a refresh and persists it.
// This is the only mutation the gateway performs on the session.
func (s *Store) SetAccessToken(token string) error {
	s.mu.Lock()
	s.accessToken = token
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	log.Debug().Msg("access token replaced after refresh")

	return s.persister.save(snapshot)
}

// ClearLocal wipes session state and persisted credentials without calling
// the server. The gateway invokes this when a token refresh fails.
func (s *Store) ClearLocal() error {
	s.mu.Lock()
	s.state = Unauthenticated
	s.user = nil
	s.accessToken = ""
	s.refreshToken = ""
	s.mu.Unlock()

	return s.persister.clear()
}

// Restore resolves the session once at startup. Policy, in order: trust a
// persisted identity with an unexpired access token without touching the
// network; otherwise fetch the profile through the gateway, whose one-shot
// refresh-and-retry is the only refresh attempt allowed; if that fails, clear
// everything and end unauthenticated.
func (s *Store) Restore(ctx context.Context, profile ProfileFetcher) error {
	s.setState(Restoring)

	persisted, err := s.persister.load()
	if err != nil {
		log.Debug().Err(err).Msg("no persisted session state")
		s.setState(Unauthenticated)
		return nil
	}

	if persisted.User != nil && persisted.AccessToken != "" && !tokenExpired(persisted.AccessToken, s.nowFunc()) {
		s.mu.Lock()
		s.user = persisted.User
		s.accessToken = persisted.AccessToken
		s.refreshToken = persisted.RefreshToken
		s.state = Authenticated
		s.mu.Unlock()

		log.Debug().Str("employeeId", persisted.User.EmployeeID).Msg("session restored from persisted state")
		return nil
	}

	if persisted.AccessToken == "" && persisted.RefreshToken == "" {
		s.setState(Unauthenticated)
		return s.persister.clear()
	}

	// Stale or unverifiable token: ask the server who we are. The tokens must
	// be installed first so the gateway can attach and refresh them.
	s.mu.Lock()
	s.accessToken = persisted.AccessToken
	s.refreshToken = persisted.RefreshToken
	s.mu.Unlock()

	user, err := profile.Profile(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("session restore failed")
		if clearErr := s.ClearLocal(); clearErr != nil {
			return clearErr
		}
		return nil
	}

	s.mu.Lock()
	s.user = user
	s.state = Authenticated
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	return s.persister.save(snapshot)
}

func (s *Store) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// snapshotLocked captures the persistable fields. Callers must hold mu.
func (s *Store) snapshotLocked() *persistedState {
	return &persistedState{
		User:         s.user,
		AccessToken:  s.accessToken,
		RefreshToken: s.refreshToken,
	}
}
