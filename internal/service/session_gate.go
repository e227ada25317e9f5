package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sports-central-api/internal/auth"
	"github.com/sports-central-api/internal/models"
)

// PreferenceStore persists the dark-mode flag
type PreferenceStore interface {
	DarkMode(ctx context.Context) bool
	SetDarkMode(ctx context.Context, enabled bool) error
}

// SessionGate tracks the signed-in user and the dark-mode preference.
// It owns exactly one subscription to the auth provider for its lifetime.
type SessionGate struct {
	provider  auth.Provider
	prefs     PreferenceStore
	bookmarks *BookmarkManager
	notifier  Notifier
	log       zerolog.Logger

	mu       sync.RWMutex
	session  *models.Session
	darkMode bool

	// serializes session transitions together with their bookmark effects
	applyMu sync.Mutex

	lifecycle   sync.Mutex
	started     bool
	unsubscribe func()
	done        chan struct{}
}

// NewSessionGate creates a gate; call Start to restore state and subscribe
func NewSessionGate(provider auth.Provider, prefs PreferenceStore, bookmarks *BookmarkManager, notifier Notifier, log zerolog.Logger) *SessionGate {
	return &SessionGate{
		provider:  provider,
		prefs:     prefs,
		bookmarks: bookmarks,
		notifier:  notifier,
		log:       log.With().Str("service", "session").Logger(),
	}
}

// Start restores the dark-mode flag and the current session, then listens for
// auth changes until Stop or ctx is done.
func (g *SessionGate) Start(ctx context.Context) error {
	g.lifecycle.Lock()
	defer g.lifecycle.Unlock()

	if g.started {
		return ErrGateStarted
	}
	g.started = true

	dark := g.prefs.DarkMode(ctx)
	g.mu.Lock()
	g.darkMode = dark
	g.mu.Unlock()

	// Subscribe before reading the current session so no change is missed
	events, unsubscribe := g.provider.Subscribe()
	g.unsubscribe = unsubscribe
	g.done = make(chan struct{})

	session, err := g.provider.CurrentSession(ctx)
	if err != nil {
		g.log.Warn().Err(err).Msg("Failed to read current session, starting signed out")
		session = nil
	}
	g.apply(ctx, session)

	go g.listen(ctx, events)

	g.log.Info().
		Bool("signed_in", session != nil).
		Bool("dark_mode", dark).
		Msg("Session gate started")
	return nil
}

// Stop unsubscribes from the provider and waits for the listener to exit
func (g *SessionGate) Stop() {
	g.lifecycle.Lock()
	defer g.lifecycle.Unlock()

	if g.unsubscribe == nil {
		return
	}
	g.unsubscribe()
	<-g.done
	g.unsubscribe = nil
	g.log.Info().Msg("Session gate stopped")
}

func (g *SessionGate) listen(ctx context.Context, events <-chan *models.Session) {
	defer close(g.done)
	for {
		select {
		case <-ctx.Done():
			return
		case session, ok := <-events:
			if !ok {
				return
			}
			g.apply(ctx, session)
		}
	}
}

// apply makes session authoritative, replacing the current one
func (g *SessionGate) apply(ctx context.Context, session *models.Session) {
	g.applyMu.Lock()
	defer g.applyMu.Unlock()

	g.mu.Lock()
	previous := userIDOf(g.session)
	g.session = session
	g.mu.Unlock()

	next := userIDOf(session)

	switch {
	case next == "":
		if previous != "" {
			g.log.Info().Str("user_id", previous).Msg("Signed out")
		}
		g.bookmarks.Clear()
	case next != previous || g.bookmarks.Owner() != next:
		g.log.Info().Str("user_id", next).Msg("Signed in")
		if err := g.bookmarks.Load(ctx, next); err != nil {
			// Degrades to no bookmarks shown
			g.log.Warn().Err(err).Str("user_id", next).Msg("Bookmarks unavailable")
		}
	default:
		g.log.Debug().Str("user_id", next).Msg("Session refreshed")
	}
}

// SignIn hands an access token to the provider
func (g *SessionGate) SignIn(ctx context.Context, token string) (*models.Session, error) {
	tp, ok := g.provider.(auth.TokenSignIn)
	if !ok {
		return nil, ErrSignInUnsupported
	}
	session, err := tp.SignIn(ctx, token)
	if err != nil {
		return nil, err
	}
	g.apply(ctx, session)
	return session, nil
}

// SignOut signs out with the provider and clears local session state
func (g *SessionGate) SignOut(ctx context.Context) error {
	if err := g.provider.SignOut(ctx); err != nil {
		g.log.Error().Err(err).Msg("Sign out failed")
		if g.notifier != nil {
			g.notifier.Error("Failed to sign out")
		}
		return err
	}
	g.apply(ctx, nil)
	if g.notifier != nil {
		g.notifier.Success("Signed out successfully")
	}
	return nil
}

// Session returns the current session, or nil when signed out
func (g *SessionGate) Session() *models.Session {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.session == nil {
		return nil
	}
	s := *g.session
	return &s
}

// UserID returns the signed-in user id
func (g *SessionGate) UserID() (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	id := userIDOf(g.session)
	return id, id != ""
}

// DarkMode returns the current dark-mode flag
func (g *SessionGate) DarkMode() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.darkMode
}

// SetDarkMode changes and persists the dark-mode flag
func (g *SessionGate) SetDarkMode(ctx context.Context, enabled bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.prefs.SetDarkMode(ctx, enabled); err != nil {
		g.log.Error().Err(err).Msg("Failed to persist dark mode")
		return err
	}
	g.darkMode = enabled
	return nil
}

// ToggleDarkMode flips and persists the dark-mode flag, returning the new value
func (g *SessionGate) ToggleDarkMode(ctx context.Context) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	next := !g.darkMode
	if err := g.prefs.SetDarkMode(ctx, next); err != nil {
		g.log.Error().Err(err).Msg("Failed to persist dark mode")
		return g.darkMode, err
	}
	g.darkMode = next
	return next, nil
}

func userIDOf(s *models.Session) string {
	if s == nil {
		return ""
	}
	return s.UserID
}
