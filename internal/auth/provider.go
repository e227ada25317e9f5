package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/sports-central-api/internal/config"
	"github.com/sports-central-api/internal/models"
)

// SessionKey is the client state key holding the signed-in access token
const SessionKey = "session"

var (
	// ErrInvalidToken is returned by SignIn for tokens that fail validation
	ErrInvalidToken = errors.New("invalid access token")

	errMissingSubject = errors.New("access token has no subject")
)

// Provider is the auth collaborator the session gate consumes.
// Subscribe delivers every session change; a nil session means signed out.
// The returned func unsubscribes and closes the channel.
type Provider interface {
	CurrentSession(ctx context.Context) (*models.Session, error)
	Subscribe() (<-chan *models.Session, func())
	SignOut(ctx context.Context) error
}

// TokenSignIn is implemented by providers that accept an access token directly
type TokenSignIn interface {
	SignIn(ctx context.Context, token string) (*models.Session, error)
}

// TokenStore persists the access token between runs
type TokenStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Claims are the access token claims issued by the hosted auth service
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenProvider validates HS256 access tokens and pushes session changes to subscribers
type TokenProvider struct {
	secret   []byte
	issuer   string
	audience string
	store    TokenStore
	now      func() time.Time
	log      zerolog.Logger

	mu     sync.Mutex
	subs   map[int]chan *models.Session
	nextID int
}

// NewTokenProvider creates a TokenProvider
func NewTokenProvider(cfg *config.AuthConfig, store TokenStore, log zerolog.Logger) *TokenProvider {
	return &TokenProvider{
		secret:   []byte(cfg.TokenSecret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		store:    store,
		now:      time.Now,
		log:      log.With().Str("component", "auth").Logger(),
		subs:     make(map[int]chan *models.Session),
	}
}

// SignIn validates token, persists it and notifies subscribers.
// Signing in again with a fresh token for the same user is a token refresh.
func (p *TokenProvider) SignIn(ctx context.Context, token string) (*models.Session, error) {
	session, err := p.parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if err := p.store.Set(ctx, SessionKey, token); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	p.log.Info().Str("user_id", session.UserID).Msg("Session established")
	p.publish(session)
	return session, nil
}

// CurrentSession returns the persisted session, or nil when signed out.
// A persisted token that no longer validates is discarded.
func (p *TokenProvider) CurrentSession(ctx context.Context) (*models.Session, error) {
	token, ok, err := p.store.Get(ctx, SessionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if !ok {
		return nil, nil
	}

	session, err := p.parse(token)
	if err != nil {
		p.log.Info().Err(err).Msg("Discarding persisted session")
		if err := p.store.Delete(ctx, SessionKey); err != nil {
			p.log.Warn().Err(err).Msg("Failed to remove persisted session")
		}
		return nil, nil
	}
	return session, nil
}

// SignOut forgets the persisted token and notifies subscribers
func (p *TokenProvider) SignOut(ctx context.Context) error {
	if err := p.store.Delete(ctx, SessionKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	p.log.Info().Msg("Session cleared")
	p.publish(nil)
	return nil
}

// Subscribe registers a listener. Each channel buffers one event; when a
// listener falls behind, only the latest session is kept.
func (p *TokenProvider) Subscribe() (<-chan *models.Session, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	ch := make(chan *models.Session, 1)
	p.subs[id] = ch

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.subs, id)
			close(ch)
		})
	}
	return ch, unsubscribe
}

// Subscribers returns the number of registered listeners
func (p *TokenProvider) Subscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

func (p *TokenProvider) publish(session *models.Session) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, ch := range p.subs {
		select {
		case ch <- session:
		default:
			// Drop the stale event; publishers hold mu so the send below cannot block
			select {
			case <-ch:
			default:
			}
			ch <- session
		}
	}
}

func (p *TokenProvider) parse(token string) (*models.Session, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
		jwt.WithExpirationRequired(),
	}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}
	if p.audience != "" {
		opts = append(opts, jwt.WithAudience(p.audience))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errMissingSubject
	}

	session := &models.Session{
		UserID: claims.Subject,
		Email:  claims.Email,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}
