package clientstate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
)

// DarkModeKey holds the dark-mode flag as a JSON boolean
const DarkModeKey = "darkMode"

// KV is the key/value surface Preferences needs
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Preferences reads and writes user preferences
type Preferences struct {
	kv  KV
	log zerolog.Logger
}

// NewPreferences creates Preferences on top of kv
func NewPreferences(kv KV, log zerolog.Logger) *Preferences {
	return &Preferences{
		kv:  kv,
		log: log.With().Str("component", "preferences").Logger(),
	}
}

// DarkMode returns the persisted flag. Absent, unreadable or corrupt values are false.
func (p *Preferences) DarkMode(ctx context.Context) bool {
	raw, ok, err := p.kv.Get(ctx, DarkModeKey)
	if err != nil {
		p.log.Warn().Err(err).Msg("Failed to read dark mode preference")
		return false
	}
	if !ok {
		return false
	}

	var enabled bool
	if err := json.Unmarshal([]byte(raw), &enabled); err != nil {
		p.log.Warn().Str("value", raw).Msg("Ignoring corrupt dark mode preference")
		return false
	}
	return enabled
}

// SetDarkMode persists the flag
func (p *Preferences) SetDarkMode(ctx context.Context, enabled bool) error {
	raw, err := json.Marshal(enabled)
	if err != nil {
		return err
	}
	if err := p.kv.Set(ctx, DarkModeKey, string(raw)); err != nil {
		return fmt.Errorf("failed to persist dark mode: %w", err)
	}
	return nil
}
