package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
	"github.com/sports-central-api/internal/models"
)

// ClipboardFunc places text on a clipboard
type ClipboardFunc func(text string) error

// ShareService builds share links and copies article links to the clipboard
type ShareService struct {
	notifier Notifier
	write    ClipboardFunc
	log      zerolog.Logger
}

// NewShareService creates a ShareService using the host clipboard
func NewShareService(notifier Notifier, log zerolog.Logger) *ShareService {
	return NewShareServiceWithClipboard(notifier, clipboard.WriteAll, log)
}

// NewShareServiceWithClipboard creates a ShareService writing through write
func NewShareServiceWithClipboard(notifier Notifier, write ClipboardFunc, log zerolog.Logger) *ShareService {
	return &ShareService{
		notifier: notifier,
		write:    write,
		log:      log.With().Str("service", "share").Logger(),
	}
}

// Links returns the social share URLs for an article
func (s *ShareService) Links(title, articleURL string) models.ShareLinks {
	t := encodeComponent(title)
	u := encodeComponent(articleURL)

	return models.ShareLinks{
		Facebook: "https://www.facebook.com/sharer/sharer.php?u=" + u,
		Twitter:  "https://twitter.com/intent/tweet?text=" + t + "&url=" + u,
		LinkedIn: "https://www.linkedin.com/shareArticle?mini=true&url=" + u + "&title=" + t,
	}
}

// Copy places articleURL on the clipboard verbatim. Failures are reported,
// never retried.
func (s *ShareService) Copy(articleURL string) error {
	if err := s.write(articleURL); err != nil {
		s.log.Warn().Err(err).Msg("Clipboard copy failed")
		if s.notifier != nil {
			s.notifier.Error("Failed to copy link")
		}
		return fmt.Errorf("%w: %v", ErrCopyFailed, err)
	}

	if s.notifier != nil {
		s.notifier.Success("Link copied to clipboard!")
	}
	return nil
}

// encodeComponent percent-encodes s for use as a query value, with spaces as %20
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
