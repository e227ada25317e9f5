package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sports-central-api/internal/config"
	"github.com/sports-central-api/internal/models"
	"golang.org/x/time/rate"
)

const userAgent = "sports-central-api/1.0"

// Fetcher issues category-scoped queries against the news search API
type Fetcher struct {
	baseURL    string
	apiKey     string
	pageSize   int
	timeout    time.Duration
	client     *http.Client
	limiter    *rate.Limiter
	normalizer *Normalizer
	log        zerolog.Logger
}

// NewFetcher creates a Fetcher. A nil client gets a default one.
func NewFetcher(cfg *config.NewsConfig, client *http.Client, normalizer *Normalizer, log zerolog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}

	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}

	return &Fetcher{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		pageSize:   cfg.PageSize,
		timeout:    cfg.Timeout,
		client:     client,
		limiter:    rate.NewLimiter(limit, 1),
		normalizer: normalizer,
		log:        log.With().Str("component", "fetcher").Logger(),
	}
}

// BuildQuery maps a category selector onto the search query string
func BuildQuery(category models.Category) string {
	if category == models.CategoryAll {
		return "sports"
	}
	return string(category) + " sports"
}

// Fetch issues exactly one search request for category and normalizes the results.
// It fails closed: on any request-level failure it returns an empty, non-nil
// slice together with an error wrapping ErrFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, category models.Category) ([]models.Article, error) {
	if !category.IsSelectable() {
		return []models.Article{}, fmt.Errorf("%w: %w: %q", ErrFetchFailed, ErrUnknownCategory, category)
	}

	body, err := f.request(ctx, BuildQuery(category))
	if err != nil {
		f.log.Error().Err(err).Str("category", string(category)).Msg("News fetch failed")
		return []models.Article{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	articles := make([]models.Article, 0, len(body.Articles))
	skipped := 0
	for i, record := range body.Articles {
		article, err := f.decode(record, category)
		if err != nil {
			skipped++
			f.log.Warn().
				Err(err).
				Int("index", i).
				Str("category", string(category)).
				Msg("Skipping malformed article record")
			continue
		}
		articles = append(articles, article)
	}

	f.log.Info().
		Str("category", string(category)).
		Int("received", len(body.Articles)).
		Int("skipped", skipped).
		Int("articles", len(articles)).
		Msg("Articles fetched")

	return articles, nil
}

// decode normalizes one raw record. A record that does not match the
// expected shape is malformed, like one that fails normalization.
func (f *Fetcher) decode(record json.RawMessage, category models.Category) (models.Article, error) {
	var raw models.RawArticle
	if err := json.Unmarshal(record, &raw); err != nil {
		return models.Article{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return f.normalizer.Normalize(raw, category)
}

func (f *Fetcher) request(ctx context.Context, query string) (*models.NewsResponse, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	endpoint, err := url.Parse(f.baseURL + "/everything")
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("apiKey", f.apiKey)
	params.Set("pageSize", strconv.Itoa(f.pageSize))
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		// url.Error embeds the request URL, which carries the API key
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var body models.NewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("malformed response body: %w", err)
	}
	if body.Status == "error" {
		return nil, errors.New("api error " + body.Code + ": " + body.Message)
	}
	if body.Articles == nil {
		return nil, errors.New("malformed response body: missing articles")
	}

	return &body, nil
}
