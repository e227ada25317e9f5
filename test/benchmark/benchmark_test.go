package benchmark

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sports-central-api/internal/mocks"
	"github.com/sports-central-api/internal/models"
	"github.com/sports-central-api/internal/news"
	"github.com/sports-central-api/internal/service"
	"github.com/sports-central-api/internal/validation"
)

func strPtr(s string) *string { return &s }

func rawBatch(n int) []models.RawArticle {
	raws := make([]models.RawArticle, n)
	for i := range raws {
		raws[i] = models.RawArticle{
			URL:         fmt.Sprintf("https://example.com/story-%04d", i),
			Title:       fmt.Sprintf("Match report %d: Straße derby ends level", i),
			Description: strPtr("Late equaliser keeps the title race open"),
			PublishedAt: "2024-03-05T14:30:00.123Z",
			URLToImage:  strPtr("https://example.com/img.jpg"),
			Source:      &models.RawSource{Name: "Sports Wire"},
		}
	}
	return raws
}

// BenchmarkNormalize benchmarks normalizing a full page of raw records
func BenchmarkNormalize(b *testing.B) {
	normalizer := news.NewNormalizer("en-US", time.UTC)
	raws := rawBatch(30)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		for _, raw := range raws {
			if _, err := normalizer.Normalize(raw, models.CategoryFootball); err != nil {
				b.Fatal(err)
			}
		}
	}

	b.ReportMetric(float64(len(raws)*b.N)/b.Elapsed().Seconds(), "records/sec")
}

// BenchmarkFilter benchmarks case-folded search over a large list
func BenchmarkFilter(b *testing.B) {
	normalizer := news.NewNormalizer("en-US", time.UTC)
	raws := rawBatch(1000)
	articles := make([]models.Article, 0, len(raws))
	for _, raw := range raws {
		a, err := normalizer.Normalize(raw, models.CategoryAll)
		if err != nil {
			b.Fatal(err)
		}
		articles = append(articles, a)
	}

	queries := []string{"", "STRASSE", "equaliser", "no match at all"}

	for _, q := range queries {
		b.Run(fmt.Sprintf("query=%q", q), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				news.Filter(articles, q)
			}
		})
	}
}

// BenchmarkBookmarkToggle benchmarks confirmed toggles against an in-memory store
func BenchmarkBookmarkToggle(b *testing.B) {
	repo := mocks.NewMockBookmarkRepository()
	manager := service.NewBookmarkManager(repo, nil, zerolog.Nop())
	ctx := context.Background()
	if err := manager.Load(ctx, "u1"); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		id := fmt.Sprintf("https://example.com/story-%d", i%64)
		if _, err := manager.Toggle(ctx, "u1", id); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkShareLinks benchmarks building the three share URLs
func BenchmarkShareLinks(b *testing.B) {
	share := service.NewShareServiceWithClipboard(nil, func(string) error { return nil }, zerolog.Nop())

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		share.Links("Win & Loss: a derby to remember", "https://example.com/a?b=1&c=2")
	}
}

// BenchmarkValidation benchmarks request validation
func BenchmarkValidation(b *testing.B) {
	validator := validation.NewValidator()
	req := &models.ShareRequest{Title: "Hello World", URL: "https://example.com/story"}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		validator.ValidateShare(req)
		validator.ValidateCategory("Football")
		validator.ValidateQuery("derby")
	}
}
