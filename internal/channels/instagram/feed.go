package instagram

import (
	"context"
	"fmt"
	"time"

	"github.com/eksdesign/stand-platform/pkg/logging"
)

const (
	DefaultFeedLimit = 9
	MaxFeedLimit     = 25
	fetchTimeout     = 8 * time.Second
)

// MediaFetcher is satisfied by *Client.
type MediaFetcher interface {
	RecentMedia(ctx context.Context, limit int) ([]Post, error)
}

// Cache stores fetched posts between requests.
type Cache interface {
	Get(ctx context.Context, key string) ([]Post, bool, error)
	Set(ctx context.Context, key string, posts []Post, ttl time.Duration) error
}

// FeedConfig controls fallback and caching behavior.
type FeedConfig struct {
	// AllowMock serves canned posts when the live feed is unavailable.
	AllowMock bool
	CacheTTL  time.Duration
}

// Feed resolves the posts shown on the site: cache, then the live API,
// then placeholders if allowed, then nothing.
type Feed struct {
	fetcher MediaFetcher
	cache   Cache
	cfg     FeedConfig
	logger  *logging.Logger
}

// NewFeed creates a Feed. fetcher is nil when no access token is configured;
// cache may be nil.
func NewFeed(fetcher MediaFetcher, cache Cache, cfg FeedConfig, logger *logging.Logger) *Feed {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	return &Feed{fetcher: fetcher, cache: cache, cfg: cfg, logger: logger}
}

// ClampLimit maps a requested post count into [1, MaxFeedLimit].
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		return MaxFeedLimit
	}
	return limit
}

// Recent never fails; the Source field says where the posts came from.
func (f *Feed) Recent(ctx context.Context, limit int) FeedResult {
	limit = ClampLimit(limit)
	key := fmt.Sprintf("instagram:feed:%d", limit)

	if f.cache != nil {
		posts, ok, err := f.cache.Get(ctx, key)
		if err != nil {
			f.logger.Warn("instagram: cache read failed", "error", err)
		} else if ok {
			return FeedResult{Posts: posts, Source: SourceCache}
		}
	}

	if f.fetcher != nil {
		fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
		posts, err := f.fetcher.RecentMedia(fetchCtx, limit)
		cancel()
		if err == nil {
			if f.cache != nil {
				if err := f.cache.Set(ctx, key, posts, f.cfg.CacheTTL); err != nil {
					f.logger.Warn("instagram: cache write failed", "error", err)
				}
			}
			return FeedResult{Posts: posts, Source: SourceInstagram}
		}
		f.logger.Warn("instagram: live feed unavailable", "error", err)
	}

	if f.cfg.AllowMock {
		return FeedResult{Posts: MockPosts(limit), Source: SourceMock}
	}
	return FeedResult{Posts: []Post{}, Source: SourceNone}
}

var mockCaptions = []string{
	"Double-decker stand build for a client at Bauma, Munich",
	"Modular system, reconfigured for its third show this season",
	"Custom timber stand with integrated meeting pods",
	"Shell scheme upgrade with branded graphics and lighting",
	"Portable pop-up kit ready for shipping",
	"Night-before walkthrough on the show floor",
	"3D render to finished stand in six weeks",
	"LED wall integration on a 120 sqm island stand",
	"Our workshop team assembling a wooden pavilion",
}

// MockPosts returns deterministic placeholder posts for local development.
func MockPosts(limit int) []Post {
	limit = ClampLimit(limit)
	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	posts := make([]Post, 0, limit)
	for i := 0; i < limit; i++ {
		n := i%len(mockCaptions) + 1
		posts = append(posts, Post{
			ID:        fmt.Sprintf("mock-%d", i+1),
			Caption:   mockCaptions[i%len(mockCaptions)],
			MediaType: "IMAGE",
			MediaURL:  fmt.Sprintf("/images/instagram/mock-%d.jpg", n),
			Permalink: "https://www.instagram.com/",
			Timestamp: base.Add(-time.Duration(i) * 72 * time.Hour),
		})
	}
	return posts
}
