// Package bootstrap builds the runtime dependencies shared by the API
// binary from configuration. Every builder degrades to a working local
// default when its backing service is not configured.
package bootstrap

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/eksdesign/stand-platform/internal/channels/instagram"
	appconfig "github.com/eksdesign/stand-platform/internal/config"
	"github.com/eksdesign/stand-platform/internal/contacts"
	"github.com/eksdesign/stand-platform/internal/media"
	"github.com/eksdesign/stand-platform/internal/notify"
	"github.com/eksdesign/stand-platform/internal/quotes"
	"github.com/eksdesign/stand-platform/internal/ratelimit"
	"github.com/eksdesign/stand-platform/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// Database holds the pgx pool and a database/sql view over the same pool.
type Database struct {
	Pool *pgxpool.Pool
	SQL  *sql.DB
}

// Close releases both handles.
func (d *Database) Close() {
	if d == nil {
		return
	}
	if d.SQL != nil {
		_ = d.SQL.Close()
	}
	if d.Pool != nil {
		d.Pool.Close()
	}
}

// BuildDatabase connects to Postgres. It returns nil, nil when no
// DATABASE_URL is configured.
func BuildDatabase(ctx context.Context, cfg *appconfig.Config) (*Database, error) {
	if cfg == nil || strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap: ping postgres: %w", err)
	}
	return &Database{Pool: pool, SQL: stdlib.OpenDBFromPool(pool)}, nil
}

// BuildIntakeRepositories returns Postgres repositories when db is set and
// in-memory ones otherwise.
func BuildIntakeRepositories(db *Database, logger *logging.Logger) (contacts.Repository, quotes.Repository) {
	if db == nil || db.Pool == nil {
		if logger != nil {
			logger.Warn("DATABASE_URL not set; intake records are kept in memory")
		}
		return contacts.NewInMemoryRepository(), quotes.NewInMemoryRepository()
	}
	return contacts.NewPostgresRepository(db.Pool), quotes.NewPostgresRepository(db.Pool)
}

// BuildRateLimitStore selects the counter store. Redis is used only when
// requested and reachable; otherwise counters live in process memory.
func BuildRateLimitStore(cfg *appconfig.Config, redisClient *redis.Client, logger *logging.Logger) ratelimit.Store {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg != nil && cfg.RateLimitBackend == "redis" {
		if redisClient != nil {
			return ratelimit.NewRedisStore(redisClient)
		}
		logger.Warn("redis rate limit backend requested but redis is unavailable; using memory store")
	}
	return ratelimit.NewMemoryStore()
}

// BuildLimiters binds the contact and quote policies, with configured
// overrides, to store.
func BuildLimiters(cfg *appconfig.Config, store ratelimit.Store) (contact, quote *ratelimit.Limiter) {
	contactPolicy := ratelimit.ContactPolicy
	quotePolicy := ratelimit.QuotePolicy
	if cfg != nil {
		if cfg.ContactRateWindow > 0 {
			contactPolicy.Window = cfg.ContactRateWindow
		}
		if cfg.ContactRateMax > 0 {
			contactPolicy.Max = cfg.ContactRateMax
		}
		if cfg.QuoteRateWindow > 0 {
			quotePolicy.Window = cfg.QuoteRateWindow
		}
		if cfg.QuoteRateMax > 0 {
			quotePolicy.Max = cfg.QuoteRateMax
		}
	}
	return ratelimit.NewLimiter(store, contactPolicy), ratelimit.NewLimiter(store, quotePolicy)
}

// BuildEmailSender picks the staff email provider. Misconfigured providers
// fall back to the stub sender, which only logs.
func BuildEmailSender(cfg *appconfig.Config, sesClient notify.SESAPI, logger *logging.Logger) notify.EmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg == nil {
		return notify.NewStubEmailSender(logger)
	}
	switch cfg.EmailProvider {
	case "sendgrid":
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger); sender != nil {
			return sender
		}
		logger.Warn("EMAIL_PROVIDER=sendgrid but SENDGRID_API_KEY is empty; using stub sender")
	case "ses":
		if sender := notify.NewSESSender(sesClient, notify.SESConfig{
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger); sender != nil {
			return sender
		}
		logger.Warn("EMAIL_PROVIDER=ses but no SES client is available; using stub sender")
	}
	return notify.NewStubEmailSender(logger)
}

// BuildNotifier wires staff notifications for new intake records.
func BuildNotifier(cfg *appconfig.Config, sender notify.EmailSender, logger *logging.Logger) *notify.Service {
	var recipients []string
	if cfg != nil {
		recipients = strings.Split(cfg.StaffNotifyEmail, ",")
	}
	return notify.NewService(sender, recipients, logger)
}

// BuildMediaUploader returns an uploader; it reports disabled when no bucket
// is configured.
func BuildMediaUploader(cfg *appconfig.Config, client media.S3API, logger *logging.Logger) *media.Uploader {
	if cfg == nil || strings.TrimSpace(cfg.MediaBucket) == "" {
		return media.NewUploader(nil, media.Config{}, logger)
	}
	return media.NewUploader(client, media.Config{
		Bucket:        cfg.MediaBucket,
		Region:        cfg.AWSRegion,
		PublicBaseURL: cfg.MediaPublicBaseURL,
	}, logger)
}

// BuildInstagramFeed wires the live client and cache when configured.
func BuildInstagramFeed(cfg *appconfig.Config, redisClient *redis.Client, logger *logging.Logger) *instagram.Feed {
	feedCfg := instagram.FeedConfig{}
	var fetcher instagram.MediaFetcher
	var cache instagram.Cache
	if cfg != nil {
		feedCfg.AllowMock = cfg.InstagramAllowMock
		feedCfg.CacheTTL = cfg.InstagramCacheTTL
		if token := strings.TrimSpace(cfg.InstagramAccessToken); token != "" {
			fetcher = instagram.NewClient(token)
		}
	}
	if redisClient != nil {
		cache = instagram.NewRedisCache(redisClient)
	}
	return instagram.NewFeed(fetcher, cache, feedCfg, logger)
}
