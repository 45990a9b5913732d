package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eksdesign/stand-platform/internal/channels/instagram"
	appconfig "github.com/eksdesign/stand-platform/internal/config"
	"github.com/eksdesign/stand-platform/internal/contacts"
	"github.com/eksdesign/stand-platform/internal/notify"
	"github.com/eksdesign/stand-platform/internal/quotes"
	"github.com/eksdesign/stand-platform/internal/ratelimit"
	"github.com/eksdesign/stand-platform/pkg/logging"
)

func TestBuildRedisClientDisabled(t *testing.T) {
	assert.Nil(t, BuildRedisClient(context.Background(), nil, nil, true))
	assert.Nil(t, BuildRedisClient(context.Background(), &appconfig.Config{}, nil, true))
}

func TestBuildRedisClientVerifies(t *testing.T) {
	mr := miniredis.RunT(t)
	client := BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: mr.Addr()}, logging.New("error"), true)
	require.NotNil(t, client)
	t.Cleanup(func() { client.Close() })

	addr := mr.Addr()
	mr.Close()
	assert.Nil(t, BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: addr}, logging.New("error"), true))
}

func TestBuildDatabaseWithoutURL(t *testing.T) {
	db, err := BuildDatabase(context.Background(), &appconfig.Config{})
	require.NoError(t, err)
	assert.Nil(t, db)
	db.Close()
}

func TestBuildIntakeRepositoriesInMemory(t *testing.T) {
	contactRepo, quoteRepo := BuildIntakeRepositories(nil, logging.New("error"))
	assert.IsType(t, &contacts.InMemoryRepository{}, contactRepo)
	assert.IsType(t, &quotes.InMemoryRepository{}, quoteRepo)
}

func TestBuildRateLimitStore(t *testing.T) {
	logger := logging.New("error")
	assert.IsType(t, &ratelimit.MemoryStore{}, BuildRateLimitStore(&appconfig.Config{RateLimitBackend: "memory"}, nil, logger))
	assert.IsType(t, &ratelimit.MemoryStore{}, BuildRateLimitStore(&appconfig.Config{RateLimitBackend: "redis"}, nil, logger))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	assert.IsType(t, &ratelimit.RedisStore{}, BuildRateLimitStore(&appconfig.Config{RateLimitBackend: "redis"}, client, logger))
}

func TestBuildLimitersAppliesOverrides(t *testing.T) {
	store := ratelimit.NewMemoryStore()

	contact, quote := BuildLimiters(&appconfig.Config{ContactRateMax: 5, QuoteRateWindow: time.Hour}, store)
	assert.Equal(t, 5, contact.Policy().Max)
	assert.Equal(t, ratelimit.ContactPolicy.Window, contact.Policy().Window)
	assert.Equal(t, time.Hour, quote.Policy().Window)
	assert.Equal(t, ratelimit.QuotePolicy.Max, quote.Policy().Max)

	contact, quote = BuildLimiters(nil, store)
	assert.Equal(t, ratelimit.ContactPolicy, contact.Policy())
	assert.Equal(t, ratelimit.QuotePolicy, quote.Policy())
}

type stubSES struct{}

func (stubSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	return &sesv2.SendEmailOutput{}, nil
}

func TestBuildEmailSender(t *testing.T) {
	logger := logging.New("error")

	assert.IsType(t, &notify.StubEmailSender{}, BuildEmailSender(nil, nil, logger))
	assert.IsType(t, &notify.StubEmailSender{}, BuildEmailSender(&appconfig.Config{EmailProvider: "none"}, nil, logger))
	assert.IsType(t, &notify.StubEmailSender{}, BuildEmailSender(&appconfig.Config{EmailProvider: "sendgrid"}, nil, logger))
	assert.IsType(t, &notify.SendGridSender{}, BuildEmailSender(&appconfig.Config{EmailProvider: "sendgrid", SendGridAPIKey: "SG.key"}, nil, logger))
	assert.IsType(t, &notify.StubEmailSender{}, BuildEmailSender(&appconfig.Config{EmailProvider: "ses"}, nil, logger))
	assert.IsType(t, &notify.SESSender{}, BuildEmailSender(&appconfig.Config{EmailProvider: "ses"}, stubSES{}, logger))
}

func TestBuildMediaUploaderDisabledWithoutBucket(t *testing.T) {
	assert.False(t, BuildMediaUploader(&appconfig.Config{}, nil, nil).Enabled())
}

func TestBuildInstagramFeedWithoutToken(t *testing.T) {
	feed := BuildInstagramFeed(&appconfig.Config{InstagramAllowMock: false}, nil, logging.New("error"))
	result := feed.Recent(context.Background(), 3)
	assert.Equal(t, instagram.SourceNone, result.Source)
	assert.Empty(t, result.Posts)
}
