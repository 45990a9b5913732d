package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultGraphAPIBase = "https://graph.instagram.com"
	defaultHTTPTimeout  = 10 * time.Second
	mediaFields         = "id,caption,media_type,media_url,permalink,thumbnail_url,timestamp"
)

// Client reads the account's media via the Instagram Graph API.
type Client struct {
	accessToken  string
	graphAPIBase string
	httpClient   *http.Client
	limiter      *rate.Limiter
}

// NewClient creates a new Graph API client. Outbound calls are throttled to
// one per second with a small burst.
func NewClient(accessToken string) *Client {
	return &Client{
		accessToken:  accessToken,
		graphAPIBase: defaultGraphAPIBase,
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
		limiter:      rate.NewLimiter(rate.Every(time.Second), 3),
	}
}

// SetGraphAPIBase overrides the Graph API base URL (useful for testing).
func (c *Client) SetGraphAPIBase(base string) {
	c.graphAPIBase = base
}

// SetRateLimit replaces the outbound throttle.
func (c *Client) SetRateLimit(limit rate.Limit, burst int) {
	c.limiter = rate.NewLimiter(limit, burst)
}

// RecentMedia returns up to limit of the account's newest posts.
func (c *Client) RecentMedia(ctx context.Context, limit int) ([]Post, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("instagram: throttle: %w", err)
	}

	q := url.Values{}
	q.Set("fields", mediaFields)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("access_token", c.accessToken)
	endpoint := c.graphAPIBase + "/me/media?" + q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("instagram: create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("instagram: fetch media: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("instagram: read response: %w", err)
	}

	var mediaResp mediaResponse
	if err := json.Unmarshal(respBody, &mediaResp); err != nil {
		return nil, fmt.Errorf("instagram: unmarshal response: %w", err)
	}

	if mediaResp.Error != nil {
		return nil, fmt.Errorf("instagram: API error %d: %s", mediaResp.Error.Code, mediaResp.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("instagram: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	posts := make([]Post, 0, len(mediaResp.Data))
	for _, m := range mediaResp.Data {
		if len(posts) == limit {
			break
		}
		posts = append(posts, m.post())
	}
	return posts, nil
}
