package instagram

import "time"

// Post is a single media item shown in the site's Instagram strip.
type Post struct {
	ID           string    `json:"id"`
	Caption      string    `json:"caption,omitempty"`
	MediaType    string    `json:"media_type"`
	MediaURL     string    `json:"media_url"`
	Permalink    string    `json:"permalink"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// ImageURL is the URL to render for the post. Videos use their thumbnail.
func (p Post) ImageURL() string {
	if p.MediaType == "VIDEO" && p.ThumbnailURL != "" {
		return p.ThumbnailURL
	}
	return p.MediaURL
}

// graphTimeLayout is the Graph API timestamp format, e.g. 2017-08-31T18:10:00+0000.
const graphTimeLayout = "2006-01-02T15:04:05-0700"

// mediaResponse is the Graph API envelope for /me/media.
type mediaResponse struct {
	Data  []graphMedia `json:"data"`
	Error *APIError    `json:"error,omitempty"`
}

type graphMedia struct {
	ID           string `json:"id"`
	Caption      string `json:"caption"`
	MediaType    string `json:"media_type"`
	MediaURL     string `json:"media_url"`
	Permalink    string `json:"permalink"`
	ThumbnailURL string `json:"thumbnail_url"`
	Timestamp    string `json:"timestamp"`
}

func (m graphMedia) post() Post {
	p := Post{
		ID:           m.ID,
		Caption:      m.Caption,
		MediaType:    m.MediaType,
		MediaURL:     m.MediaURL,
		Permalink:    m.Permalink,
		ThumbnailURL: m.ThumbnailURL,
	}
	if t, err := time.Parse(graphTimeLayout, m.Timestamp); err == nil {
		p.Timestamp = t.UTC()
	} else if t, err := time.Parse(time.RFC3339, m.Timestamp); err == nil {
		p.Timestamp = t.UTC()
	}
	return p
}

// APIError is returned by the Graph API on failure.
type APIError struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	FBTraceID string `json:"fbtrace_id"`
}

// Feed sources reported to the site so it can label stale or placeholder content.
const (
	SourceInstagram = "instagram"
	SourceCache     = "cache"
	SourceMock      = "mock"
	SourceNone      = "none"
)

// FeedResult is the body of GET /instagram/feed.
type FeedResult struct {
	Posts  []Post `json:"posts"`
	Source string `json:"source"`
}
