package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/eksdesign/stand-platform/pkg/logging"
	"github.com/google/uuid"
)

// MaxUploadBytes caps a single image upload.
const MaxUploadBytes = 10 << 20

var (
	ErrNotConfigured      = errors.New("media: uploads are not configured")
	ErrUnsupportedType    = errors.New("media: only JPEG, PNG, WebP and GIF images are accepted")
	ErrTooLarge           = errors.New("media: file exceeds the 10 MiB limit")
	ErrEmptyUpload        = errors.New("media: file is empty")
	allowedImageExtension = map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
		"image/gif":  ".gif",
	}
)

// S3API is the subset of the S3 client used by Uploader.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config controls where uploads land and how their URLs are built.
type Config struct {
	Bucket string
	Region string
	// PublicBaseURL is usually a CDN origin. Empty means the bucket's S3 URL.
	PublicBaseURL string
}

// Uploader stores admin images in S3.
type Uploader struct {
	client  S3API
	bucket  string
	baseURL string
	logger  *logging.Logger
	now     func() time.Time
}

// NewUploader creates an Uploader. If bucket or client is missing, Upload
// returns ErrNotConfigured.
func NewUploader(client S3API, cfg Config, logger *logging.Logger) *Uploader {
	if logger == nil {
		logger = logging.Default()
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")
	if base == "" && cfg.Bucket != "" {
		region := cfg.Region
		if region == "" {
			region = "us-east-1"
		}
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
	}
	return &Uploader{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: base,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Enabled returns true if uploads are configured.
func (u *Uploader) Enabled() bool {
	return u != nil && u.client != nil && u.bucket != ""
}

// Result describes a stored object.
type Result struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Upload sniffs the image type from its bytes, stores it under
// uploads/YYYY/MM/<uuid><ext> and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, r io.Reader) (*Result, error) {
	if !u.Enabled() {
		return nil, ErrNotConfigured
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("media: read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}
	if len(data) > MaxUploadBytes {
		return nil, ErrTooLarge
	}

	contentType := http.DetectContentType(data)
	ext, ok := allowedImageExtension[contentType]
	if !ok {
		return nil, ErrUnsupportedType
	}

	now := u.now()
	key := fmt.Sprintf("uploads/%d/%02d/%s%s", now.Year(), now.Month(), uuid.New().String(), ext)

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(u.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return nil, fmt.Errorf("media: s3 put %s: %w", key, err)
	}

	u.logger.Info("media uploaded", "key", key, "content_type", contentType, "bytes", len(data))
	return &Result{
		Key:         key,
		URL:         u.baseURL + "/" + key,
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}
