package catalog

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/eksdesign/stand-platform/internal/intake"
)

var (
	// ErrNotFound is returned when a catalog entry does not exist.
	ErrNotFound = errors.New("catalog: not found")
	// ErrSlugTaken is returned when a slug collides with an existing entry.
	ErrSlugTaken = errors.New("catalog: slug already in use")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidSlug reports whether s is a lowercase dash-separated slug.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// StandType is a product line shown on the public site.
type StandType struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Features    []string  `json:"features"`
	Images      []string  `json:"images"`
	SortOrder   int       `json:"sort_order"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks admin input before a write.
func (s *StandType) Validate() error {
	s.Slug = strings.TrimSpace(s.Slug)
	s.Name = strings.TrimSpace(s.Name)
	if !ValidSlug(s.Slug) {
		return intake.NewFieldError("slug", "Slug must be lowercase letters, digits and dashes")
	}
	if s.Name == "" {
		return intake.NewFieldError("name", "Name is required")
	}
	s.Features = nonNil(s.Features)
	s.Images = nonNil(s.Images)
	return nil
}

// Service is a design or build service offered by the studio.
type Service struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Icon        *string   `json:"icon,omitempty"`
	Images      []string  `json:"images"`
	SortOrder   int       `json:"sort_order"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks admin input before a write.
func (s *Service) Validate() error {
	s.Slug = strings.TrimSpace(s.Slug)
	s.Title = strings.TrimSpace(s.Title)
	if !ValidSlug(s.Slug) {
		return intake.NewFieldError("slug", "Slug must be lowercase letters, digits and dashes")
	}
	if s.Title == "" {
		return intake.NewFieldError("title", "Title is required")
	}
	s.Images = nonNil(s.Images)
	return nil
}

// Project is a completed stand in the portfolio gallery.
type Project struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Client      *string   `json:"client,omitempty"`
	EventName   *string   `json:"event_name,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Year        *int      `json:"year,omitempty"`
	StandType   *string   `json:"stand_type,omitempty"`
	SizeSqm     *int      `json:"size_sqm,omitempty"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
	Featured    bool      `json:"featured"`
	Published   bool      `json:"published"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks admin input before a write.
func (p *Project) Validate() error {
	p.Slug = strings.TrimSpace(p.Slug)
	p.Title = strings.TrimSpace(p.Title)
	if !ValidSlug(p.Slug) {
		return intake.NewFieldError("slug", "Slug must be lowercase letters, digits and dashes")
	}
	if p.Title == "" {
		return intake.NewFieldError("title", "Title is required")
	}
	if p.StandType != nil && !intake.IsKnownStandType(*p.StandType) {
		return intake.NewFieldError("stand_type", "Unknown stand type")
	}
	if p.SizeSqm != nil && !intake.IsSizeInRange(*p.SizeSqm) {
		return intake.NewFieldError("size_sqm", "Stand size must be between 1 and 10000 sqm")
	}
	p.Images = nonNil(p.Images)
	return nil
}

// ProjectFilter narrows the public gallery.
type ProjectFilter struct {
	StandType     string
	FeaturedOnly  bool
	PublishedOnly bool
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
