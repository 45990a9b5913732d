package quotes

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/eksdesign/stand-platform/internal/intake"
)

// MaxFieldLength bounds every quote form field after trimming.
const MaxFieldLength = 500

// DefaultReferencePrefix is the org code on customer-facing reference numbers.
const DefaultReferencePrefix = "EKS"

// SourceWebsite marks requests that came through the public form.
const SourceWebsite = "website"

// Quote request statuses. The intake pipeline only ever writes StatusNew.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQuoted    = "quoted"
	StatusWon       = "won"
	StatusLost      = "lost"
)

// ValidStatus reports whether s is a known quote request status.
func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusContacted, StatusQuoted, StatusWon, StatusLost:
		return true
	}
	return false
}

// QuoteRequest is a stand quote submitted through the public form.
type QuoteRequest struct {
	ID          string     `json:"id"`
	ContactName string     `json:"contact_name"`
	Email       string     `json:"email"`
	CompanyName *string    `json:"company_name,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	StandType   *string    `json:"stand_type,omitempty"`
	EventName   *string    `json:"event_name,omitempty"`
	EventDate   *time.Time `json:"event_date,omitempty"`
	Location    *string    `json:"location,omitempty"`
	SizeSqm     *int       `json:"size_sqm,omitempty"`
	BudgetRange *string    `json:"budget_range,omitempty"`
	Message     *string    `json:"message,omitempty"`
	Status      string     `json:"status"`
	Source      string     `json:"source"`
	IPAddress   string     `json:"ip_address"`
	UserAgent   *string    `json:"user_agent,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// SizeValue holds the raw size_sqm scalar. The form posts it either as a
// JSON number or as a numeric string.
type SizeValue struct {
	raw string
}

// UnmarshalJSON accepts a number, a string, or null.
func (v *SizeValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		v.raw = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v.raw = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	v.raw = n.String()
	return nil
}

// Set reports whether a non-blank value was submitted.
func (v *SizeValue) Set() bool {
	return v != nil && strings.TrimSpace(v.raw) != ""
}

// Int parses the value as a whole number.
func (v *SizeValue) Int() (int, bool) {
	if !v.Set() {
		return 0, false
	}
	return intake.ParseSize(v.raw)
}

// NewSizeValue wraps a raw size, mainly for tests and internal callers.
func NewSizeValue(raw string) *SizeValue {
	return &SizeValue{raw: raw}
}

// SubmitRequest is the body of POST /quote-request.
type SubmitRequest struct {
	ContactName string     `json:"contact_name"`
	Email       string     `json:"email"`
	CompanyName *string    `json:"company_name"`
	Phone       *string    `json:"phone"`
	StandType   *string    `json:"stand_type"`
	EventName   *string    `json:"event_name"`
	EventDate   *string    `json:"event_date"`
	Location    *string    `json:"location"`
	SizeSqm     *SizeValue `json:"size_sqm"`
	BudgetRange *string    `json:"budget_range"`
	Message     *string    `json:"message"`
}

// Validate returns the first violated rule as an *intake.FieldError.
// Dates are compared against now.
func (r *SubmitRequest) Validate(now time.Time) error {
	if intake.Blank(r.ContactName) {
		return intake.NewFieldError("contact_name", ErrContactNameRequired.Error())
	}
	if intake.Blank(r.Email) {
		return intake.NewFieldError("email", ErrEmailRequired.Error())
	}
	if !intake.IsValidEmail(intake.Sanitize(r.Email, MaxFieldLength)) {
		return intake.NewFieldError("email", ErrInvalidEmail.Error())
	}
	if intake.Present(r.EventDate) {
		if _, ok := intake.ParseDate(*r.EventDate); !ok {
			return intake.NewFieldError("event_date", ErrInvalidEventDate.Error())
		}
		if !intake.IsFutureDate(*r.EventDate, now) {
			return intake.NewFieldError("event_date", ErrEventDateNotFuture.Error())
		}
	}
	if intake.Present(r.StandType) && !intake.IsKnownStandType(strings.TrimSpace(*r.StandType)) {
		return intake.NewFieldError("stand_type", ErrUnknownStandType.Error())
	}
	if intake.Present(r.BudgetRange) && !intake.IsKnownBudgetRange(strings.TrimSpace(*r.BudgetRange)) {
		return intake.NewFieldError("budget_range", ErrUnknownBudgetRange.Error())
	}
	if r.SizeSqm.Set() {
		n, ok := r.SizeSqm.Int()
		if !ok || !intake.IsSizeInRange(n) {
			return intake.NewFieldError("size_sqm", ErrSizeOutOfRange.Error())
		}
	}
	return nil
}

// toQuote builds the record to persist from a validated request.
func (r *SubmitRequest) toQuote(ipAddress string, userAgent *string) *QuoteRequest {
	q := &QuoteRequest{
		ContactName: intake.Sanitize(r.ContactName, MaxFieldLength),
		Email:       intake.Sanitize(r.Email, MaxFieldLength),
		CompanyName: intake.SanitizeOptional(r.CompanyName, MaxFieldLength),
		Phone:       intake.SanitizeOptional(r.Phone, MaxFieldLength),
		StandType:   intake.SanitizeOptional(r.StandType, MaxFieldLength),
		EventName:   intake.SanitizeOptional(r.EventName, MaxFieldLength),
		Location:    intake.SanitizeOptional(r.Location, MaxFieldLength),
		BudgetRange: intake.SanitizeOptional(r.BudgetRange, MaxFieldLength),
		Message:     intake.SanitizeOptional(r.Message, MaxFieldLength),
		Status:      StatusNew,
		Source:      SourceWebsite,
		IPAddress:   ipAddress,
		UserAgent:   userAgent,
	}
	if intake.Present(r.EventDate) {
		if t, ok := intake.ParseDate(*r.EventDate); ok {
			t = t.UTC()
			q.EventDate = &t
		}
	}
	if n, ok := r.SizeSqm.Int(); ok {
		q.SizeSqm = &n
	}
	return q
}

// ReferenceNumber derives the customer-facing code for a stored request:
// prefix, a dash, then the last six characters of id uppercased.
func ReferenceNumber(prefix, id string) string {
	if prefix == "" {
		prefix = DefaultReferencePrefix
	}
	tail := id
	if len(tail) > 6 {
		tail = tail[len(tail)-6:]
	}
	return prefix + "-" + strings.ToUpper(tail)
}

// ListFilter carries admin list filters and pagination.
type ListFilter struct {
	Status string
	Limit  int
	Offset int
}
