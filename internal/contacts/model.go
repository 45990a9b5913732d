package contacts

import (
	"time"

	"github.com/eksdesign/stand-platform/internal/intake"
)

// MaxFieldLength bounds every contact form field after trimming.
const MaxFieldLength = 1000

// Contact message statuses. The intake pipeline only ever writes StatusUnread.
const (
	StatusUnread     = "unread"
	StatusInProgress = "in_progress"
	StatusReplied    = "replied"
	StatusArchived   = "archived"
)

// ValidStatus reports whether s is a known contact message status.
func ValidStatus(s string) bool {
	switch s {
	case StatusUnread, StatusInProgress, StatusReplied, StatusArchived:
		return true
	}
	return false
}

// ContactMessage is a message submitted through the public contact form.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Subject   *string   `json:"subject,omitempty"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	IPAddress string    `json:"ip_address"`
	UserAgent *string   `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubmitRequest is the body of POST /contact.
type SubmitRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone"`
	Subject *string `json:"subject"`
	Message string  `json:"message"`
}

// Validate returns the first violated rule as an *intake.FieldError.
func (r *SubmitRequest) Validate() error {
	if intake.Blank(r.Name) {
		return intake.NewFieldError("name", ErrNameRequired.Error())
	}
	if intake.Blank(r.Email) {
		return intake.NewFieldError("email", ErrEmailRequired.Error())
	}
	if intake.Blank(r.Message) {
		return intake.NewFieldError("message", ErrMessageRequired.Error())
	}
	if !intake.IsValidEmail(intake.Sanitize(r.Email, MaxFieldLength)) {
		return intake.NewFieldError("email", ErrInvalidEmail.Error())
	}
	return nil
}

// toMessage builds the record to persist from a validated request.
func (r *SubmitRequest) toMessage(ipAddress string, userAgent *string) *ContactMessage {
	return &ContactMessage{
		Name:      intake.Sanitize(r.Name, MaxFieldLength),
		Email:     intake.Sanitize(r.Email, MaxFieldLength),
		Phone:     intake.SanitizeOptional(r.Phone, MaxFieldLength),
		Subject:   intake.SanitizeOptional(r.Subject, MaxFieldLength),
		Message:   intake.Sanitize(r.Message, MaxFieldLength),
		Status:    StatusUnread,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// ListFilter carries admin list filters and pagination.
type ListFilter struct {
	Status string
	Limit  int
	Offset int
}
