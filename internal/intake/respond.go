package intake

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes caps intake request bodies.
const MaxBodyBytes = 64 << 10

// Client-facing messages for non-validation outcomes. They never carry
// backend detail or counter state.
const (
	MsgInvalidBody  = "Invalid request body"
	MsgRateLimited  = "Too many requests. Please try again later."
	MsgServerFailed = "Something went wrong. Please try again later."
)

// FieldError is a client input error tied to one form field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewFieldError builds a FieldError.
func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError writes {"error": message} with the given status.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// DecodeJSON decodes a single JSON object from the request body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("intake: decode body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("intake: body must contain a single JSON object")
	}
	return nil
}
