package contacts

import "errors"

var (
	ErrNameRequired    = errors.New("Name is required")
	ErrEmailRequired   = errors.New("Email is required")
	ErrMessageRequired = errors.New("Message is required")
	ErrInvalidEmail    = errors.New("Please enter a valid email address")

	// ErrContactNotFound is returned when a contact message is not found
	ErrContactNotFound = errors.New("contact message not found")

	// ErrInvalidStatus is returned for status values outside the known set
	ErrInvalidStatus = errors.New("invalid contact message status")
)
