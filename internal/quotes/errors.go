package quotes

import "errors"

var (
	ErrContactNameRequired = errors.New("Contact name is required")
	ErrEmailRequired       = errors.New("Email is required")
	ErrInvalidEmail        = errors.New("Please enter a valid email address")
	ErrInvalidEventDate    = errors.New("Event date is not a valid date")
	ErrEventDateNotFuture  = errors.New("Event date must be in the future")
	ErrUnknownStandType    = errors.New("Please select a valid stand type")
	ErrUnknownBudgetRange  = errors.New("Please select a valid budget range")
	ErrSizeOutOfRange      = errors.New("Stand size must be a whole number between 1 and 10000 sqm")

	// ErrQuoteNotFound is returned when a quote request is not found
	ErrQuoteNotFound = errors.New("quote request not found")

	// ErrInvalidStatus is returned for status values outside the known set
	ErrInvalidStatus = errors.New("invalid quote request status")
)
