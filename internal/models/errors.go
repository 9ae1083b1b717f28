package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation.
var (
	ErrMissingEntityID   = errors.New("entity id is required")
	ErrMissingEntityType = errors.New("entity type is required")
	ErrMissingField      = errors.New("field is required")
	ErrMissingAction     = errors.New("action is required")
	ErrMissingTitle      = errors.New("title is required")
	ErrMissingName       = errors.New("name is required")
	ErrMissingBatchID    = errors.New("batch id is required")
	ErrMissingBatchDate  = errors.New("batch date is required")
	ErrMissingStartDate  = errors.New("start date is required")
	ErrNegativeShelfLife = errors.New("shelf life months must not be negative")
)

// Sentinel errors for entity lookups.
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrContactNotFound    = errors.New("contact not found")
	ErrBatchNotFound      = errors.New("batch not found")
	ErrLabelSpecNotFound  = errors.New("label spec not found")
	ErrProtocolNotFound   = errors.New("stability protocol not found")
	ErrComplaintNotFound  = errors.New("complaint not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
)

// ErrDuplicateKey indicates a unique constraint violation (maps to HTTP 409 Conflict).
var ErrDuplicateKey = errors.New("duplicate key")

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%s exceeds maximum length of %d", field, maxLen)
}
