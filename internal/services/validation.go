package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation marks malformed input rejected before any state change.
// Services wrap it so the transport layer can map the whole family onto a
// field-level response instead of a storage fault.
var ErrValidation = errors.New("validation failed")

// requireText rejects empty or whitespace-only required fields. Binding
// validation upstream only catches absent fields, not blank ones.
func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	return nil
}
