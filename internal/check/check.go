// Package check holds argument guards shared by the stores. Guards run
// before any I/O and report identity.ErrInvalidArgument so callers can
// match the failure with errors.Is.
package check

import (
	"fmt"
	"strings"

	identity "github.com/panoukos41/couchdb-identity"
)

// NotEmpty fails when value is empty or whitespace-only.
func NotEmpty(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s must not be empty", identity.ErrInvalidArgument, name)
	}
	return nil
}

// Nil reports a nil required argument.
func Nil(name string) error {
	return fmt.Errorf("%w: %s is nil", identity.ErrInvalidArgument, name)
}
