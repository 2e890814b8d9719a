package window

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidShape is returned for non-positive window dimensions.
	ErrInvalidShape = errors.New("window: invalid shape")
	// ErrUnknownType is returned by Parse for an unrecognized name.
	ErrUnknownType = errors.New("window: unknown type")
)

func validateShape(rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidShape, rows, cols)
	}
	return nil
}

func unknownType(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownType, name)
}
