package bloom

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is matched by every construction failure.
var ErrInvalidConfiguration = errors.New("bloom: invalid configuration")

type ErrInvalidSize struct{ Size int }

func (e *ErrInvalidSize) Error() string {
	return fmt.Sprintf("bloom: size %d must be at least 1", e.Size)
}

func (e *ErrInvalidSize) Unwrap() error {
	return ErrInvalidConfiguration
}
