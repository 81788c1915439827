package mwsr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCapacity = errors.New("mwsr: capacity must be in [1, 64]")
	ErrInvariant       = errors.New("mwsr: invariant violated")
	ErrConcurrentPop   = errors.New("mwsr: concurrent Pop, only one consumer allowed")
)

// invariantf builds the value a broken invariant panics with. It always
// matches ErrInvariant under errors.Is.
func invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvariant}, args...)...)
}
