package inventory

import "fmt"

type Op string

const (
	OpGetProducts Op = "fetch products"
	OpUpdateStock Op = "update products stock"
)

// Error reports a failed inventory call. StatusCode is the remote HTTP status,
// or zero when the request never got a response (see Err).
type Error struct {
	Op         Op
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("failed to %s (HTTP %d)", e.Op, e.StatusCode)
}

func (e *Error) Unwrap() error { return e.Err }
