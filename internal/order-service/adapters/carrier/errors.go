package carrier

import "fmt"

// Error is returned for every failed quote request. Either StatusCode is set
// (the carrier answered with a non-2xx status) or Err holds the transport or
// decoding failure.
type Error struct {
	StatusCode int
	Status     string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("error to calculate shipping: %d - %s", e.StatusCode, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }
