package vectorize

import (
	"errors"
	"fmt"
)

// errEmptyURL is returned when an action references no image URL at all.
var errEmptyURL = errors.New("empty image url")

// FetchError reports a network, timeout or non-2xx failure while fetching
// or posting data. The owning action is skipped; the batch continues.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("vectorize: fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("vectorize: fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// DecodeError reports malformed JSON or image bytes.
type DecodeError struct {
	What string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("vectorize: decode %s: %v", e.What, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
