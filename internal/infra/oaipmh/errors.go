package oaipmh

import (
	"errors"
	"fmt"
)

// ErrResponseTooLarge indicates a response body above the configured cap.
var ErrResponseTooLarge = errors.New("response body exceeds size limit")

// FetchError reports why Identify could not produce a descriptor.
// Step is "request" or "parse"; Field names the missing or invalid element.
type FetchError struct {
	BaseURL string
	Step    string
	Field   string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("identify %s: %s: field %s: %v", e.BaseURL, e.Step, e.Field, e.Err)
	}
	return fmt.Sprintf("identify %s: %s: %v", e.BaseURL, e.Step, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

var errMissing = errors.New("required element missing")
