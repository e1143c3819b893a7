// Package harvest provides the OAI-PMH harvesting use case: the pagination
// driver that follows resumption tokens, the reconciliation writer that
// creates or overwrites records, and the publisher backfill that runs after
// each successful harvest.
package harvest

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for harvest use case operations.
var (
	// ErrSourceNotFound indicates that the harvested source id does not exist.
	// It is returned before any network call.
	ErrSourceNotFound = errors.New("source not found")

	// ErrMaxPagesExceeded indicates that a repository kept returning
	// resumption tokens past the configured page bound.
	ErrMaxPagesExceeded = errors.New("maximum number of pages exceeded")

	// ErrMaxDurationExceeded indicates that a harvest ran past the configured wall-clock bound.
	ErrMaxDurationExceeded = errors.New("maximum harvest duration exceeded")

	// ErrNoSourcesSelected indicates a batch harvest with an empty selection.
	ErrNoSourcesSelected = errors.New("no sources selected")
)

// TransportError reports a failed HTTP exchange with a repository:
// connection failure, timeout, oversized body or a non-2xx status.
// StatusCode is zero when no response was received.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport error: %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("transport error: %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolParseError reports a response body that is not a well-formed OAI-PMH document.
type ProtocolParseError struct {
	Err error
}

func (e *ProtocolParseError) Error() string {
	return fmt.Sprintf("protocol parse error: %v", e.Err)
}

func (e *ProtocolParseError) Unwrap() error { return e.Err }

// OAIError is an <error code="..."> element returned by a repository.
type OAIError struct {
	Code    string
	Message string
}

func (e *OAIError) Error() string {
	return fmt.Sprintf("oai-pmh error %s: %s", e.Code, e.Message)
}

// ErrorKind classifies err for metrics and batch reports.
func ErrorKind(err error) string {
	var (
		transportErr *TransportError
		parseErr     *ProtocolParseError
		oaiErr       *OAIError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSourceNotFound):
		return "source_not_found"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &parseErr):
		return "protocol_parse"
	case errors.As(err, &oaiErr):
		return "oai_error"
	case errors.Is(err, ErrMaxPagesExceeded), errors.Is(err, ErrMaxDurationExceeded):
		return "bound_exceeded"
	case errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
