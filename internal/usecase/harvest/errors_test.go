package harvest_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"oai-harvester/internal/usecase/harvest"
)

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"source not found", fmt.Errorf("harvest source 1: %w", harvest.ErrSourceNotFound), "source_not_found"},
		{"transport", &harvest.TransportError{URL: "u", StatusCode: 503}, "transport"},
		{"wrapped transport", fmt.Errorf("page 2: %w", &harvest.TransportError{URL: "u", Err: errors.New("eof")}), "transport"},
		{"parse", &harvest.ProtocolParseError{Err: errors.New("bad xml")}, "protocol_parse"},
		{"oai", &harvest.OAIError{Code: "badResumptionToken"}, "oai_error"},
		{"max pages", harvest.ErrMaxPagesExceeded, "bound_exceeded"},
		{"max duration", fmt.Errorf("%w: %w", harvest.ErrMaxDurationExceeded, context.DeadlineExceeded), "bound_exceeded"},
		{"canceled in transport", &harvest.TransportError{URL: "u", Err: context.Canceled}, "canceled"},
		{"deadline", context.DeadlineExceeded, "canceled"},
		{"other", errors.New("disk full"), "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := harvest.ErrorKind(tt.err); got != tt.want {
				t.Errorf("ErrorKind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransportError_Message(t *testing.T) {
	withStatus := &harvest.TransportError{URL: "https://x/oai?verb=Identify", StatusCode: 502}
	if withStatus.Error() != "transport error: https://x/oai?verb=Identify: status 502" {
		t.Errorf("Error() = %q", withStatus.Error())
	}

	cause := errors.New("connection refused")
	noStatus := &harvest.TransportError{URL: "https://x/oai", Err: cause}
	if !errors.Is(noStatus, cause) {
		t.Error("TransportError does not unwrap its cause")
	}
}
