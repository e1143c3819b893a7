package source

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"oai-harvester/internal/domain/entity"
	"oai-harvester/internal/handler/http/respond"
	"oai-harvester/internal/infra/oaipmh"
	harvestUC "oai-harvester/internal/usecase/harvest"
	srcUC "oai-harvester/internal/usecase/source"
)

var errInvalidBody = errors.New("invalid JSON body")

// decodeBody decodes a JSON request body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errInvalidBody
	}
	return nil
}

// writeError maps a source use case error to an HTTP response.
// Failures of the remote repository are 502 and carry the failure kind.
func writeError(w http.ResponseWriter, err error) {
	var (
		vErr     *entity.ValidationError
		fetchErr *oaipmh.FetchError
	)
	switch {
	case errors.As(err, &vErr):
		respond.JSON(w, http.StatusBadRequest, map[string]string{"error": vErr.Error()})
	case errors.Is(err, srcUC.ErrDuplicateSource):
		respond.SafeError(w, http.StatusConflict, srcUC.ErrDuplicateSource)
	case errors.Is(err, srcUC.ErrSourceNotFound):
		respond.SafeError(w, http.StatusNotFound, srcUC.ErrSourceNotFound)
	case errors.As(err, &fetchErr), isUpstream(err):
		kind := harvestUC.ErrorKind(err)
		if kind == "internal" {
			kind = "protocol_parse"
		}
		respond.SafeErrorV2(w, http.StatusBadGateway, &respond.AppError{
			Code:    http.StatusBadGateway,
			UserMsg: "repository request failed",
			Err:     err,
			Details: map[string]string{"kind": kind},
		})
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}

func isUpstream(err error) bool {
	switch harvestUC.ErrorKind(err) {
	case "transport", "protocol_parse", "oai_error", "bound_exceeded":
		return true
	}
	return false
}
