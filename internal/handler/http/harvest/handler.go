// Package harvest exposes the harvest use case over HTTP: single-source
// harvests, batch harvests and the publisher backfill.
package harvest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"oai-harvester/internal/handler/http/pathutil"
	"oai-harvester/internal/handler/http/respond"
	loader "oai-harvester/internal/pkg/config"
	harvestUC "oai-harvester/internal/usecase/harvest"
)

// Harvester is the subset of the harvest service the handlers call.
type Harvester interface {
	Harvest(ctx context.Context, sourceID int64, metadataPrefix string) (*harvestUC.Summary, error)
	HarvestMany(ctx context.Context, ids []int64, metadataPrefix string) (*harvestUC.BatchResult, error)
	HarvestAll(ctx context.Context, metadataPrefix string) (*harvestUC.BatchResult, error)
	Backfill(ctx context.Context) (int, error)
}

var errInvalidBody = errors.New("invalid JSON body")

type harvestRequest struct {
	MetadataPrefix string `json:"metadata_prefix"`
}

type batchRequest struct {
	SourceIDs      []int64 `json:"source_ids"`
	All            bool    `json:"all"`
	MetadataPrefix string  `json:"metadata_prefix"`
}

// decodeBody decodes an optional JSON body and checks its metadata prefix.
// An empty prefix means each source's own prefix.
func decodeBody(r *http.Request, v any, prefix *string) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errInvalidBody
	}
	if *prefix != "" {
		if err := loader.ValidateMetadataPrefix(*prefix); err != nil {
			return errors.New("invalid metadata_prefix")
		}
	}
	return nil
}

// HarvestHandler runs one harvest synchronously and returns its summary.
// A failed harvest answers with the failure kind and the partial summary.
type HarvestHandler struct{ Svc Harvester }

func (h HarvestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	var req harvestRequest
	if err := decodeBody(r, &req, &req.MetadataPrefix); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	sum, err := h.Svc.Harvest(r.Context(), id, req.MetadataPrefix)
	if err != nil {
		writeHarvestError(w, err, sum)
		return
	}
	respond.JSON(w, http.StatusOK, sum)
}

func writeHarvestError(w http.ResponseWriter, err error, sum *harvestUC.Summary) {
	kind := harvestUC.ErrorKind(err)
	var code int
	var msg string
	switch kind {
	case "source_not_found":
		respond.SafeError(w, http.StatusNotFound, harvestUC.ErrSourceNotFound)
		return
	case "transport", "protocol_parse", "oai_error", "bound_exceeded":
		code, msg = http.StatusBadGateway, "harvest failed"
	case "canceled":
		code, msg = http.StatusServiceUnavailable, "harvest canceled"
	default:
		code, msg = http.StatusInternalServerError, "internal server error"
	}
	respond.SafeErrorV2(w, code, &respond.AppError{
		Code:    code,
		UserMsg: msg,
		Err:     err,
		Details: map[string]any{"kind": kind, "summary": sum},
	})
}

// BatchHandler harvests a selection of sources, or all of them.
// Per-source failures are reported in the result and do not fail the request.
type BatchHandler struct{ Svc Harvester }

func (h BatchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeBody(r, &req, &req.MetadataPrefix); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if req.All && len(req.SourceIDs) > 0 {
		respond.SafeError(w, http.StatusBadRequest, errors.New("source_ids must not be combined with all"))
		return
	}
	for _, id := range req.SourceIDs {
		if id <= 0 {
			respond.SafeError(w, http.StatusBadRequest, pathutil.ErrInvalidID)
			return
		}
	}

	var (
		res *harvestUC.BatchResult
		err error
	)
	if req.All {
		res, err = h.Svc.HarvestAll(r.Context(), req.MetadataPrefix)
	} else {
		res, err = h.Svc.HarvestMany(r.Context(), req.SourceIDs, req.MetadataPrefix)
	}
	if err != nil {
		if errors.Is(err, harvestUC.ErrNoSourcesSelected) {
			respond.SafeError(w, http.StatusBadRequest, err)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, res)
}

// BackfillHandler fills empty source publishers from harvested records.
type BackfillHandler struct{ Svc Harvester }

func (h BackfillHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n, err := h.Svc.Backfill(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]int{"filled": n})
}

// Register registers the harvest routes with the given mux.
func Register(mux *http.ServeMux, svc Harvester) {
	mux.Handle("POST /sources/{id}/harvest", HarvestHandler{svc})
	mux.Handle("POST /harvests", BatchHandler{svc})
	mux.Handle("POST /harvests/backfill", BackfillHandler{svc})
}
