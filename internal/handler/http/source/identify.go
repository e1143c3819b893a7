package source

import (
	"errors"
	"net/http"

	"oai-harvester/internal/handler/http/respond"
	srcUC "oai-harvester/internal/usecase/source"
)

type baseURLRequest struct {
	BaseURL string `json:"base_url"`
}

func (h baseURLRequest) validate() error {
	if h.BaseURL == "" {
		return errors.New("base_url required")
	}
	return nil
}

// IdentifyHandler returns a repository's Identify descriptor without registering it.
type IdentifyHandler struct{ Svc srcUC.Service }

func (h IdentifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req baseURLRequest
	if err := decodeBody(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if err := req.validate(); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	desc, err := h.Svc.Identify(r.Context(), req.BaseURL)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDescriptorDTO(*desc))
}

// SetsHandler returns the sets a repository advertises.
type SetsHandler struct{ Svc srcUC.Service }

func (h SetsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req baseURLRequest
	if err := decodeBody(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if err := req.validate(); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	sets, err := h.Svc.ListSets(r.Context(), req.BaseURL)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, sets)
}
