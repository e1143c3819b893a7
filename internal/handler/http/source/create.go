package source

import (
	"errors"
	"net/http"

	"oai-harvester/internal/handler/http/pathutil"
	"oai-harvester/internal/handler/http/respond"
	srcUC "oai-harvester/internal/usecase/source"
)

type createRequest struct {
	BaseURL        string `json:"base_url"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	OfficialURL    string `json:"official_url"`
	MetadataPrefix string `json:"metadata_prefix"`
}

// CreateHandler registers a repository. Without a name the repository is
// identified first and the response carries its descriptor.
type CreateHandler struct{ Svc srcUC.Service }

func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if req.BaseURL == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("base_url required"))
		return
	}
	src, err := h.Svc.Create(r.Context(), srcUC.CreateInput{
		BaseURL:        req.BaseURL,
		Name:           req.Name,
		Description:    req.Description,
		OfficialURL:    req.OfficialURL,
		MetadataPrefix: req.MetadataPrefix,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, toDTO(src))
}

// RefreshHandler re-identifies a registered repository.
type RefreshHandler struct{ Svc srcUC.Service }

func (h RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	src, err := h.Svc.Refresh(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(src))
}
