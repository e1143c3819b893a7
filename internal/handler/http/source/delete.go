package source

import (
	"net/http"

	"oai-harvester/internal/handler/http/pathutil"
	"oai-harvester/internal/handler/http/respond"
	srcUC "oai-harvester/internal/usecase/source"
)

type DeleteHandler struct{ Svc srcUC.Service }

func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
