package source

import (
	"net/http"

	srcUC "oai-harvester/internal/usecase/source"
)

// Register registers all source-related HTTP handlers with the given mux.
// Identify and sets lookups are read-only and persist nothing.
func Register(mux *http.ServeMux, svc srcUC.Service) {
	mux.Handle("GET    /sources", ListHandler{svc})
	mux.Handle("GET    /sources/{id}", GetHandler{svc})
	mux.Handle("POST   /sources", CreateHandler{svc})
	mux.Handle("POST   /sources/{id}/refresh", RefreshHandler{svc})
	mux.Handle("DELETE /sources/{id}", DeleteHandler{svc})

	mux.Handle("POST   /sources/identify", IdentifyHandler{svc})
	mux.Handle("POST   /sources/sets", SetsHandler{svc})
}
