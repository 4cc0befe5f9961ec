package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"agoradb/pkg/api/handlers"
	"agoradb/pkg/forum"
)

// Router builds the /v1 API surface over the given forum service.
// Listing routes are open to any authenticated key; mutating routes
// additionally require a signed caller identity (see handlers).
func Router(svc *forum.Service) http.Handler {
	r := mux.NewRouter()
	v1 := r.PathPrefix("/v1").Subrouter()
	handlers.Register(v1, svc)
	return r
}
