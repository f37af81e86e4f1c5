// Package release serves the release list and the caller's collection.
package release

import (
	"net/http"

	"ashes-live/internal/handler/http/auth"
	relUC "ashes-live/internal/usecase/release"
)

// Register registers the release handlers with mux.
func Register(mux *http.ServeMux, svc *relUC.Service, authn auth.Middleware) {
	mux.Handle("GET    /releases", authn.Authenticate(ListHandler{svc}))

	mux.Handle("PUT    /releases/mine", authn.Authenticate(auth.RequireUser(UpdateMineHandler{svc})))
	mux.Handle("POST   /releases", authn.Authenticate(auth.RequireAdmin(CreateHandler{svc})))
}
