// Package card serves the card listing, card detail and card creation endpoints.
package card

import (
	"log/slog"
	"net/http"

	"ashes-live/internal/common/pagination"
	"ashes-live/internal/handler/http/auth"
	cardUC "ashes-live/internal/usecase/card"
)

// Register registers the card handlers with mux. Every route resolves an
// optional bearer token; creating cards requires an admin.
func Register(mux *http.ServeMux, svc *cardUC.Service, authn auth.Middleware, paginationCfg pagination.Config, logger *slog.Logger) {
	mux.Handle("GET    /cards", authn.Authenticate(ListHandler{
		Svc:           svc,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	}))
	mux.Handle("GET    /cards/{stub}", GetHandler{svc})

	mux.Handle("POST   /cards", authn.Authenticate(auth.RequireAdmin(CreateHandler{svc})))
}
