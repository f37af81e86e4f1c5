package release

import (
	"fmt"
	"net/http"
	"strconv"

	"ashes-live/internal/handler/http/auth"
	"ashes-live/internal/handler/http/respond"
	relUC "ashes-live/internal/usecase/release"
)

type ListHandler struct{ Svc *relUC.Service }

// ServeHTTP lists public releases. Authenticated callers also learn which
// releases are in their collection.
//
// @Summary      List releases
// @Tags         releases
// @Produce      json
// @Param        show_legacy  query  bool  false  "List legacy releases"
// @Success      200 {array} DTO
// @Failure      400 {string} string "Invalid show_legacy"
// @Router       /releases [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	showLegacy, err := parseShowLegacy(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	var userID int64
	user, loggedIn := auth.UserFromContext(r.Context())
	if loggedIn {
		userID = user.ID
	}

	releases, err := h.Svc.List(r.Context(), showLegacy, userID)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTOs(releases, loggedIn))
}

func parseShowLegacy(r *http.Request) (bool, error) {
	v := r.URL.Query().Get("show_legacy")
	if v == "" {
		return false, nil
	}
	showLegacy, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid show_legacy value %q", v)
	}
	return showLegacy, nil
}
