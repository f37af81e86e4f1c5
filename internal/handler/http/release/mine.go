package release

import (
	"encoding/json"
	"errors"
	"net/http"

	"ashes-live/internal/handler/http/auth"
	"ashes-live/internal/handler/http/respond"
	"ashes-live/internal/observability/metrics"
	relUC "ashes-live/internal/usecase/release"
)

type UpdateMineHandler struct{ Svc *relUC.Service }

// ServeHTTP replaces the caller's collection with the releases named in the
// body, a JSON array of release stubs, and returns the updated release list.
//
// @Summary      Update my collection
// @Tags         releases
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        stubs body []string true "Release stubs"
// @Success      200 {array} DTO
// @Failure      400 {string} string "Bad request - invalid input"
// @Failure      401 {string} string "Authentication required"
// @Failure      404 {string} string "Release not found"
// @Router       /releases/mine [put]
func (h UpdateMineHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respond.SafeError(w, http.StatusUnauthorized, errors.New("authentication required"))
		return
	}

	var stubs []string
	if err := json.NewDecoder(r.Body).Decode(&stubs); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid JSON body: must be a list of release stubs"))
		return
	}

	if err := h.Svc.UpdateCollection(r.Context(), user.ID, stubs); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, relUC.ErrReleaseNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}
	metrics.RecordCollectionUpdate()

	releases, err := h.Svc.List(r.Context(), false, user.ID)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTOs(releases, true))
}
