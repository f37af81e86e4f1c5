package release

import (
	"encoding/json"
	"errors"
	"net/http"

	"ashes-live/internal/domain/entity"
	"ashes-live/internal/handler/http/respond"
	relUC "ashes-live/internal/usecase/release"
)

type CreateHandler struct{ Svc *relUC.Service }

// ServeHTTP creates a release. The stub is derived from the name when omitted.
//
// @Summary      Create a release
// @Tags         releases
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        release body object true "Release"
// @Success      201 {object} DTO
// @Failure      400 {string} string "Bad request - invalid input"
// @Failure      401 {string} string "Authentication required"
// @Failure      403 {string} string "Forbidden - admin role required"
// @Failure      409 {string} string "Stub already taken"
// @Router       /releases [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string  `json:"name"`
		Stub         string  `json:"stub"`
		IsLegacy     bool    `json:"is_legacy"`
		IsPublic     bool    `json:"is_public"`
		IsPHG        bool    `json:"is_phg"`
		IsPromo      bool    `json:"is_promo"`
		IsRetiring   bool    `json:"is_retiring"`
		DesignerName *string `json:"designer_name"`
		DesignerURL  *string `json:"designer_url"`
		NameZh       *string `json:"name_zh"`
		StubZh       *string `json:"stub_zh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}
	if req.Name == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("name is required"))
		return
	}

	rel, err := h.Svc.Create(r.Context(), relUC.CreateInput{
		Name:         req.Name,
		Stub:         req.Stub,
		IsLegacy:     req.IsLegacy,
		IsPublic:     req.IsPublic,
		IsPHG:        req.IsPHG,
		IsPromo:      req.IsPromo,
		IsRetiring:   req.IsRetiring,
		DesignerName: req.DesignerName,
		DesignerURL:  req.DesignerURL,
		NameZh:       req.NameZh,
		StubZh:       req.StubZh,
	})
	if err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, relUC.ErrDuplicateRelease):
			code = http.StatusConflict
		case errors.Is(err, entity.ErrValidationFailed):
			code = http.StatusBadRequest
		}
		respond.SafeError(w, code, err)
		return
	}
	respond.JSON(w, http.StatusCreated, toDTO(*rel))
}
