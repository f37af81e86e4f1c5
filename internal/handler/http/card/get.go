package card

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"ashes-live/internal/handler/http/respond"
	cardUC "ashes-live/internal/usecase/card"
)

type GetHandler struct{ Svc *cardUC.Service }

// ServeHTTP returns one card with the conjurations it brings into play and
// the cards that summon it. show_legacy selects the legacy printing.
//
// @Summary      Get a card
// @Description  The stub may also be the traditional Chinese stub of the card.
// @Tags         cards
// @Produce      json
// @Param        stub         path   string  true   "Card stub"
// @Param        show_legacy  query  bool    false  "Legacy printing"
// @Success      200 {object} DetailDTO
// @Failure      400 {string} string "Invalid show_legacy"
// @Failure      404 {string} string "Card not found"
// @Router       /cards/{stub} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	showLegacy := false
	if v := r.URL.Query().Get("show_legacy"); v != "" {
		var err error
		if showLegacy, err = strconv.ParseBool(v); err != nil {
			respond.SafeError(w, http.StatusBadRequest, fmt.Errorf("invalid show_legacy value %q", v))
			return
		}
	}

	card, err := h.Svc.Get(r.Context(), r.PathValue("stub"), showLegacy)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, cardUC.ErrInvalidStub) {
			code = http.StatusBadRequest
		} else if errors.Is(err, cardUC.ErrCardNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, ToDetailDTO(card))
}
