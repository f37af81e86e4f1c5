package card

import (
	"encoding/json"
	"errors"
	"net/http"

	"ashes-live/internal/domain/entity"
	"ashes-live/internal/handler/http/respond"
	"ashes-live/internal/observability/metrics"
	cardUC "ashes-live/internal/usecase/card"
	"ashes-live/internal/usecase/release"
)

type CreateHandler struct{ Svc *cardUC.Service }

type createRequest struct {
	EntityID        int64    `json:"entity_id"`
	Name            string   `json:"name"`
	Stub            string   `json:"stub"`
	Release         string   `json:"release"`
	CardType        string   `json:"card_type"`
	Phoenixborn     *string  `json:"phoenixborn"`
	IsSummonSpell   bool     `json:"is_summon_spell"`
	IsLegacy        bool     `json:"is_legacy"`
	Version         int      `json:"version"`
	Copies          *int     `json:"copies"`
	Dice            []string `json:"dice"`
	AltDice         []string `json:"alt_dice"`
	Placement       string   `json:"placement"`
	Cost            []string `json:"cost"`
	EffectMagicCost []string `json:"effect_magic_cost"`
	Text            string   `json:"text"`
	Attack          *string  `json:"attack"`
	Life            *string  `json:"life"`
	Recover         *string  `json:"recover"`
	Battlefield     *int     `json:"battlefield"`
	Spellboard      *int     `json:"spellboard"`
	CanEffectRepeat bool     `json:"can_effect_repeat"`
	ArtistName      *string  `json:"artist_name"`
	ArtistURL       *string  `json:"artist_url"`
	NameZh          *string  `json:"name_zh"`
	StubZh          *string  `json:"stub_zh"`
	TextZh          *string  `json:"text_zh"`
}

// ServeHTTP creates a card. When dice is omitted the card's dice are read
// from its magic costs; conjurations named in the text are linked.
//
// @Summary      Create a card
// @Tags         cards
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        card body createRequest true "Card"
// @Success      201 {object} DetailDTO
// @Failure      400 {string} string "Bad request - invalid input"
// @Failure      401 {string} string "Authentication required"
// @Failure      403 {string} string "Forbidden - admin role required"
// @Failure      404 {string} string "Release not found"
// @Failure      409 {string} string "Stub already taken"
// @Router       /cards [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}
	if req.Name == "" || req.Release == "" || req.CardType == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("name, release and card_type are required"))
		return
	}

	var detailsZh *entity.CardDetails
	if req.TextZh != nil {
		detailsZh = &entity.CardDetails{Text: *req.TextZh}
	}

	card, err := h.Svc.Create(r.Context(), cardUC.CreateInput{
		EntityID:      req.EntityID,
		Name:          req.Name,
		Stub:          req.Stub,
		ReleaseStub:   req.Release,
		CardType:      req.CardType,
		Phoenixborn:   req.Phoenixborn,
		IsSummonSpell: req.IsSummonSpell,
		IsLegacy:      req.IsLegacy,
		Version:       req.Version,
		Copies:        req.Copies,
		Dice:          req.Dice,
		AltDice:       req.AltDice,
		Details: entity.CardDetails{
			Text:            req.Text,
			Cost:            req.Cost,
			EffectMagicCost: req.EffectMagicCost,
			Placement:       req.Placement,
			Attack:          req.Attack,
			Life:            req.Life,
			Recover:         req.Recover,
			Battlefield:     req.Battlefield,
			Spellboard:      req.Spellboard,
			CanEffectRepeat: req.CanEffectRepeat,
		},
		ArtistName: req.ArtistName,
		ArtistURL:  req.ArtistURL,
		NameZh:     req.NameZh,
		StubZh:     req.StubZh,
		DetailsZh:  detailsZh,
	})
	if err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, release.ErrReleaseNotFound):
			code = http.StatusNotFound
		case errors.Is(err, cardUC.ErrDuplicateCard):
			code = http.StatusConflict
		case errors.Is(err, entity.ErrUnknownDieKind), errors.Is(err, entity.ErrValidationFailed):
			code = http.StatusBadRequest
		}
		respond.SafeError(w, code, err)
		return
	}

	metrics.RecordCardCreated(card.CardType)
	w.Header().Set("Location", "/cards/"+card.Stub)
	respond.JSON(w, http.StatusCreated, ToDetailDTO(card))
}
