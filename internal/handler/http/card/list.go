package card

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ashes-live/internal/common/pagination"
	"ashes-live/internal/domain/entity"
	"ashes-live/internal/handler/http/auth"
	"ashes-live/internal/handler/http/requestid"
	"ashes-live/internal/handler/http/respond"
	"ashes-live/internal/observability/logging"
	"ashes-live/internal/repository"
	cardUC "ashes-live/internal/usecase/card"
)

type ListHandler struct {
	Svc           *cardUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

// ServeHTTP lists cards one page at a time.
//
// Query parameters (all optional, besides offset and limit):
//   - q: substring of the card name or text
//   - types: card type, repeatable
//   - dice: die name, repeatable; cards must be able to use every listed die
//   - releases: "mine" for the caller's collection or "phg" for first-party releases
//   - show_legacy: list legacy printings
//   - sort: name | type | dice | cost, order: asc | desc
//
// @Summary      List cards
// @Tags         cards
// @Produce      json
// @Param        q            query  string  false  "Card name or text"
// @Param        types        query  []string  false  "Card types" collectionFormat(multi)
// @Param        dice         query  []string  false  "Die names" collectionFormat(multi)
// @Param        releases     query  string  false  "mine or phg"
// @Param        show_legacy  query  bool    false  "List legacy printings"
// @Param        sort         query  string  false  "name, type, dice or cost"
// @Param        order        query  string  false  "asc or desc"
// @Param        offset       query  int     false  "Offset" minimum(0)
// @Param        limit        query  int     false  "Page size" minimum(1)
// @Success      200 {object} pagination.Response[DTO] "One page of cards"
// @Failure      400 {string} string "Invalid query parameters"
// @Failure      401 {string} string "Invalid bearer token"
// @Router       /cards [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	reqID := requestid.FromContext(ctx)
	logger := logging.WithRequestID(ctx, h.Logger)

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		pagination.LogError(logger, reqID, params, err, "validation")
		pagination.RecordError("validation")
		pagination.RecordRequest(http.StatusBadRequest, params)
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	var userID string
	user, _ := auth.UserFromContext(ctx)
	if user != nil {
		userID = user.Badge
	}
	filters, err := ParseFilters(r, user)
	if err != nil {
		pagination.RecordError("validation")
		pagination.RecordRequest(http.StatusBadRequest, params)
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	pagination.LogRequest(logger, reqID, userID, params)

	resp, err := pagination.Compute(ctx, h.Svc.Listing(filters), params, pagination.RequestURL(r), ToDTO)
	if err != nil {
		code, errType := http.StatusInternalServerError, "database"
		if errors.Is(err, pagination.ErrInvalidPagingParameter) || errors.Is(err, pagination.ErrInvalidURL) {
			code, errType = http.StatusBadRequest, "validation"
		}
		pagination.LogError(logger, reqID, params, err, errType)
		pagination.RecordError(errType)
		pagination.RecordRequest(code, params)
		respond.SafeError(w, code, err)
		return
	}

	duration := time.Since(start)
	pagination.RecordRequest(http.StatusOK, params)
	pagination.RecordDuration("handler", duration.Seconds())
	pagination.UpdateTotalCount(resp.Count)
	pagination.LogResponse(logger, reqID, params, len(resp.Results), duration, http.StatusOK)

	respond.JSON(w, http.StatusOK, resp)
}

// ParseFilters reads the listing filters from the query string of r. The
// "mine" release scope applies to user; it is ignored for anonymous callers.
func ParseFilters(r *http.Request, user *entity.User) (repository.CardFilters, error) {
	query := r.URL.Query()
	filters := repository.CardFilters{
		Query: strings.TrimSpace(query.Get("q")),
		Sort:  repository.SortByName,
	}

	for _, t := range query["types"] {
		if !entity.IsKnownCardType(t) {
			return filters, fmt.Errorf("invalid card type %q", t)
		}
		filters.Types = append(filters.Types, t)
	}

	dice, err := entity.EncodeDice(query["dice"])
	if err != nil {
		return filters, err
	}
	filters.Dice = dice

	switch scope := query.Get("releases"); scope {
	case "", "all":
		filters.Releases = repository.ReleasesAll
	case string(repository.ReleasesMine):
		filters.Releases = repository.ReleasesMine
		if user != nil {
			filters.UserID = user.ID
		}
	case string(repository.ReleasesPHG):
		filters.Releases = repository.ReleasesPHG
	default:
		return filters, fmt.Errorf("invalid releases filter %q: must be all, mine or phg", scope)
	}

	if v := query.Get("show_legacy"); v != "" {
		showLegacy, err := strconv.ParseBool(v)
		if err != nil {
			return filters, fmt.Errorf("invalid show_legacy value %q", v)
		}
		filters.ShowLegacy = showLegacy
	}

	switch sort := repository.CardSort(query.Get("sort")); sort {
	case "":
	case repository.SortByName, repository.SortByType, repository.SortByDice, repository.SortByCost:
		filters.Sort = sort
	default:
		return filters, fmt.Errorf("invalid sort %q: must be name, type, dice or cost", sort)
	}

	switch order := query.Get("order"); order {
	case "", "asc":
	case "desc":
		filters.Descending = true
	default:
		return filters, fmt.Errorf("invalid order %q: must be asc or desc", order)
	}

	return filters, nil
}
