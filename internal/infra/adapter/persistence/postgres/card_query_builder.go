package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"ashes-live/internal/domain/entity"
	"ashes-live/internal/repository"
)

// DiceWeightExpr is the SQL form of entity.DiceWeight for the card table
// aliased as alias.
func DiceWeightExpr(alias string) string {
	return fmt.Sprintf("(%[1]s.dice_flags | %[1]s.alt_dice_flags)", alias)
}

// TypeRankExpr is the SQL form of entity.TypeRank for the card table aliased
// as alias. It is generated from entity.CardTypeOrder so the two cannot drift.
func TypeRankExpr(alias string) string {
	var b strings.Builder
	b.WriteString("CASE ")
	b.WriteString(alias)
	b.WriteString(".card_type")
	order := entity.CardTypeOrder()
	for i, t := range order {
		b.WriteString(" WHEN '")
		b.WriteString(strings.ReplaceAll(t, "'", "''"))
		b.WriteString("' THEN ")
		b.WriteString(strconv.Itoa(i))
	}
	b.WriteString(" ELSE ")
	b.WriteString(strconv.Itoa(len(order)))
	b.WriteString(" END")
	return b.String()
}

// CardQueryBuilder builds the WHERE and ORDER BY clauses of card listings.
// The same WHERE clause is shared by the COUNT and SELECT queries.
// Card columns use the alias "c" and release columns the alias "r".
type CardQueryBuilder struct{}

// NewCardQueryBuilder creates a new query builder instance.
func NewCardQueryBuilder() *CardQueryBuilder {
	return &CardQueryBuilder{}
}

// BuildWhereClause builds the WHERE clause and its $N arguments for filters.
// The clause always restricts to public releases of the requested era.
func (qb *CardQueryBuilder) BuildWhereClause(filters repository.CardFilters) (clause string, args []any) {
	conditions := []string{"c.is_legacy = $1", "r.is_public = TRUE"}
	args = append(args, filters.ShowLegacy)
	next := func(v any) int {
		args = append(args, v)
		return len(args)
	}

	if q := strings.TrimSpace(filters.Query); q != "" {
		n := next(escapeILIKE(q))
		conditions = append(conditions, fmt.Sprintf("(c.name ILIKE $%d OR c.search_text ILIKE $%d OR c.search_text_zh ILIKE $%d)", n, n, n))
	}

	if len(filters.Types) > 0 {
		start := len(args) + 1
		for _, t := range filters.Types {
			args = append(args, t)
		}
		conditions = append(conditions, fmt.Sprintf("c.card_type IN (%s)", placeholders(start, len(filters.Types))))
	}

	if filters.Dice != 0 {
		n := next(int(filters.Dice))
		conditions = append(conditions, fmt.Sprintf("%s & $%d = $%d", DiceWeightExpr("c"), n, n))
	}

	switch filters.Releases {
	case repository.ReleasesMine:
		n := next(filters.UserID)
		conditions = append(conditions, fmt.Sprintf("c.release_id IN (SELECT release_id FROM user_release WHERE user_id = $%d)", n))
	case repository.ReleasesPHG:
		conditions = append(conditions, "r.is_phg = TRUE")
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// BuildOrderBy returns the ORDER BY clause for filters. Every ordering ends
// with the card id so windows are stable across requests.
func (qb *CardQueryBuilder) BuildOrderBy(filters repository.CardFilters) string {
	dir := "ASC"
	if filters.Descending {
		dir = "DESC"
	}

	var keys []string
	switch filters.Sort {
	case repository.SortByType:
		keys = []string{TypeRankExpr("c") + " " + dir, "c.name " + dir}
	case repository.SortByDice:
		keys = []string{DiceWeightExpr("c") + " " + dir, "c.name " + dir}
	case repository.SortByCost:
		keys = []string{"c.cost_weight " + dir, "c.name " + dir}
	default:
		keys = []string{"c.name " + dir}
	}
	keys = append(keys, "c.id ASC")
	return "ORDER BY " + strings.Join(keys, ", ")
}
