package entity

// Card type names.
const (
	TypePhoenixborn             = "Phoenixborn"
	TypeReadySpell              = "Ready Spell"
	TypeAlly                    = "Ally"
	TypeAlterationSpell         = "Alteration Spell"
	TypeActionSpell             = "Action Spell"
	TypeReactionSpell           = "Reaction Spell"
	TypeConjuration             = "Conjuration"
	TypeConjuredAlterationSpell = "Conjured Alteration Spell"
)

var cardTypeOrder = [...]string{
	TypePhoenixborn,
	TypeReadySpell,
	TypeAlly,
	TypeAlterationSpell,
	TypeActionSpell,
	TypeReactionSpell,
	TypeConjuration,
	TypeConjuredAlterationSpell,
}

// CardTypeOrder returns a copy of the card types in sort order.
func CardTypeOrder() []string {
	out := make([]string, len(cardTypeOrder))
	copy(out, cardTypeOrder[:])
	return out
}

// TypeRank returns the sort position of cardType. Unknown types rank after
// every known type.
func TypeRank(cardType string) int {
	for i, t := range cardTypeOrder {
		if t == cardType {
			return i
		}
	}
	return len(cardTypeOrder)
}

// IsKnownCardType reports whether cardType is one of the eight card types.
func IsKnownCardType(cardType string) bool {
	return TypeRank(cardType) < len(cardTypeOrder)
}

// IsConjuredType reports whether cards of cardType live in the conjuration pile.
func IsConjuredType(cardType string) bool {
	return cardType == TypeConjuration || cardType == TypeConjuredAlterationSpell
}
