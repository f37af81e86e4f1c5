package entity

import "fmt"

const (
	maxCardNameLength    = 30
	maxPhoenixbornLength = 25
	maxArtistNameLength  = 100
)

// Card is a single card record. A card is unique by (name, is_legacy) and
// (stub, is_legacy); legacy and current printings of a card coexist.
type Card struct {
	ID            int64
	EntityID      int64
	Name          string
	Stub          string
	Phoenixborn   *string
	ReleaseID     int64
	Release       *Release
	Version       int // bumped on errata
	CardType      string
	IsSummonSpell bool
	IsLegacy      bool
	CostWeight    int
	DiceFlags     DiceFlags
	AltDiceFlags  DiceFlags
	Copies        *int
	Details       CardDetails
	ArtistName    *string
	ArtistURL     *string

	// Traditional Chinese printing, when one exists. StubZh defaults to the
	// stub of NameZh.
	NameZh    *string
	StubZh    *string
	DetailsZh *CardDetails

	// Conjurations this card can bring into play and, conversely, the cards
	// that summon it. Cycles are not prevented.
	Conjurations []CardRef
	Summons      []CardRef
}

// CardRef is the short form of a card used in cross references.
type CardRef struct {
	ID       int64
	Name     string
	Stub     string
	CardType string
}

// CardDetails holds the printed attributes of a card. It is stored as a
// JSON document alongside the indexed columns.
type CardDetails struct {
	Text            string   `json:"text,omitempty"`
	Cost            []string `json:"cost,omitempty"`
	EffectMagicCost []string `json:"effect_magic_cost,omitempty"`
	Placement       string   `json:"placement,omitempty"`
	Attack          *string  `json:"attack,omitempty"`
	Life            *string  `json:"life,omitempty"`
	Recover         *string  `json:"recover,omitempty"`
	Battlefield     *int     `json:"battlefield,omitempty"`
	Spellboard      *int     `json:"spellboard,omitempty"`
	CanEffectRepeat bool     `json:"can_effect_repeat,omitempty"`
}

// DiceWeight returns the combined primary and alternate dice mask.
func (c *Card) DiceWeight() DiceFlags {
	return DiceWeight(c.DiceFlags, c.AltDiceFlags)
}

// TypeRank returns the sort position of the card's type.
func (c *Card) TypeRank() int {
	return TypeRank(c.CardType)
}

// Ref returns the short form of c.
func (c *Card) Ref() CardRef {
	return CardRef{ID: c.ID, Name: c.Name, Stub: c.Stub, CardType: c.CardType}
}

// Validate checks field constraints and fills in the stub from the name
// when it is empty.
func (c *Card) Validate() error {
	if err := validateLength("name", c.Name, maxCardNameLength); err != nil {
		return err
	}
	if c.Stub == "" {
		c.Stub = Stubify(c.Name)
	}
	if err := validateLength("stub", c.Stub, maxCardNameLength); err != nil {
		return err
	}
	if !IsKnownCardType(c.CardType) {
		return &ValidationError{Field: "card_type", Message: fmt.Sprintf("invalid card type %q", c.CardType)}
	}
	if c.Phoenixborn != nil {
		if err := validateLength("phoenixborn", *c.Phoenixborn, maxPhoenixbornLength); err != nil {
			return err
		}
	}
	if c.Copies != nil && *c.Copies < 1 {
		return &ValidationError{Field: "copies", Message: "copies must be positive"}
	}
	if c.DiceFlags&^AllDiceFlags != 0 || c.AltDiceFlags&^AllDiceFlags != 0 {
		return &ValidationError{Field: "dice", Message: "invalid dice flags"}
	}
	if c.ArtistName != nil {
		if err := validateLength("artist_name", *c.ArtistName, maxArtistNameLength); err != nil {
			return err
		}
	}
	if c.ArtistURL != nil {
		if err := ValidateURL("artist_url", *c.ArtistURL); err != nil {
			return err
		}
	}
	if err := validateLocalized(&c.NameZh, &c.StubZh, maxCardNameLength); err != nil {
		return err
	}
	if c.Version == 0 {
		c.Version = 1
	}
	return nil
}
