package card

import "ashes-live/internal/domain/entity"

// ReleaseRef is the short form of a release embedded in card responses.
type ReleaseRef struct {
	Name   string  `json:"name"`
	Stub   string  `json:"stub"`
	NameZh *string `json:"name_zh,omitempty"`
	StubZh *string `json:"stub_zh,omitempty"`
}

// RefDTO is a card cross reference.
type RefDTO struct {
	Name string `json:"name"`
	Stub string `json:"stub"`
	Type string `json:"type"`
}

// DTO is the listing representation of a card. Dice is null for cards
// that only use basic dice.
type DTO struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	Stub            string      `json:"stub"`
	Type            string      `json:"type"`
	Release         *ReleaseRef `json:"release,omitempty"`
	Phoenixborn     *string     `json:"phoenixborn,omitempty"`
	Placement       string      `json:"placement,omitempty"`
	Cost            []string    `json:"cost,omitempty"`
	Dice            []string    `json:"dice"`
	AltDice         []string    `json:"alt_dice,omitempty"`
	EffectMagicCost []string    `json:"effect_magic_cost,omitempty"`
	Text            string      `json:"text,omitempty"`
	Attack          *string     `json:"attack,omitempty"`
	Life            *string     `json:"life,omitempty"`
	Recover         *string     `json:"recover,omitempty"`
	Battlefield     *int        `json:"battlefield,omitempty"`
	Spellboard      *int        `json:"spellboard,omitempty"`
	Copies          *int        `json:"copies,omitempty"`
	CanEffectRepeat bool        `json:"can_effect_repeat,omitempty"`
	IsSummonSpell   bool        `json:"is_summon_spell,omitempty"`
	IsLegacy        bool        `json:"is_legacy,omitempty"`
	Conjurations    []RefDTO    `json:"conjurations,omitempty"`
	NameZh          *string     `json:"name_zh,omitempty"`
	StubZh          *string     `json:"stub_zh,omitempty"`
	TextZh          *string     `json:"text_zh,omitempty"`
}

// DetailDTO adds the fields only shown on the card detail page.
type DetailDTO struct {
	DTO
	Version    int      `json:"version"`
	ArtistName *string  `json:"artist_name,omitempty"`
	ArtistURL  *string  `json:"artist_url,omitempty"`
	Summons    []RefDTO `json:"summons,omitempty"`
}

// ToDTO projects a card into its listing representation.
func ToDTO(c *entity.Card) DTO {
	out := DTO{
		ID:              c.EntityID,
		Name:            c.Name,
		Stub:            c.Stub,
		Type:            c.CardType,
		Phoenixborn:     c.Phoenixborn,
		Placement:       c.Details.Placement,
		Cost:            c.Details.Cost,
		Dice:            c.DiceFlags.Dice(),
		AltDice:         c.AltDiceFlags.Dice(),
		EffectMagicCost: c.Details.EffectMagicCost,
		Text:            c.Details.Text,
		Attack:          c.Details.Attack,
		Life:            c.Details.Life,
		Recover:         c.Details.Recover,
		Battlefield:     c.Details.Battlefield,
		Spellboard:      c.Details.Spellboard,
		Copies:          c.Copies,
		CanEffectRepeat: c.Details.CanEffectRepeat,
		IsSummonSpell:   c.IsSummonSpell,
		IsLegacy:        c.IsLegacy,
		Conjurations:    toRefs(c.Conjurations),
		NameZh:          c.NameZh,
		StubZh:          c.StubZh,
	}
	if c.DetailsZh != nil {
		out.TextZh = &c.DetailsZh.Text
	}
	if c.Release != nil {
		out.Release = &ReleaseRef{
			Name:   c.Release.Name,
			Stub:   c.Release.Stub,
			NameZh: c.Release.NameZh,
			StubZh: c.Release.StubZh,
		}
	}
	return out
}

// ToDetailDTO projects a fully loaded card into its detail representation.
func ToDetailDTO(c *entity.Card) DetailDTO {
	return DetailDTO{
		DTO:        ToDTO(c),
		Version:    c.Version,
		ArtistName: c.ArtistName,
		ArtistURL:  c.ArtistURL,
		Summons:    toRefs(c.Summons),
	}
}

func toRefs(refs []entity.CardRef) []RefDTO {
	if len(refs) == 0 {
		return nil
	}
	out := make([]RefDTO, len(refs))
	for i, r := range refs {
		out[i] = RefDTO{Name: r.Name, Stub: r.Stub, Type: r.CardType}
	}
	return out
}
