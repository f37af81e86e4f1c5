package entity

import (
	"fmt"
)

// DieKind names one of the eight elemental dice.
type DieKind string

const (
	DieBasic      DieKind = "basic"
	DieCeremonial DieKind = "ceremonial"
	DieCharm      DieKind = "charm"
	DieIllusion   DieKind = "illusion"
	DieNatural    DieKind = "natural"
	DieDivine     DieKind = "divine"
	DieSympathy   DieKind = "sympathy"
	DieTime       DieKind = "time"
)

// DiceFlags is a bitmask of non-basic die kinds. Basic dice have no bit; a
// mask of 0 means a card uses basic dice only.
type DiceFlags int

// dieKinds is in ascending bit order.
var dieKinds = [...]struct {
	kind DieKind
	bit  DiceFlags
}{
	{DieBasic, 0},
	{DieCeremonial, 1},
	{DieCharm, 2},
	{DieIllusion, 4},
	{DieNatural, 8},
	{DieDivine, 16},
	{DieSympathy, 32},
	{DieTime, 64},
}

// AllDiceFlags has every non-basic bit set.
const AllDiceFlags DiceFlags = 127

// Bit returns the flag value for k and whether k is a known kind.
func (k DieKind) Bit() (DiceFlags, bool) {
	for _, d := range dieKinds {
		if d.kind == k {
			return d.bit, true
		}
	}
	return 0, false
}

// DieKinds returns all kinds, basic first, in ascending bit order.
func DieKinds() []DieKind {
	out := make([]DieKind, len(dieKinds))
	for i, d := range dieKinds {
		out[i] = d.kind
	}
	return out
}

// EncodeDice ORs together the bits of the named dice. A nil or empty list
// encodes to 0. Any unknown name fails the whole call with ErrUnknownDieKind.
func EncodeDice(names []string) (DiceFlags, error) {
	var flags DiceFlags
	for _, name := range names {
		bit, ok := DieKind(name).Bit()
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownDieKind, name)
		}
		flags |= bit
	}
	return flags, nil
}

// Dice returns the names of the non-basic dice set in f, in ascending bit
// order. It returns nil, never an empty slice, when no bit is set, so a
// basic-only card serializes as null.
func (f DiceFlags) Dice() []string {
	var out []string
	for _, d := range dieKinds {
		if d.bit != 0 && f&d.bit == d.bit {
			out = append(out, string(d.kind))
		}
	}
	return out
}

// Has reports whether every bit of other is set in f.
func (f DiceFlags) Has(other DiceFlags) bool {
	return f&other == other
}

// DiceWeight is the combined elemental footprint of a card's primary and
// alternate dice. The card repository's dice weight SQL expression computes
// the same value.
func DiceWeight(primary, alt DiceFlags) DiceFlags {
	return primary | alt
}
