package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeRank(t *testing.T) {
	tests := []struct {
		cardType string
		want     int
	}{
		{TypePhoenixborn, 0},
		{TypeReadySpell, 1},
		{TypeAlly, 2},
		{TypeAlterationSpell, 3},
		{TypeActionSpell, 4},
		{TypeReactionSpell, 5},
		{TypeConjuration, 6},
		{TypeConjuredAlterationSpell, 7},
		{"Unknown Type", 8},
		{"", 8},
		{"phoenixborn", 8},
	}

	for _, tt := range tests {
		t.Run(tt.cardType, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeRank(tt.cardType))
		})
	}
}

func TestCardTypeOrder_ReturnsCopy(t *testing.T) {
	order := CardTypeOrder()
	assert.Len(t, order, 8)
	order[0] = "Mutated"

	assert.Equal(t, TypePhoenixborn, CardTypeOrder()[0])
	assert.Equal(t, 0, TypeRank(TypePhoenixborn))
}

func TestIsConjuredType(t *testing.T) {
	assert.True(t, IsConjuredType(TypeConjuration))
	assert.True(t, IsConjuredType(TypeConjuredAlterationSpell))
	assert.False(t, IsConjuredType(TypeAlly))
	assert.False(t, IsKnownCardType("Relic"))
}
