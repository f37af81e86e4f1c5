package entity

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Card text marks symbols and card names as [[token]]. Die symbols carry a
// suffix such as [[charm:class]] or [[time:power]].
var tokenPattern = regexp.MustCompile(`\[\[([^\]]+)\]\]`)

// DiceFromText collects the die kinds named by [[die:...]] or [[die]]
// tokens across texts. Basic dice and non-die tokens are ignored.
func DiceFromText(texts ...string) DiceFlags {
	var flags DiceFlags
	for _, text := range texts {
		for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
			name, _, _ := strings.Cut(m[1], ":")
			if bit, ok := DieKind(strings.TrimSpace(name)).Bit(); ok {
				flags |= bit
			}
		}
	}
	return flags
}

// CardReferences returns the card names referenced from text, in order of
// first appearance. Symbols are lower case, so only capitalised tokens count.
func CardReferences(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" || strings.Contains(name, ":") {
			continue
		}
		if first := []rune(name)[0]; !unicode.IsUpper(first) {
			continue
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// CostWeight sums the magic quantities of a cost. Each cost entry may list
// alternatives separated by " / "; only the first alternative is weighed.
// Action symbols such as [[main]] weigh nothing.
//
//	CostWeight([]string{"[[main]]", "1 [[natural:power]] / 1 [[illusion:power]]"}) == 1
//	CostWeight([]string{"[[main]] - 1 [[time:power]] - 1 [[basic]]"}) == 2
func CostWeight(cost []string) int {
	weight := 0
	for _, entry := range cost {
		primary, _, _ := strings.Cut(entry, " / ")
		for _, part := range strings.Split(primary, " - ") {
			qty, _, found := strings.Cut(strings.TrimSpace(part), " ")
			if !found {
				continue
			}
			if n, err := strconv.Atoi(qty); err == nil && n > 0 {
				weight += n
			}
		}
	}
	return weight
}
