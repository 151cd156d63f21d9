package enigma

import "strings"

// Plugboard swaps letters in pairs before and after the rotor stack.
// The mapping is an involution and never changes after construction.
type Plugboard struct {
	mapping [AlphabetSize]int
	pairs   []string
}

// NewPlugboard builds a plugboard from two-letter pairs such as "AB".
// Letters are case-insensitive; a letter may appear in at most one pair.
func NewPlugboard(pairs []string) (*Plugboard, error) {
	p := &Plugboard{pairs: make([]string, 0, len(pairs))}
	for i := range p.mapping {
		p.mapping[i] = i
	}

	var used [AlphabetSize]bool
	for _, pair := range pairs {
		if len(pair) != 2 {
			return nil, &ConfigError{Field: "plugboard pair", Value: pair, Reason: "must be exactly two letters"}
		}
		a, okA := letterIndex(pair[0])
		b, okB := letterIndex(pair[1])
		if !okA || !okB {
			return nil, &ConfigError{Field: "plugboard pair", Value: pair, Reason: "letters A-Z only"}
		}
		if a == b {
			return nil, &ConfigError{Field: "plugboard pair", Value: pair, Reason: "cannot plug a letter to itself"}
		}
		for _, c := range [2]int{a, b} {
			if used[c] {
				return nil, &ConfigError{Field: "plugboard pair", Value: pair, Reason: "letter " + string(letterByte(c, false)) + " already plugged"}
			}
			used[c] = true
		}
		p.mapping[a] = b
		p.mapping[b] = a
		p.pairs = append(p.pairs, strings.ToUpper(pair))
	}
	return p, nil
}

// Swap returns the letter paired with letter, or letter itself if unplugged
func (p *Plugboard) Swap(letter int) int {
	return p.mapping[letter]
}

// Pairs returns the configured pairs in upper case
func (p *Plugboard) Pairs() []string {
	out := make([]string, len(p.pairs))
	copy(out, p.pairs)
	return out
}
