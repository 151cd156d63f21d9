package enigma

import (
	"fmt"
	"strings"
)

// RotorSpec is one entry of the rotor catalog
type RotorSpec struct {
	Name    string
	Wiring  string
	Notches string
}

// ReflectorSpec is one entry of the reflector catalog
type ReflectorSpec struct {
	Name   string
	Wiring string
}

// Catalog indices 0, 1 and 2 are rotors I, II and III.
var rotorCatalog = []RotorSpec{
	{Name: "I", Wiring: "EKMFLGDQVZNTOWYHXUSPAIBRCJ", Notches: "Q"},
	{Name: "II", Wiring: "AJDKSIRUXBLHWTMCQGZNPYFVOE", Notches: "E"},
	{Name: "III", Wiring: "BDFHJLCPRTXVZNYEIWGAKMUSQO", Notches: "V"},
	{Name: "IV", Wiring: "ESOVPZJAYQUIRHXLNFTGKDCMWB", Notches: "J"},
	{Name: "V", Wiring: "VZBRGITYUPSDNHLXAWMJQOFECK", Notches: "Z"},
	{Name: "VI", Wiring: "JPGVOUMFYQBENHZRDKASXLICTW", Notches: "ZM"},
	{Name: "VII", Wiring: "NZJHGRCXMYSWBOUFAIVLPEKQDT", Notches: "ZM"},
	{Name: "VIII", Wiring: "FKQHTLXOCBJSPDZRAMEWNIUYGV", Notches: "ZM"},
}

var reflectorCatalog = []ReflectorSpec{
	{Name: "B", Wiring: "YRUHQSLDPXNGOKMIEBFZCWVJAT"},
	{Name: "C", Wiring: "FVPJIAOYEDRZXWGCTKUQSBNMHL"},
}

// rotorTable is the immutable wiring shared by every rotor of one type
type rotorTable struct {
	name     string
	forward  [AlphabetSize]int
	backward [AlphabetSize]int
	notches  [AlphabetSize]bool
}

var (
	rotorTables     = buildRotorTables()
	reflectorTables = buildReflectorTables()
)

func buildRotorTables() []*rotorTable {
	tables := make([]*rotorTable, len(rotorCatalog))
	for i, spec := range rotorCatalog {
		forward, err := parseWiring(spec.Wiring)
		if err != nil {
			panic(fmt.Sprintf("rotor %s: %v", spec.Name, err))
		}
		t := &rotorTable{name: spec.Name, forward: forward}
		for in, out := range forward {
			t.backward[out] = in
		}
		for _, n := range spec.Notches {
			t.notches[n-'A'] = true
		}
		tables[i] = t
	}
	return tables
}

func buildReflectorTables() map[string][AlphabetSize]int {
	tables := make(map[string][AlphabetSize]int, len(reflectorCatalog))
	for _, spec := range reflectorCatalog {
		wiring, err := parseWiring(spec.Wiring)
		if err != nil {
			panic(fmt.Sprintf("reflector %s: %v", spec.Name, err))
		}
		for x, y := range wiring {
			if x == y || wiring[y] != x {
				panic(fmt.Sprintf("reflector %s: not a fixed-point-free involution at %c", spec.Name, 'A'+x))
			}
		}
		tables[spec.Name] = wiring
	}
	return tables
}

// parseWiring turns a 26 letter string into a permutation of 0-25
func parseWiring(s string) ([AlphabetSize]int, error) {
	var out [AlphabetSize]int
	if len(s) != AlphabetSize {
		return out, fmt.Errorf("wiring has %d letters, want %d", len(s), AlphabetSize)
	}
	var seen [AlphabetSize]bool
	for i := 0; i < AlphabetSize; i++ {
		c, ok := letterIndex(s[i])
		if !ok {
			return out, fmt.Errorf("wiring contains non-letter %q", s[i])
		}
		if seen[c] {
			return out, fmt.Errorf("wiring repeats %c", 'A'+c)
		}
		seen[c] = true
		out[i] = c
	}
	return out, nil
}

// Rotors returns a copy of the rotor catalog in index order
func Rotors() []RotorSpec {
	out := make([]RotorSpec, len(rotorCatalog))
	copy(out, rotorCatalog)
	return out
}

// Reflectors returns a copy of the reflector catalog
func Reflectors() []ReflectorSpec {
	out := make([]ReflectorSpec, len(reflectorCatalog))
	copy(out, reflectorCatalog)
	return out
}

// RotorIndex resolves a rotor name such as "III" to its catalog index
func RotorIndex(name string) (int, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for i, spec := range rotorCatalog {
		if spec.Name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownRotor, name)
}

// RotorName returns the catalog name for index i
func RotorName(i int) (string, error) {
	if i < 0 || i >= len(rotorCatalog) {
		return "", fmt.Errorf("%w index %d (catalog holds %d)", ErrUnknownRotor, i, len(rotorCatalog))
	}
	return rotorCatalog[i].Name, nil
}
