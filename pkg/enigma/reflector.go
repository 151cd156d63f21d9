package enigma

import (
	"fmt"
	"strings"
)

// Reflector is a fixed involution without fixed points
type Reflector struct {
	name  string
	table [AlphabetSize]int
}

// NewReflector returns the catalog reflector with the given name ("B" or "C")
func NewReflector(name string) (*Reflector, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		name = DefaultReflector
	}
	table, ok := reflectorTables[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownReflector, name)
	}
	return &Reflector{name: name, table: table}, nil
}

// Name returns the catalog name
func (r *Reflector) Name() string {
	return r.name
}

// Reflect returns the contact paired with contact
func (r *Reflector) Reflect(contact int) int {
	return r.table[contact]
}
