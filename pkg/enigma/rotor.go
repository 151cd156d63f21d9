package enigma

// Rotor is one wired disc in a machine slot. Position is the only field that
// changes after construction.
type Rotor struct {
	table    *rotorTable
	ring     int
	position int
}

func newRotor(index, position, ring int) *Rotor {
	return &Rotor{
		table:    rotorTables[index],
		ring:     ring,
		position: position,
	}
}

// Name returns the catalog name of the rotor type
func (r *Rotor) Name() string {
	return r.table.name
}

// Position returns the raw rotational position, 0-25
func (r *Rotor) Position() int {
	return r.position
}

// Ring returns the ring setting, 0-25
func (r *Rotor) Ring() int {
	return r.ring
}

// EncodeForward maps a contact on the entry side to the exit contact on the
// reflector side.
func (r *Rotor) EncodeForward(contact int) int {
	return r.encode(contact, &r.table.forward)
}

// EncodeBackward is the inverse of EncodeForward at the same position.
func (r *Rotor) EncodeBackward(contact int) int {
	return r.encode(contact, &r.table.backward)
}

func (r *Rotor) encode(contact int, wiring *[AlphabetSize]int) int {
	shift := r.position - r.ring
	mapped := wiring[mod26(contact+shift)]
	return mod26(mapped - shift)
}

// AtNotch reports whether the rotor sits on one of its turnover notches
func (r *Rotor) AtNotch() bool {
	return r.table.notches[r.position]
}

// Advance turns the rotor by one position
func (r *Rotor) Advance() {
	r.position = (r.position + 1) % AlphabetSize
}
