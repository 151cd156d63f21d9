package enigma

// SteppingMechanism advances the rotors once per keystroke. Notches are read
// before anything moves, so the middle rotor steps a second time on the
// keystroke after it reaches its own notch and drags the left rotor along.
type SteppingMechanism struct{}

// Step moves rotors (left, middle, right) for one keystroke
func (SteppingMechanism) Step(rotors *[RotorSlots]*Rotor) StepEvent {
	ev := StepEvent{Before: positionsOf(rotors)}

	rightAtNotch := rotors[Right].AtNotch()
	middleAtNotch := rotors[Middle].AtNotch()

	rotors[Right].Advance()
	if rightAtNotch || middleAtNotch {
		rotors[Middle].Advance()
		ev.MiddleStepped = true
	}
	if middleAtNotch {
		rotors[Left].Advance()
		ev.LeftStepped = true
		ev.DoubleStep = true
	}

	ev.After = positionsOf(rotors)
	return ev
}

func positionsOf(rotors *[RotorSlots]*Rotor) Snapshot {
	var s Snapshot
	for i, r := range rotors {
		s[i] = r.position
	}
	return s
}
