package enigma

import "testing"

func TestRotorForwardBackwardInverse(t *testing.T) {
	for idx := range rotorCatalog {
		for ring := 0; ring < AlphabetSize; ring += 5 {
			r := newRotor(idx, 0, ring)
			for pos := 0; pos < AlphabetSize; pos++ {
				r.position = pos
				for c := 0; c < AlphabetSize; c++ {
					if got := r.EncodeBackward(r.EncodeForward(c)); got != c {
						t.Fatalf("rotor %s ring=%d pos=%d: backward(forward(%d)) = %d",
							r.Name(), ring, pos, c, got)
					}
				}
			}
		}
	}
}

func TestRotorEncodeOffsets(t *testing.T) {
	tests := []struct {
		name     string
		position int
		ring     int
		in       int
		forward  int
	}{
		// Rotor I wiring maps A to E at rest
		{"At rest", 0, 0, 0, 4},
		// Position B: contact A enters at B, B->K, exits at K-1 = J
		{"Position B", 1, 0, 0, 9},
		// Ring B cancels position B
		{"Position B ring B", 1, 1, 0, 4},
		// Ring B alone: contact A enters at Z, Z->J, exits at J+1 = K
		{"Ring B", 0, 1, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRotor(0, tt.position, tt.ring)
			if got := r.EncodeForward(tt.in); got != tt.forward {
				t.Errorf("EncodeForward(%d) = %d, want %d", tt.in, got, tt.forward)
			}
			if got := r.EncodeBackward(tt.forward); got != tt.in {
				t.Errorf("EncodeBackward(%d) = %d, want %d", tt.forward, got, tt.in)
			}
		})
	}
}

func TestRotorAdvanceWraps(t *testing.T) {
	r := newRotor(2, 24, 0)
	r.Advance()
	if r.Position() != 25 {
		t.Fatalf("Position() = %d, want 25", r.Position())
	}
	r.Advance()
	if r.Position() != 0 {
		t.Errorf("Position() = %d, want 0 after wrap", r.Position())
	}
}

func TestRotorNotches(t *testing.T) {
	tests := []struct {
		index   int
		notches []int
	}{
		{0, []int{16}},     // I: Q
		{1, []int{4}},      // II: E
		{2, []int{21}},     // III: V
		{3, []int{9}},      // IV: J
		{4, []int{25}},     // V: Z
		{5, []int{12, 25}}, // VI: M, Z
	}

	for _, tt := range tests {
		r := newRotor(tt.index, 0, 0)
		want := map[int]bool{}
		for _, n := range tt.notches {
			want[n] = true
		}
		for pos := 0; pos < AlphabetSize; pos++ {
			r.position = pos
			if r.AtNotch() != want[pos] {
				t.Errorf("rotor %s AtNotch() at %d = %v, want %v", r.Name(), pos, r.AtNotch(), want[pos])
			}
		}
	}
}

func TestRotorNotchIgnoresRing(t *testing.T) {
	r := newRotor(2, 21, 7)
	if !r.AtNotch() {
		t.Error("notch must follow the raw position, not the ring setting")
	}
}
