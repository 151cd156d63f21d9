package enigma

import (
	"errors"
	"fmt"
)

const (
	// AlphabetSize is the number of contacts on every rotor, reflector and plugboard
	AlphabetSize = 26

	// RotorSlots is the number of rotors the machine carries
	RotorSlots = 3

	// DefaultReflector is used when Settings.Reflector is empty
	DefaultReflector = "B"
)

// Rotor slots, left to right as seen by the operator
const (
	Left = iota
	Middle
	Right
)

var (
	// ErrInvalidConfig is the root of every construction failure
	ErrInvalidConfig = errors.New("enigma: invalid configuration")

	ErrUnknownRotor     = fmt.Errorf("%w: unknown rotor", ErrInvalidConfig)
	ErrUnknownReflector = fmt.Errorf("%w: unknown reflector", ErrInvalidConfig)
)

// ConfigError describes the first configuration violation found while
// building a machine. errors.Is(err, ErrInvalidConfig) holds for every
// ConfigError.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("enigma: invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("enigma: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// Settings is the key of a machine: everything fixed at construction.
// Rotors, Positions and Rings are ordered left, middle, right.
type Settings struct {
	Rotors    []int    `json:"rotors" yaml:"rotors" validate:"len=3,dive,min=0"`
	Positions []int    `json:"positions" yaml:"positions" validate:"len=3,dive,min=0,max=25"`
	Rings     []int    `json:"rings" yaml:"rings" validate:"len=3,dive,min=0,max=25"`
	Plugboard []string `json:"plugboard,omitempty" yaml:"plugboard,omitempty" validate:"omitempty,dive,len=2,alpha"`
	Reflector string   `json:"reflector,omitempty" yaml:"reflector,omitempty" validate:"omitempty,alpha"`
}

// Snapshot holds rotor positions, left to right
type Snapshot [RotorSlots]int

// StepEvent describes one stepping cycle
type StepEvent struct {
	Before Snapshot
	After  Snapshot

	MiddleStepped bool
	LeftStepped   bool

	// DoubleStep is set when the middle rotor advanced because it sat on
	// its own notch, dragging the left rotor with it.
	DoubleStep bool
}

// Observer receives every stepping cycle of a machine
type Observer interface {
	ObserveStep(ev StepEvent)
}
