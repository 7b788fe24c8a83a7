package astro

import (
	"fmt"
	"time"
)

// ModelKind tags the motion model backing a Trajectory.
type ModelKind uint8

// Model kinds.
const (
	UndefinedModel ModelKind = iota
	FixedModel
	OrbitModel
	TabulatedModel
)

func (k ModelKind) String() string {
	switch k {
	case FixedModel:
		return "Fixed"
	case OrbitModel:
		return "Orbit"
	case TabulatedModel:
		return "Tabulated"
	default:
		return "Undefined"
	}
}

// Model evaluates the state of an object at a given instant.
type Model interface {
	Kind() ModelKind
	StateAt(t time.Time) (State, error)
	IsDefined() bool
	Equal(Model) bool
}

// Fixed is a position held constant in its frame.
type Fixed struct {
	position Position
}

// NewFixed returns a new fixed model.
func NewFixed(p Position) Fixed {
	return Fixed{p}
}

// Kind implements the Model interface.
func (m Fixed) Kind() ModelKind {
	return FixedModel
}

// IsDefined implements the Model interface.
func (m Fixed) IsDefined() bool {
	return m.position.IsDefined()
}

// Position returns the fixed position.
func (m Fixed) Position() Position {
	return m.position
}

// StateAt returns the fixed position with a zero velocity in the matching speed unit.
func (m Fixed) StateAt(t time.Time) (State, error) {
	if !m.IsDefined() {
		return State{}, ErrUndefinedState
	}
	return NewState(t, m.position, NewVelocity([3]float64{}, speedUnitOf(m.position.u), m.position.frame))
}

// Equal implements the Model interface.
func (m Fixed) Equal(o Model) bool {
	f, ok := o.(Fixed)
	return ok && m.position.Equal(f.position)
}

func speedUnitOf(u LengthUnit) SpeedUnit {
	switch u {
	case Kilometer:
		return KilometerPerSecond
	case Foot:
		return FootPerSecond
	default:
		return MeterPerSecond
	}
}

// Propagator advances an orbit to a given instant.
type Propagator interface {
	StateAt(t time.Time) (State, error)
	IsDefined() bool
	Equal(Propagator) bool
}

// Orbit is a model driven by a propagator.
type Orbit struct {
	propagator Propagator
}

// NewOrbit returns a new orbit model.
func NewOrbit(p Propagator) Orbit {
	return Orbit{p}
}

// Propagator returns the propagator of this orbit.
func (m Orbit) Propagator() Propagator {
	return m.propagator
}

// Kind implements the Model interface.
func (m Orbit) Kind() ModelKind {
	return OrbitModel
}

// IsDefined implements the Model interface.
func (m Orbit) IsDefined() bool {
	return m.propagator != nil && m.propagator.IsDefined()
}

// StateAt implements the Model interface.
func (m Orbit) StateAt(t time.Time) (State, error) {
	if !m.IsDefined() {
		return State{}, ErrUndefinedState
	}
	if t.IsZero() {
		return State{}, fmt.Errorf("%w: zero instant", ErrUndefinedState)
	}
	return m.propagator.StateAt(t)
}

// Equal implements the Model interface.
func (m Orbit) Equal(o Model) bool {
	other, ok := o.(Orbit)
	return ok && m.IsDefined() && other.IsDefined() && m.propagator.Equal(other.propagator)
}
