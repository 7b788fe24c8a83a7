package astro

import (
	"fmt"
	"time"

	"github.com/ChristopherRabotin/astro/frame"
)

// State is an immutable position and velocity at an instant. It is either fully
// defined, with the position and velocity expressed in the same frame, or the
// undefined state returned by UndefinedState.
type State struct {
	instant  time.Time
	position Position
	velocity Velocity
}

// NewState returns a new state, or an error if any component is undefined or if
// the position and velocity frames differ.
func NewState(instant time.Time, position Position, velocity Velocity) (State, error) {
	if instant.IsZero() || !position.IsDefined() || !velocity.IsDefined() {
		return State{}, ErrUndefinedState
	}
	if position.Frame() != velocity.Frame() {
		return State{}, fmt.Errorf("%w: position in %s, velocity in %s", ErrFrameMismatch, position.Frame(), velocity.Frame())
	}
	return State{instant, position, velocity}, nil
}

// UndefinedState returns the undefined state.
func UndefinedState() State {
	return State{}
}

// IsDefined returns whether the instant, position and velocity are all defined.
func (s State) IsDefined() bool {
	return !s.instant.IsZero() && s.position.IsDefined() && s.velocity.IsDefined()
}

// Instant returns the instant of this state.
func (s State) Instant() (time.Time, error) {
	if !s.IsDefined() {
		return time.Time{}, ErrUndefinedState
	}
	return s.instant, nil
}

// Position returns the position of this state.
func (s State) Position() (Position, error) {
	if !s.IsDefined() {
		return Position{}, ErrUndefinedState
	}
	return s.position, nil
}

// Velocity returns the velocity of this state.
func (s State) Velocity() (Velocity, error) {
	if !s.IsDefined() {
		return Velocity{}, ErrUndefinedState
	}
	return s.velocity, nil
}

// Coordinates returns x, y, z, vx, vy, vz in the native units of the state.
func (s State) Coordinates() ([]float64, error) {
	if !s.IsDefined() {
		return nil, ErrUndefinedState
	}
	r, v := s.position.xyz, s.velocity.xyz
	return []float64{r[0], r[1], r[2], v[0], v[1], v[2]}, nil
}

// Frame returns the frame of this state, or the undefined frame.
func (s State) Frame() frame.Frame {
	if !s.IsDefined() {
		return frame.Undefined()
	}
	return s.position.frame
}

// Add returns the component wise sum of both states.
func (s State) Add(o State) (State, error) {
	return s.combine(o, 1)
}

// Sub returns the component wise difference of both states.
func (s State) Sub(o State) (State, error) {
	return s.combine(o, -1)
}

func (s State) combine(o State, sgn float64) (State, error) {
	if !s.IsDefined() || !o.IsDefined() {
		return State{}, ErrUndefinedState
	}
	if !s.instant.Equal(o.instant) {
		return State{}, fmt.Errorf("%w: %s and %s", ErrInstantMismatch, s.instant.UTC(), o.instant.UTC())
	}
	if s.position.frame != o.position.frame || s.velocity.frame != o.velocity.frame {
		return State{}, fmt.Errorf("%w: %s and %s", ErrFrameMismatch, s.position.frame, o.position.frame)
	}
	if s.position.u != o.position.u {
		return State{}, fmt.Errorf("%w: %s and %s", ErrUnitMismatch, s.position.u, o.position.u)
	}
	if s.velocity.u != o.velocity.u {
		return State{}, fmt.Errorf("%w: %s and %s", ErrUnitMismatch, s.velocity.u, o.velocity.u)
	}
	rslt := s
	for i := 0; i < 3; i++ {
		rslt.position.xyz[i] += sgn * o.position.xyz[i]
		rslt.velocity.xyz[i] += sgn * o.velocity.xyz[i]
	}
	return rslt, nil
}

// InFrame returns this state expressed in the target frame at the same instant.
// The velocity accounts for the rotation of the target frame with respect to the
// current one. A nil provider uses frame.DefaultProvider.
func (s State) InFrame(target frame.Frame, p frame.Provider) (State, error) {
	if !s.IsDefined() {
		return State{}, fmt.Errorf("%w: %w", ErrUndefinedFrame, ErrUndefinedState)
	}
	if !target.IsDefined() {
		return State{}, ErrUndefinedFrame
	}
	if target == s.position.frame {
		return s, nil
	}
	if p == nil {
		p = frame.DefaultProvider
	}
	tr, err := p.Transform(s.position.frame, target, s.instant)
	if err != nil {
		return State{}, fmt.Errorf("%w: %s to %s: %w", ErrUndefinedFrame, s.position.frame, target, err)
	}
	r, v := tr.Apply(s.position.meters(), s.velocity.metersPerSecond())
	return State{
		instant:  s.instant,
		position: Position{scale(r, 1/s.position.u.InMeters()), s.position.u, target},
		velocity: Velocity{scale(v, 1/s.velocity.u.InMetersPerSecond()), s.velocity.u, target},
	}, nil
}

// inSI returns the position in meters and velocity in meters per second.
func (s State) inSI() (r, v [3]float64) {
	return s.position.meters(), s.velocity.metersPerSecond()
}

// Equal returns whether both states are defined and share the same instant,
// position and velocity. The undefined state is not equal to any state, itself included.
func (s State) Equal(o State) bool {
	if !s.IsDefined() || !o.IsDefined() {
		return false
	}
	return s.instant.Equal(o.instant) && s.position.Equal(o.position) && s.velocity.Equal(o.velocity)
}

// String implements the Stringer interface.
func (s State) String() string {
	if !s.IsDefined() {
		return "Undefined state"
	}
	return fmt.Sprintf("%s r=%s v=%s", s.instant.UTC().Format(time.RFC3339Nano), s.position, s.velocity)
}
