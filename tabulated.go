package astro

import (
	"fmt"
	"sort"
	"time"
)

// Tabulated is a model backed by time ordered state samples. States between two
// samples are computed with a cubic Hermite interpolation of the position using
// the velocities of both samples.
type Tabulated struct {
	states []State
}

// NewTabulated returns a tabulated model. Samples are sorted by instant and must
// all be defined, share one frame and one pair of units, and have distinct instants.
func NewTabulated(states []State) (Tabulated, error) {
	if len(states) == 0 {
		return Tabulated{}, fmt.Errorf("%w: no samples", ErrInvalidArgument)
	}
	sorted := make([]State, len(states))
	copy(sorted, states)
	ref := sorted[0]
	for i, s := range sorted {
		if !s.IsDefined() {
			return Tabulated{}, fmt.Errorf("sample %d: %w", i, ErrUndefinedState)
		}
		if s.Frame() != ref.Frame() {
			return Tabulated{}, fmt.Errorf("sample %d: %w: %s and %s", i, ErrFrameMismatch, s.Frame(), ref.Frame())
		}
		if s.position.u != ref.position.u || s.velocity.u != ref.velocity.u {
			return Tabulated{}, fmt.Errorf("sample %d: %w", i, ErrUnitMismatch)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].instant.Before(sorted[j].instant)
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].instant.Equal(sorted[i-1].instant) {
			return Tabulated{}, fmt.Errorf("%w: %s", ErrDuplicateInstant, sorted[i].instant.UTC())
		}
	}
	return Tabulated{sorted}, nil
}

// Kind implements the Model interface.
func (m Tabulated) Kind() ModelKind {
	return TabulatedModel
}

// IsDefined implements the Model interface.
func (m Tabulated) IsDefined() bool {
	return len(m.states) > 0
}

// States returns a copy of the samples in chronological order.
func (m Tabulated) States() []State {
	out := make([]State, len(m.states))
	copy(out, m.states)
	return out
}

// Span returns the first and last sample instants.
func (m Tabulated) Span() (start, end time.Time, err error) {
	if !m.IsDefined() {
		return time.Time{}, time.Time{}, ErrUndefinedState
	}
	return m.states[0].instant, m.states[len(m.states)-1].instant, nil
}

// StateAt implements the Model interface.
func (m Tabulated) StateAt(t time.Time) (State, error) {
	if !m.IsDefined() {
		return State{}, ErrUndefinedState
	}
	first, last := m.states[0].instant, m.states[len(m.states)-1].instant
	if t.Before(first) || t.After(last) {
		return State{}, fmt.Errorf("%w: %s not in [%s, %s]", ErrOutOfRange, t.UTC(), first.UTC(), last.UTC())
	}
	idx := sort.Search(len(m.states), func(i int) bool {
		return !m.states[i].instant.Before(t)
	})
	s1 := m.states[idx]
	if s1.instant.Equal(t) {
		return s1, nil
	}
	s0 := m.states[idx-1]
	r0, v0 := s0.inSI()
	r1, v1 := s1.inSI()
	r, v := hermite(s0.instant, s1.instant, r0, v0, r1, v1, t)
	pu, vu := s0.position.u, s0.velocity.u
	return State{
		instant:  t,
		position: Position{scale(r, 1/pu.InMeters()), pu, s0.position.frame},
		velocity: Velocity{scale(v, 1/vu.InMetersPerSecond()), vu, s0.velocity.frame},
	}, nil
}

// Equal implements the Model interface.
func (m Tabulated) Equal(o Model) bool {
	other, ok := o.(Tabulated)
	if !ok || !m.IsDefined() || len(m.states) != len(other.states) {
		return false
	}
	for i := range m.states {
		if !m.states[i].Equal(other.states[i]) {
			return false
		}
	}
	return true
}

// hermite interpolates a position and velocity at t between (t0, r0, v0) and
// (t1, r1, v1), in SI units.
func hermite(t0, t1 time.Time, r0, v0, r1, v1 [3]float64, t time.Time) (r, v [3]float64) {
	h := t1.Sub(t0).Seconds()
	τ := t.Sub(t0).Seconds() / h
	τ2, τ3 := τ*τ, τ*τ*τ
	h00, h10, h01, h11 := 2*τ3-3*τ2+1, τ3-2*τ2+τ, -2*τ3+3*τ2, τ3-τ2
	d00, d10, d01, d11 := 6*τ2-6*τ, 3*τ2-4*τ+1, -6*τ2+6*τ, 3*τ2-2*τ
	for i := 0; i < 3; i++ {
		r[i] = h00*r0[i] + h10*h*v0[i] + h01*r1[i] + h11*h*v1[i]
		v[i] = (d00*r0[i]+d01*r1[i])/h + d10*v0[i] + d11*v1[i]
	}
	return
}
