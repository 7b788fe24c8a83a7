package astro

import (
	"time"

	"github.com/ChristopherRabotin/astro/frame"
)

// KeplerPropagator propagates orbital elements with two-body motion.
// The elements are expressed in Frame, which must be inertial. States are
// returned in Output when it is defined, converted with Provider (nil means
// frame.DefaultProvider).
type KeplerPropagator struct {
	Elements COE
	Epoch    time.Time
	Mu       GravitationalParameter
	Frame    frame.Frame
	Solver   KeplerSolver // zero value uses NewKeplerSolver
	Output   frame.Frame
	Provider frame.Provider
}

// NewKeplerOrbit returns an orbit model propagating the elements around the body.
func NewKeplerOrbit(elements COE, epoch time.Time, body Body, f frame.Frame) Orbit {
	return NewOrbit(KeplerPropagator{Elements: elements, Epoch: epoch, Mu: body.GM, Frame: f})
}

func (k KeplerPropagator) solver() KeplerSolver {
	if k.Solver.Tolerance == 0 && k.Solver.MaxIterations == 0 {
		s := NewKeplerSolver()
		s.Logger = k.Solver.Logger
		return s
	}
	return k.Solver
}

// IsDefined implements the Propagator interface.
func (k KeplerPropagator) IsDefined() bool {
	return k.Elements.IsDefined() && !k.Epoch.IsZero() && k.Mu.IsDefined() && k.Frame.IsInertial()
}

// StateAt implements the Propagator interface.
func (k KeplerPropagator) StateAt(t time.Time) (State, error) {
	if !k.IsDefined() {
		return State{}, ErrUndefinedState
	}
	elements, err := k.Elements.Propagate(t.Sub(k.Epoch), k.Mu, k.solver())
	if err != nil {
		return State{}, err
	}
	st, err := elements.CartesianState(t, k.Mu, k.Frame)
	if err != nil || !k.Output.IsDefined() {
		return st, err
	}
	return st.InFrame(k.Output, k.Provider)
}

// Equal implements the Propagator interface. The solver logger and the provider are ignored.
func (k KeplerPropagator) Equal(o Propagator) bool {
	other, ok := o.(KeplerPropagator)
	if !ok {
		return false
	}
	s0, s1 := k.solver(), other.solver()
	return k.Elements.Equal(other.Elements) && k.Epoch.Equal(other.Epoch) && k.Mu == other.Mu &&
		k.Frame == other.Frame && k.Output == other.Output && s0.Tolerance == s1.Tolerance && s0.MaxIterations == s1.MaxIterations
}
