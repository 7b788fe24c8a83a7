package astro

import (
	"errors"
	"fmt"
)

var (
	// ErrUndefinedState is returned when operating on an undefined state or element set.
	ErrUndefinedState = errors.New("undefined state")
	// ErrUndefinedFrame is returned when a frame is undefined or cannot be reached.
	ErrUndefinedFrame = errors.New("undefined frame")
	// ErrUndefinedParameter is returned for an undefined gravitational parameter.
	ErrUndefinedParameter = errors.New("undefined parameter")
	// ErrFrameMismatch is returned when combining quantities expressed in different frames.
	ErrFrameMismatch = errors.New("frame mismatch")
	// ErrUnitMismatch is returned when combining quantities expressed in different units.
	ErrUnitMismatch = errors.New("unit mismatch")
	// ErrInstantMismatch is returned when combining states defined at different instants.
	ErrInstantMismatch = errors.New("instant mismatch")
	// ErrInvalidEccentricity is returned for a negative (or otherwise unusable) eccentricity.
	ErrInvalidEccentricity = errors.New("invalid eccentricity")
	// ErrInvalidArgument is returned for out of domain inputs.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDegenerateOrbit is returned when the angular momentum vanishes.
	ErrDegenerateOrbit = errors.New("degenerate orbit")
	// ErrNonConvergence is matched by NonConvergenceError.
	ErrNonConvergence = errors.New("no convergence")
	// ErrOpenOrbit is returned when a closed orbit quantity is requested on an open orbit.
	ErrOpenOrbit = errors.New("open orbit")
	// ErrOutOfRange is returned when querying a tabulated trajectory outside of its samples,
	// or when a duration does not fit in a time.Duration.
	ErrOutOfRange = errors.New("instant out of range")
	// ErrDuplicateInstant is returned when two samples share the same instant.
	ErrDuplicateInstant = errors.New("duplicate instant")
)

// NonConvergenceError is returned by the Kepler solver when the iteration cap is reached.
type NonConvergenceError struct {
	MeanAnomaly  float64
	Eccentricity float64
	Iterations   int
	Residual     float64 // last |E_{k+1} - E_k|
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("kepler: no convergence after %d iterations (M=%g, e=%g, last step=%g)", e.Iterations, e.MeanAnomaly, e.Eccentricity, e.Residual)
}

// Unwrap allows errors.Is(err, ErrNonConvergence).
func (e *NonConvergenceError) Unwrap() error {
	return ErrNonConvergence
}

// PropagationError is returned when SGP4 yields an unusable state.
type PropagationError struct {
	Satellite string
	Reason    string
}

func (e *PropagationError) Error() string {
	return fmt.Sprintf("sgp4: %s: %s", e.Satellite, e.Reason)
}
