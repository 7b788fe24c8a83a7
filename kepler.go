package astro

import (
	"fmt"
	"math"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/soniakeys/unit"
)

const (
	// DefaultKeplerTolerance is the default convergence threshold in radians.
	DefaultKeplerTolerance = 1e-12
	// DefaultMaxIterations is the default cap on Newton steps.
	DefaultMaxIterations = 100
	// highEccentricity is the eccentricity above which Newton is seeded at π.
	highEccentricity = 0.8
)

// KeplerSolver solves Kepler's equation with Newton-Raphson.
type KeplerSolver struct {
	Tolerance     float64 // on successive estimates, in radians
	MaxIterations int
	Logger        log.Logger
}

// NewKeplerSolver returns a solver with the default tolerance and iteration cap.
func NewKeplerSolver() KeplerSolver {
	return KeplerSolver{Tolerance: DefaultKeplerTolerance, MaxIterations: DefaultMaxIterations}
}

// EccentricAnomalyFromMeanAnomaly solves M = E - e sin E for E to the provided tolerance
// within DefaultMaxIterations Newton steps.
func EccentricAnomalyFromMeanAnomaly(M unit.Angle, e float64, tolerance float64) (unit.Angle, error) {
	return KeplerSolver{Tolerance: tolerance, MaxIterations: DefaultMaxIterations}.EccentricAnomaly(M, e)
}

func (k KeplerSolver) logger() log.Logger {
	if k.Logger == nil {
		return log.NewNopLogger()
	}
	return k.Logger
}

func (k KeplerSolver) validate(M unit.Angle, e float64) error {
	if math.IsNaN(k.Tolerance) || k.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be positive, got %g", ErrInvalidArgument, k.Tolerance)
	}
	if k.MaxIterations <= 0 {
		return fmt.Errorf("%w: iteration cap must be positive, got %d", ErrInvalidArgument, k.MaxIterations)
	}
	if math.IsNaN(M.Rad()) || math.IsInf(M.Rad(), 0) {
		return fmt.Errorf("%w: mean anomaly %g", ErrInvalidArgument, M.Rad())
	}
	return checkEccentricity(e)
}

// EccentricAnomaly returns the eccentric anomaly E such that E - e sin E = M, or
// the hyperbolic anomaly F such that e sinh F - F = M when e > 1.
// It returns a *NonConvergenceError when the iteration cap is reached.
func (k KeplerSolver) EccentricAnomaly(M unit.Angle, e float64) (unit.Angle, error) {
	if err := k.validate(M, e); err != nil {
		return 0, err
	}
	var (
		E   float64
		err error
	)
	if e < 1 {
		// Solve within [0, 2π) and add the revolutions back.
		Mr := M.Mod1().Rad()
		E, err = k.elliptic(Mr, e)
		E += M.Rad() - Mr
	} else {
		E, err = k.hyperbolic(M.Rad(), e)
	}
	if err != nil {
		level.Debug(k.logger()).Log("subsys", "kepler", "M", M.Rad(), "e", e, "err", err)
		return 0, err
	}
	return unit.Angle(E), nil
}

func (k KeplerSolver) elliptic(M, e float64) (float64, error) {
	// Starting value from Montenbruck and Gill, Satellite Orbits, section 2.2:
	// E₀ = M below e = 0.8 and π above.
	E := M
	if e >= highEccentricity {
		E = math.Pi
	}
	var δ float64
	for i := 0; i < k.MaxIterations; i++ {
		sinE, cosE := math.Sincos(E)
		δ = (E - e*sinE - M) / (1 - e*cosE)
		E -= δ
		if math.Abs(δ) < k.Tolerance {
			return E, nil
		}
	}
	return 0, &NonConvergenceError{MeanAnomaly: M, Eccentricity: e, Iterations: k.MaxIterations, Residual: math.Abs(δ)}
}

func (k KeplerSolver) hyperbolic(M, e float64) (float64, error) {
	// Initial guess from Vallado, algorithm 4, except for large |M| where
	// those guesses need tens of iterations.
	var F float64
	switch {
	case math.Abs(M) > 2*math.Pi:
		F = math.Asinh(M / e)
	case e < 1.6:
		if (M < 0 && M > -math.Pi) || M > math.Pi {
			F = M - e
		} else {
			F = M + e
		}
	case e < 3.6 && math.Abs(M) > math.Pi:
		F = M - sign(M)*e
	default:
		F = M / (e - 1)
	}
	var δ float64
	for i := 0; i < k.MaxIterations; i++ {
		δ = (e*math.Sinh(F) - F - M) / (e*math.Cosh(F) - 1)
		F -= δ
		if math.Abs(δ) < k.Tolerance {
			return F, nil
		}
	}
	return 0, &NonConvergenceError{MeanAnomaly: M, Eccentricity: e, Iterations: k.MaxIterations, Residual: math.Abs(δ)}
}
