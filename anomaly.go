package astro

import (
	"fmt"
	"math"

	"github.com/soniakeys/unit"
)

// checkEccentricity validates an eccentricity for the anomaly conversions, which
// support elliptic and hyperbolic orbits but not the parabolic limit.
func checkEccentricity(e float64) error {
	switch {
	case math.IsNaN(e) || math.IsInf(e, 0) || e < 0:
		return fmt.Errorf("%w: %g", ErrInvalidEccentricity, e)
	case e == 1:
		return fmt.Errorf("%w: parabolic orbits have no eccentric anomaly", ErrInvalidEccentricity)
	}
	return nil
}

// EccentricAnomalyFromTrueAnomaly returns the eccentric anomaly in [0, 2π) of an
// elliptic orbit, or the signed hyperbolic anomaly of a hyperbolic orbit.
func EccentricAnomalyFromTrueAnomaly(ν unit.Angle, e float64) (unit.Angle, error) {
	if err := checkEccentricity(e); err != nil {
		return 0, err
	}
	sinν2, cosν2 := math.Sincos(ν.Rad() / 2)
	if e < 1 {
		return unit.Angle(2 * math.Atan2(math.Sqrt(1-e)*sinν2, math.Sqrt(1+e)*cosν2)).Mod1(), nil
	}
	// Hyperbolic: tanh(F/2) = sqrt((e-1)/(e+1)) tan(ν/2), with ν in (-π, π].
	νs := math.Remainder(ν.Rad(), 2*math.Pi)
	if math.Abs(νs) >= math.Acos(-1/e) {
		return 0, fmt.Errorf("%w: true anomaly %f rad beyond the asymptote of e=%g", ErrInvalidArgument, νs, e)
	}
	return unit.Angle(2 * math.Atanh(math.Sqrt((e-1)/(e+1))*math.Tan(νs/2))), nil
}

// TrueAnomalyFromEccentricAnomaly returns the true anomaly, in [0, 2π) for elliptic
// orbits and in (-π, π) for hyperbolic orbits where E is the hyperbolic anomaly.
func TrueAnomalyFromEccentricAnomaly(E unit.Angle, e float64) (unit.Angle, error) {
	if err := checkEccentricity(e); err != nil {
		return 0, err
	}
	if e < 1 {
		sinE2, cosE2 := math.Sincos(E.Rad() / 2)
		return unit.Angle(2 * math.Atan2(math.Sqrt(1+e)*sinE2, math.Sqrt(1-e)*cosE2)).Mod1(), nil
	}
	return unit.Angle(2 * math.Atan(math.Sqrt((e+1)/(e-1))*math.Tanh(E.Rad()/2))), nil
}

// MeanAnomalyFromEccentricAnomaly returns M = E - e sin E, or M = e sinh F - F for
// hyperbolic orbits.
func MeanAnomalyFromEccentricAnomaly(E unit.Angle, e float64) (unit.Angle, error) {
	if err := checkEccentricity(e); err != nil {
		return 0, err
	}
	if e < 1 {
		return unit.Angle(E.Rad() - e*math.Sin(E.Rad())), nil
	}
	return unit.Angle(e*math.Sinh(E.Rad()) - E.Rad()), nil
}

// MeanAnomalyFromTrueAnomaly chains the two closed form conversions.
func MeanAnomalyFromTrueAnomaly(ν unit.Angle, e float64) (unit.Angle, error) {
	E, err := EccentricAnomalyFromTrueAnomaly(ν, e)
	if err != nil {
		return 0, err
	}
	return MeanAnomalyFromEccentricAnomaly(E, e)
}

// TrueAnomalyFromMeanAnomaly solves Kepler's equation with the provided solver
// and converts the result to a true anomaly.
func TrueAnomalyFromMeanAnomaly(M unit.Angle, e float64, solver KeplerSolver) (unit.Angle, error) {
	E, err := solver.EccentricAnomaly(M, e)
	if err != nil {
		return 0, err
	}
	return TrueAnomalyFromEccentricAnomaly(E, e)
}
