package astro

import (
	"fmt"
	"math"
	"time"

	"github.com/ChristopherRabotin/astro/frame"
	"github.com/soniakeys/unit"
)

const (
	// circularε is the eccentricity below which an orbit is treated as circular.
	circularε = 1e-11
	// equatorialε is the node vector to angular momentum ratio below which an orbit is equatorial.
	equatorialε = 1e-12
	// rectilinearε is the |h| / (|r||v|) ratio below which the angular momentum vanishes.
	rectilinearε = 1e-10
)

// COE is a set of classical orbital elements. The semi-major axis is in meters and
// is negative for hyperbolic orbits. The eccentric anomaly, mean anomaly, mean
// motion and period are computed from these six elements on each call.
type COE struct {
	a, e       float64
	i, Ω, ω, ν unit.Angle
	defined    bool
}

// NewCOE returns a new set of orbital elements.
// The eccentricity must be non-negative; any other combination is representable.
func NewCOE(a, e float64, i, Ω, ω, ν unit.Angle) (COE, error) {
	if math.IsNaN(e) || math.IsInf(e, 0) || e < 0 {
		return COE{}, fmt.Errorf("%w: %g", ErrInvalidEccentricity, e)
	}
	for _, x := range []float64{a, i.Rad(), Ω.Rad(), ω.Rad(), ν.Rad()} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return COE{}, fmt.Errorf("%w: element %g is not finite", ErrInvalidArgument, x)
		}
	}
	return COE{a: a, e: e, i: i, Ω: Ω, ω: ω, ν: ν, defined: true}, nil
}

// UndefinedCOE returns the undefined set of orbital elements.
func UndefinedCOE() COE {
	return COE{}
}

// IsDefined returns whether these elements are defined.
func (o COE) IsDefined() bool {
	return o.defined
}

// SemiMajorAxis returns the semi-major axis in meters.
func (o COE) SemiMajorAxis() (float64, error) {
	if !o.defined {
		return 0, ErrUndefinedState
	}
	return o.a, nil
}

// Eccentricity returns the eccentricity.
func (o COE) Eccentricity() (float64, error) {
	if !o.defined {
		return 0, ErrUndefinedState
	}
	return o.e, nil
}

// Inclination returns the inclination.
func (o COE) Inclination() (unit.Angle, error) {
	return o.angle(o.i)
}

// RAAN returns the right ascension of the ascending node.
func (o COE) RAAN() (unit.Angle, error) {
	return o.angle(o.Ω)
}

// AOP returns the argument of periapsis.
func (o COE) AOP() (unit.Angle, error) {
	return o.angle(o.ω)
}

// TrueAnomaly returns the true anomaly.
func (o COE) TrueAnomaly() (unit.Angle, error) {
	return o.angle(o.ν)
}

func (o COE) angle(a unit.Angle) (unit.Angle, error) {
	if !o.defined {
		return 0, ErrUndefinedState
	}
	return a, nil
}

// EccentricAnomaly returns the eccentric anomaly, or the hyperbolic anomaly of a hyperbolic orbit.
func (o COE) EccentricAnomaly() (unit.Angle, error) {
	if !o.defined {
		return 0, ErrUndefinedState
	}
	return EccentricAnomalyFromTrueAnomaly(o.ν, o.e)
}

// MeanAnomaly returns the mean anomaly.
func (o COE) MeanAnomaly() (unit.Angle, error) {
	E, err := o.EccentricAnomaly()
	if err != nil {
		return 0, err
	}
	return MeanAnomalyFromEccentricAnomaly(E, o.e)
}

// MeanMotion returns the mean motion in radians per second.
func (o COE) MeanMotion(μ GravitationalParameter) (float64, error) {
	if !o.defined {
		return 0, fmt.Errorf("%w: %w", ErrUndefinedParameter, ErrUndefinedState)
	}
	if !μ.IsDefined() {
		return 0, fmt.Errorf("%w: μ=%g", ErrUndefinedParameter, float64(μ))
	}
	a := math.Abs(o.a)
	return math.Sqrt(float64(μ) / (a * a * a)), nil
}

// OrbitalPeriod returns 2π divided by the mean motion. Periods longer than the
// largest time.Duration (about 292 years) return ErrOutOfRange.
func (o COE) OrbitalPeriod(μ GravitationalParameter) (time.Duration, error) {
	n, err := o.MeanMotion(μ)
	if err != nil {
		return 0, err
	}
	if o.e >= 1 {
		return 0, fmt.Errorf("%w: e=%g", ErrOpenOrbit, o.e)
	}
	T := 2 * math.Pi / n
	if T*float64(time.Second) >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: period of %g s does not fit in a time.Duration", ErrOutOfRange, T)
	}
	return time.Duration(T * float64(time.Second)), nil
}

// SemiLatusRectum returns the semi parameter p = a (1 - e²) in meters.
func (o COE) SemiLatusRectum() (float64, error) {
	if !o.defined {
		return 0, ErrUndefinedState
	}
	return o.a * (1 - o.e*o.e), nil
}

// PeriapsisRadius returns the periapsis radius in meters.
func (o COE) PeriapsisRadius() (float64, error) {
	if !o.defined {
		return 0, ErrUndefinedState
	}
	return o.a * (1 - o.e), nil
}

// ApoapsisRadius returns the apoapsis radius in meters.
func (o COE) ApoapsisRadius() (float64, error) {
	if !o.defined {
		return 0, ErrUndefinedState
	}
	if o.e >= 1 {
		return 0, ErrOpenOrbit
	}
	return o.a * (1 + o.e), nil
}

// SpecificEnergy returns the specific mechanical energy ξ in J/kg.
func (o COE) SpecificEnergy(μ GravitationalParameter) (float64, error) {
	if !o.defined {
		return 0, ErrUndefinedState
	}
	if !μ.IsDefined() {
		return 0, ErrUndefinedParameter
	}
	return -float64(μ) / (2 * o.a), nil
}

// CartesianState returns the state at epoch, in meters and meters per second,
// expressed in the provided frame. The angles of the elements are taken as
// relative to that frame.
func (o COE) CartesianState(epoch time.Time, μ GravitationalParameter, f frame.Frame) (State, error) {
	if !o.defined || epoch.IsZero() {
		return State{}, ErrUndefinedState
	}
	if !μ.IsDefined() {
		return State{}, fmt.Errorf("%w: μ=%g", ErrUndefinedParameter, float64(μ))
	}
	if !f.IsDefined() {
		return State{}, ErrUndefinedFrame
	}
	p := o.a * (1 - o.e*o.e)
	if p <= 0 || math.IsNaN(p) {
		return State{}, fmt.Errorf("%w: semi parameter %g m", ErrDegenerateOrbit, p)
	}
	sinν, cosν := o.ν.Sincos()
	denom := 1 + o.e*cosν
	if denom <= 0 {
		return State{}, fmt.Errorf("%w: true anomaly beyond the asymptote", ErrInvalidArgument)
	}
	R := []float64{p * cosν / denom, p * sinν / denom, 0}
	vScale := math.Sqrt(float64(μ) / p)
	V := []float64{-vScale * sinν, vScale * (o.e + cosν), 0}
	R = PQW2Inertial(o.i, o.ω, o.Ω, R)
	V = PQW2Inertial(o.i, o.ω, o.Ω, V)
	return NewState(epoch, Meters([3]float64{R[0], R[1], R[2]}, f), MetersPerSecond([3]float64{V[0], V[1], V[2]}, f))
}

// COEFromCartesian returns the orbital elements of a state, relative to its frame.
// Circular orbits use an argument of periapsis of zero and store the argument of
// latitude as true anomaly. Equatorial orbits use a RAAN of zero and store the
// longitude of periapsis as argument of periapsis. A vanishing angular momentum
// returns ErrDegenerateOrbit.
func COEFromCartesian(s State, μ GravitationalParameter) (COE, error) {
	if !s.IsDefined() {
		return COE{}, ErrUndefinedState
	}
	if !μ.IsDefined() {
		return COE{}, fmt.Errorf("%w: μ=%g", ErrUndefinedParameter, float64(μ))
	}
	// From Vallado's RV2COE, with atan2 for every angle.
	rA, vA := s.inSI()
	R, V := rA[:], vA[:]
	mu := float64(μ)
	r := norm(R)
	v := norm(V)
	hVec := cross(R, V)
	h := norm(hVec)
	if r == 0 || h <= rectilinearε*r*v {
		return COE{}, fmt.Errorf("%w: |h|=%g m²/s", ErrDegenerateOrbit, h)
	}
	hHat := unitVector(hVec)
	n := []float64{-hVec[1], hVec[0], 0}
	ξ := (v*v)/2 - mu/r
	eVec := make([]float64, 3)
	rDotV := dot(R, V)
	for i := 0; i < 3; i++ {
		eVec[i] = ((v*v-mu/r)*R[i] - rDotV*V[i]) / mu
	}
	e := norm(eVec)
	if math.Abs(e-1) < circularε {
		return COE{}, fmt.Errorf("%w: parabolic orbits are not supported", ErrInvalidEccentricity)
	}
	a := -mu / (2 * ξ)
	i := math.Atan2(math.Hypot(hVec[0], hVec[1]), hVec[2])

	// angleIn returns the angle from x to y, in the orbit plane, along the motion.
	angleIn := func(x, y []float64) float64 {
		return math.Atan2(dot(cross(x, y), hHat), dot(x, y))
	}
	var Ω, ω, ν float64
	equatorial := norm(n) <= equatorialε*h
	circular := e < circularε
	xHat := []float64{1, 0, 0}
	switch {
	case !circular && !equatorial:
		Ω = math.Atan2(n[1], n[0])
		ω = angleIn(n, eVec)
		ν = angleIn(eVec, R)
	case circular && !equatorial:
		Ω = math.Atan2(n[1], n[0])
		ν = angleIn(n, R) // argument of latitude
	case !circular && equatorial:
		ω = angleIn(xHat, eVec) // longitude of periapsis
		ν = angleIn(eVec, R)
	default:
		ν = angleIn(xHat, R) // true longitude
	}
	return COE{
		a: a, e: e,
		i:       unit.Angle(i),
		Ω:       unit.Angle(Ω).Mod1(),
		ω:       unit.Angle(ω).Mod1(),
		ν:       unit.Angle(ν).Mod1(),
		defined: true,
	}, nil
}

// Propagate returns the elements after dt of two-body motion.
func (o COE) Propagate(dt time.Duration, μ GravitationalParameter, solver KeplerSolver) (COE, error) {
	n, err := o.MeanMotion(μ)
	if err != nil {
		return COE{}, err
	}
	M0, err := o.MeanAnomaly()
	if err != nil {
		return COE{}, err
	}
	ν, err := TrueAnomalyFromMeanAnomaly(unit.Angle(M0.Rad()+n*dt.Seconds()), o.e, solver)
	if err != nil {
		return COE{}, err
	}
	rslt := o
	rslt.ν = ν.Mod1()
	return rslt, nil
}

// Equal returns whether both element sets are defined and identical.
func (o COE) Equal(o1 COE) bool {
	return o.defined && o1.defined && o.a == o1.a && o.e == o1.e && o.i == o1.i && o.Ω == o1.Ω && o.ω == o1.ω && o.ν == o1.ν
}

// String implements the Stringer interface (hence the value receiver).
func (o COE) String() string {
	if !o.defined {
		return "Undefined COE"
	}
	return fmt.Sprintf("a=%.3f km e=%.6f i=%.3f Ω=%.3f ω=%.3f ν=%.3f", o.a/1e3, o.e, o.i.Deg(), o.Ω.Deg(), o.ω.Deg(), o.ν.Deg())
}
