package astro

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ChristopherRabotin/astro/frame"
	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/stat/distuv"
)

var epoch2020 = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

func mustCOE(t *testing.T, a, e, i, Ω, ω, ν float64) COE {
	t.Helper()
	o, err := NewCOE(a, e, unit.AngleFromDeg(i), unit.AngleFromDeg(Ω), unit.AngleFromDeg(ω), unit.AngleFromDeg(ν))
	if err != nil {
		t.Fatalf("NewCOE: %v", err)
	}
	return o
}

func TestCOEFromCartesianVallado(t *testing.T) {
	// Vallado, example 2-5.
	s, err := NewState(epoch2020,
		NewPosition([3]float64{6524.834, 6862.875, 6448.296}, Kilometer, frame.GCRF),
		NewVelocity([3]float64{4.901327, 5.533756, -1.976341}, KilometerPerSecond, frame.GCRF))
	if err != nil {
		t.Fatal(err)
	}
	o, err := COEFromCartesian(s, Earth.GM)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := o.SemiMajorAxis()
	e, _ := o.Eccentricity()
	if !scalar.EqualWithinAbs(a, 36127.3376e3, 10) {
		t.Fatalf("a=%f", a)
	}
	if !scalar.EqualWithinAbs(e, 0.8328534, 1e-6) {
		t.Fatalf("e=%f", e)
	}
	i, _ := o.Inclination()
	Ω, _ := o.RAAN()
	ω, _ := o.AOP()
	ν, _ := o.TrueAnomaly()
	for _, tt := range []struct {
		name string
		got  unit.Angle
		exp  float64
	}{
		{"i", i, 87.869126},
		{"Ω", Ω, 227.898260},
		{"ω", ω, 53.384931},
		{"ν", ν, 92.335157},
	} {
		if !scalar.EqualWithinAbs(tt.got.Deg(), tt.exp, 1e-5) {
			t.Errorf("%s=%f, want %f", tt.name, tt.got.Deg(), tt.exp)
		}
	}
	ξ, _ := o.SpecificEnergy(Earth.GM)
	if !scalar.EqualWithinAbs(ξ/1e6, -5.516604, 1e-5) {
		t.Fatalf("ξ=%f km²/s²", ξ/1e6)
	}
}

func TestCOECartesianStateVallado(t *testing.T) {
	// Vallado, example 2-6, from the semi parameter.
	p, e := 11067.790e3, 0.83285
	o := mustCOE(t, p/(1-e*e), e, 87.87, 227.89, 53.38, 92.335)
	s, err := o.CartesianState(epoch2020, Earth.GM, frame.GCRF)
	if err != nil {
		t.Fatal(err)
	}
	if s.Frame() != frame.GCRF {
		t.Fatalf("frame %s", s.Frame())
	}
	r, _ := s.Position()
	v, _ := s.Velocity()
	if r.Unit() != Meter || v.Unit() != MeterPerSecond {
		t.Fatal("state should be in SI")
	}
	expR := []float64{6525.344e3, 6861.535e3, 6449.125e3}
	expV := []float64{4.902276e3, 5.533124e3, -1.975709e3}
	R, V := r.Coordinates(), v.Coordinates()
	// The book rounds its angles.
	if floats.Distance(R[:], expR, 2) > 50 {
		t.Fatalf("R=%v", R)
	}
	if floats.Distance(V[:], expV, 2) > 0.05 {
		t.Fatalf("V=%v", V)
	}
	if rp, _ := o.PeriapsisRadius(); !scalar.EqualWithinAbs(rp, p/(1+e), 1e-6) {
		t.Fatalf("periapsis radius %f", rp)
	}
	if ra, _ := o.ApoapsisRadius(); !scalar.EqualWithinAbs(ra, p/(1-e), 1e-6) {
		t.Fatalf("apoapsis radius %f", ra)
	}
	if sl, _ := o.SemiLatusRectum(); !scalar.EqualWithinRel(sl, p, 1e-12) {
		t.Fatalf("semi latus rectum %f", sl)
	}
}

func TestCOERoundTrip(t *testing.T) {
	sma := distuv.Uniform{Min: 6600e3, Max: 42000e3}
	ecc := distuv.Uniform{Min: 0.001, Max: 0.9}
	inc := distuv.Uniform{Min: 1, Max: 179}
	angle := distuv.Uniform{Min: 0, Max: 360}
	for n := 0; n < 500; n++ {
		o := mustCOE(t, sma.Rand(), ecc.Rand(), inc.Rand(), angle.Rand(), angle.Rand(), angle.Rand())
		s, err := o.CartesianState(epoch2020, Earth.GM, frame.GCRF)
		if err != nil {
			t.Fatal(err)
		}
		o1, err := COEFromCartesian(s, Earth.GM)
		if err != nil {
			t.Fatal(err)
		}
		s1, err := o1.CartesianState(epoch2020, Earth.GM, frame.GCRF)
		if err != nil {
			t.Fatal(err)
		}
		r0, v0 := s.inSI()
		r1, v1 := s1.inSI()
		if floats.Distance(r0[:], r1[:], 2) > 1e-9*norm(r0[:]) || floats.Distance(v0[:], v1[:], 2) > 1e-9*norm(v0[:]) {
			t.Fatalf("round trip failed for %s:\n%s\n%s", o, s, s1)
		}
		a0, _ := o.SemiMajorAxis()
		a1, _ := o1.SemiMajorAxis()
		if !scalar.EqualWithinRel(a0, a1, 1e-9) {
			t.Fatalf("a %f != %f", a0, a1)
		}
		for _, pair := range [][2]unit.Angle{{o.i, o1.i}, {o.Ω, o1.Ω}, {o.ω, o1.ω}, {o.ν, o1.ν}} {
			if ok, err := anglesEqual(pair[0], pair[1], 1e-7); !ok {
				t.Fatalf("%s\n%s\n%s", o, o1, err)
			}
		}
	}
}

func TestCOEHyperbolic(t *testing.T) {
	o := mustCOE(t, -20000e3, 1.5, 30, 40, 50, 60)
	s, err := o.CartesianState(epoch2020, Earth.GM, frame.GCRF)
	if err != nil {
		t.Fatal(err)
	}
	o1, err := COEFromCartesian(s, Earth.GM)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := o1.SemiMajorAxis()
	if !scalar.EqualWithinRel(a, -20000e3, 1e-10) {
		t.Fatalf("a=%f", a)
	}
	if ok, err := anglesEqual(o1.ν, unit.AngleFromDeg(60), 1e-9); !ok {
		t.Fatal(err)
	}
	if _, err := o.OrbitalPeriod(Earth.GM); !errors.Is(err, ErrOpenOrbit) {
		t.Fatalf("hyperbolic period: %v", err)
	}
	if _, err := o.ApoapsisRadius(); !errors.Is(err, ErrOpenOrbit) {
		t.Fatalf("hyperbolic apoapsis: %v", err)
	}
	// The asymptote of e=1.5 is at 131.8°.
	beyond := mustCOE(t, -20000e3, 1.5, 30, 40, 50, 150)
	if _, err := beyond.CartesianState(epoch2020, Earth.GM, frame.GCRF); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("beyond the asymptote: %v", err)
	}
	// Half an hour later, the spacecraft is further out.
	o2, err := o.Propagate(30*time.Minute, Earth.GM, NewKeplerSolver())
	if err != nil {
		t.Fatal(err)
	}
	if o2.ν <= o.ν {
		t.Fatalf("ν went from %f to %f", o.ν.Deg(), o2.ν.Deg())
	}
}

func TestCOESpecialOrbits(t *testing.T) {
	r := 7000e3
	vc := math.Sqrt(float64(Earth.GM) / r)

	// Circular equatorial: all of the angle is in the true longitude.
	s := mustState(t, epoch2020, [3]float64{0, r, 0}, [3]float64{-vc, 0, 0}, frame.GCRF)
	o, err := COEFromCartesian(s, Earth.GM)
	if err != nil {
		t.Fatal(err)
	}
	if o.e > 1e-11 || o.i != 0 || o.Ω != 0 || o.ω != 0 {
		t.Fatalf("circular equatorial %s", o)
	}
	if ok, err := anglesEqual(o.ν, unit.AngleFromDeg(90), 1e-12); !ok {
		t.Fatal(err)
	}

	// Circular inclined: ω is zero and ν is the argument of latitude.
	s = mustState(t, epoch2020, [3]float64{0, 0, r}, [3]float64{0, -vc, 0}, frame.GCRF)
	if o, err = COEFromCartesian(s, Earth.GM); err != nil {
		t.Fatal(err)
	}
	if o.ω != 0 {
		t.Fatalf("circular ω=%f", o.ω.Deg())
	}
	if ok, err := anglesEqual(o.ν, unit.AngleFromDeg(90), 1e-12); !ok {
		t.Fatalf("argument of latitude: %s", err)
	}
	if !scalar.EqualWithinAbs(o.i.Deg(), 90, 1e-12) {
		t.Fatalf("i=%f", o.i.Deg())
	}

	// Elliptic equatorial: Ω is zero and ω is the longitude of periapsis.
	s = mustState(t, epoch2020, [3]float64{0, r, 0}, [3]float64{-1.1 * vc, 0, 0}, frame.GCRF)
	if o, err = COEFromCartesian(s, Earth.GM); err != nil {
		t.Fatal(err)
	}
	if o.Ω != 0 || o.ν != 0 {
		t.Fatalf("equatorial Ω=%f ν=%f", o.Ω.Deg(), o.ν.Deg())
	}
	if ok, err := anglesEqual(o.ω, unit.AngleFromDeg(90), 1e-12); !ok {
		t.Fatalf("longitude of periapsis: %s", err)
	}

	// Rectilinear.
	s = mustState(t, epoch2020, [3]float64{r, 0, 0}, [3]float64{1000, 0, 0}, frame.GCRF)
	if _, err = COEFromCartesian(s, Earth.GM); !errors.Is(err, ErrDegenerateOrbit) {
		t.Fatalf("rectilinear: %v", err)
	}
	// Parabolic.
	s = mustState(t, epoch2020, [3]float64{r, 0, 0}, [3]float64{0, math.Sqrt(2) * vc, 0}, frame.GCRF)
	if _, err = COEFromCartesian(s, Earth.GM); !errors.Is(err, ErrInvalidEccentricity) {
		t.Fatalf("parabolic: %v", err)
	}
}

func TestCOEPeriodAndPropagation(t *testing.T) {
	o := mustCOE(t, 6778.137e3, 0.001, 51.6, 10, 20, 30)
	n, err := o.MeanMotion(Earth.GM)
	if err != nil {
		t.Fatal(err)
	}
	period, err := o.OrbitalPeriod(Earth.GM)
	if err != nil {
		t.Fatal(err)
	}
	exp := 2 * math.Pi * math.Sqrt(math.Pow(6778.137e3, 3)/float64(Earth.GM))
	if math.Abs(period.Seconds()-exp) > 1e-6 {
		t.Fatalf("period %s, expected %f s", period, exp)
	}
	if period != time.Duration(2*math.Pi/n*float64(time.Second)) {
		t.Fatal("period is not 2π/n")
	}

	// Heliocentric orbits: 40 AU (about 253 years) fits in a time.Duration, 60 AU does not.
	const AU = 149597870700.0
	far := mustCOE(t, 40*AU, 0.1, 5, 0, 0, 0)
	if period, err := far.OrbitalPeriod(Sun.GM); err != nil {
		t.Fatal(err)
	} else if n, _ := far.MeanMotion(Sun.GM); !scalar.EqualWithinRel(period.Seconds(), 2*math.Pi/n, 1e-12) {
		t.Fatalf("40 AU period %s", period)
	}
	farther := mustCOE(t, 60*AU, 0.1, 5, 0, 0, 0)
	if period, err := farther.OrbitalPeriod(Sun.GM); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("60 AU period %s, err=%v", period, err)
	}

	// After a full period, the spacecraft is back where it started.
	o1, err := o.Propagate(period, Earth.GM, NewKeplerSolver())
	if err != nil {
		t.Fatal(err)
	}
	if ok, err := anglesEqual(o.ν, o1.ν, 1e-8); !ok {
		t.Fatal(err)
	}
	if o1.a != o.a || o1.e != o.e || o1.i != o.i || o1.Ω != o.Ω || o1.ω != o.ω {
		t.Fatal("propagation changed the orbit shape")
	}
	// Propagating backward then forward returns the same anomaly.
	back, err := o.Propagate(-47*time.Minute, Earth.GM, NewKeplerSolver())
	if err != nil {
		t.Fatal(err)
	}
	fwd, err := back.Propagate(47*time.Minute, Earth.GM, NewKeplerSolver())
	if err != nil {
		t.Fatal(err)
	}
	if ok, err := anglesEqual(o.ν, fwd.ν, 1e-9); !ok {
		t.Fatal(err)
	}
}

func TestCOEUndefined(t *testing.T) {
	u := UndefinedCOE()
	if u.IsDefined() || u.Equal(u) {
		t.Fatal("undefined COE")
	}
	if _, err := u.MeanMotion(Earth.GM); !errors.Is(err, ErrUndefinedParameter) {
		t.Fatalf("mean motion: %v", err)
	}
	if _, err := u.Propagate(time.Minute, Earth.GM, NewKeplerSolver()); err == nil {
		t.Fatal("propagating undefined elements")
	}
	if _, err := u.CartesianState(epoch2020, Earth.GM, frame.GCRF); !errors.Is(err, ErrUndefinedState) {
		t.Fatalf("Cartesian state: %v", err)
	}
	if _, err := u.SemiMajorAxis(); !errors.Is(err, ErrUndefinedState) {
		t.Fatalf("sma: %v", err)
	}
	if _, err := NewCOE(7000e3, -0.1, 0, 0, 0, 0); !errors.Is(err, ErrInvalidEccentricity) {
		t.Fatalf("negative eccentricity: %v", err)
	}
	if _, err := NewCOE(math.NaN(), 0.1, 0, 0, 0, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("NaN sma: %v", err)
	}
	o := mustCOE(t, 7000e3, 0.1, 10, 20, 30, 40)
	for _, μ := range []GravitationalParameter{0, -1, GravitationalParameter(math.NaN()), GravitationalParameter(math.Inf(1))} {
		if _, err := o.MeanMotion(μ); !errors.Is(err, ErrUndefinedParameter) {
			t.Errorf("μ=%g: %v", float64(μ), err)
		}
	}
	// Degenerate conic.
	para := mustCOE(t, 7000e3, 1, 10, 20, 30, 40)
	if _, err := para.CartesianState(epoch2020, Earth.GM, frame.GCRF); !errors.Is(err, ErrDegenerateOrbit) {
		t.Fatalf("parabolic elements: %v", err)
	}
	if !o.Equal(mustCOE(t, 7000e3, 0.1, 10, 20, 30, 40)) {
		t.Fatal("identical elements differ")
	}
}
