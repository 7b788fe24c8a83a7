package frame

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/unit"
)

// Provider computes the transform between two frames at an instant.
type Provider interface {
	Transform(from, to Frame, t time.Time) (Transform, error)
}

// EOP holds the Earth orientation parameters of a given day.
type EOP struct {
	DUT1   float64    // UT1-UTC in seconds
	Xp, Yp unit.Angle // polar motion
}

// EarthProvider implements the IAU 1976/1980 reduction between the GCRF and the
// Earth fixed frames, with the IAU 2000 frame bias applied to the GCRF.
type EarthProvider struct {
	EOP EOP
}

// DefaultProvider ignores UT1-UTC and polar motion.
var DefaultProvider Provider = EarthProvider{}

// frame bias of the GCRF with respect to the dynamical mean equinox of J2000.
var bias = chain(R1(unit.AngleFromSec(6.8192e-3).Rad()), R2(unit.AngleFromSec(-16.617e-3).Rad()), R3(unit.AngleFromSec(-14.6e-3).Rad()))

// Transform implements the Provider interface.
func (p EarthProvider) Transform(from, to Frame, t time.Time) (Transform, error) {
	if !from.IsDefined() || !to.IsDefined() {
		return Transform{}, ErrUndefinedFrame
	}
	if from == to {
		return Identity(), nil
	}
	if t.IsZero() {
		return Transform{}, ErrUndefinedInstant
	}
	src, err := p.fromGCRF(from, t)
	if err != nil {
		return Transform{}, err
	}
	dst, err := p.fromGCRF(to, t)
	if err != nil {
		return Transform{}, err
	}
	return src.Inverse().Compose(dst), nil
}

// fromGCRF returns the transform from the GCRF to f.
func (p EarthProvider) fromGCRF(f Frame, t time.Time) (Transform, error) {
	if f == GCRF {
		return Identity(), nil
	}
	jdTT := JulianDateTT(t)
	T := base.J2000Century(jdTT)

	// IAU 1976 precession angles in arcseconds.
	ζ := unit.AngleFromSec(base.Horner(T, 0, 2306.2181, 0.30188, 0.017998))
	θ := unit.AngleFromSec(base.Horner(T, 0, 2004.3109, -0.42665, -0.041833))
	z := unit.AngleFromSec(base.Horner(T, 0, 2306.2181, 1.09468, 0.018203))
	mod := chain(R3(-z.Rad()), R2(θ.Rad()), R3(-ζ.Rad()), bias)
	if f == MOD {
		return Transform{rotation: mod}, nil
	}

	Δψ, Δε := nutation.Nutation(jdTT)
	ε0 := nutation.MeanObliquity(jdTT)
	ε := ε0 + Δε
	tod := chain(R1(-ε.Rad()), R3(-Δψ.Rad()), R1(ε0.Rad()), mod)
	if f == TOD {
		return Transform{rotation: tod}, nil
	}

	eqeq := Δψ.Rad() * math.Cos(ε.Rad())
	switch f {
	case TEME:
		return Transform{rotation: chain(R3(eqeq), tod)}, nil
	case PEF, ITRF:
	default:
		return Transform{}, fmt.Errorf("%w: %s", ErrUnsupportedFrame, f)
	}

	gmst := p.GMST(t)
	pef := Transform{rotation: chain(R3(gmst+eqeq), tod), ω: [3]float64{0, 0, EarthRotationRate}}
	if f == PEF {
		return pef, nil
	}
	return pef.Compose(Transform{rotation: chain(R2(-p.EOP.Xp.Rad()), R1(-p.EOP.Yp.Rad()))}), nil
}

// GMST returns the Greenwich mean sidereal time at t in radians (IAU 1982).
func (p EarthProvider) GMST(t time.Time) float64 {
	return sidereal.Mean(JulianDateUT1(t, p.EOP.DUT1)).Rad()
}
