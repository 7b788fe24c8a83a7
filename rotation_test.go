package astro

import (
	"math"
	"testing"

	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestR3R1R3(t *testing.T) {
	// R3R1R3 must match the explicit product R3(θ3) R1(θ2) R3(θ1).
	θ1, θ2, θ3 := 0.3, 1.1, -2.4
	r3 := func(x float64) [3][3]float64 {
		s, c := math.Sincos(x)
		return [3][3]float64{{c, s, 0}, {-s, c, 0}, {0, 0, 1}}
	}
	r1 := func(x float64) [3][3]float64 {
		s, c := math.Sincos(x)
		return [3][3]float64{{1, 0, 0}, {0, c, s}, {0, -s, c}}
	}
	mul := func(a, b [3][3]float64) (c [3][3]float64) {
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				for k := 0; k < 3; k++ {
					c[i][j] += a[i][k] * b[k][j]
				}
			}
		}
		return
	}
	exp := mul(r3(θ3), mul(r1(θ2), r3(θ1)))
	got := R3R1R3(θ1, θ2, θ3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if !scalar.EqualWithinAbs(got.At(i, j), exp[i][j], 1e-15) {
				t.Fatalf("(%d, %d): %f != %f", i, j, got.At(i, j), exp[i][j])
			}
		}
	}
}

func TestPQW2Inertial(t *testing.T) {
	// With no rotation, the perifocal frame is the inertial frame.
	v := []float64{1, 2, 3}
	if !floats.EqualApprox(PQW2Inertial(0, 0, 0, v), v, 1e-15) {
		t.Fatal("identity rotation failed")
	}
	// An equatorial orbit with Ω + ω = 90° puts periapsis along +Y.
	got := PQW2Inertial(0, unit.AngleFromDeg(60), unit.AngleFromDeg(30), []float64{1, 0, 0})
	if !floats.EqualApprox(got, []float64{0, 1, 0}, 1e-15) {
		t.Fatalf("periapsis direction %v", got)
	}
	// A polar orbit with Ω = 0 and ω = 90° puts periapsis along +Z.
	got = PQW2Inertial(unit.AngleFromDeg(90), unit.AngleFromDeg(90), 0, []float64{1, 0, 0})
	if !floats.EqualApprox(got, []float64{0, 0, 1}, 1e-15) {
		t.Fatalf("periapsis direction %v", got)
	}
}
