package astro

import (
	"math"

	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/mat"
)

// R3R1R3 performs a 3-1-3 Euler parameter rotation.
// From Schaub and Junkins.
func R3R1R3(θ1, θ2, θ3 float64) *mat.Dense {
	sθ1, cθ1 := math.Sincos(θ1)
	sθ2, cθ2 := math.Sincos(θ2)
	sθ3, cθ3 := math.Sincos(θ3)
	return mat.NewDense(3, 3, []float64{cθ3*cθ1 - sθ3*cθ2*sθ1, cθ3*sθ1 + sθ3*cθ2*cθ1, sθ3 * sθ2,
		-sθ3*cθ1 - cθ3*cθ2*sθ1, -sθ3*sθ1 + cθ3*cθ2*cθ1, cθ3 * sθ2,
		sθ2 * sθ1, -sθ2 * cθ1, cθ2})
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m mat.Matrix, v []float64) []float64 {
	var out mat.VecDense
	out.MulVec(m, mat.NewVecDense(len(v), v))
	return []float64{out.AtVec(0), out.AtVec(1), out.AtVec(2)}
}

// PQW2Inertial converts a perifocal vector into the frame in which the
// RAAN, inclination and argument of periapsis are expressed.
func PQW2Inertial(i, ω, Ω unit.Angle, vI []float64) []float64 {
	// R3R1R3 maps the inertial frame onto PQW, so use its transpose.
	return MxV33(R3R1R3(Ω.Rad(), i.Rad(), ω.Rad()).T(), vI)
}

// GEO2ECEF returns the body fixed position of a point at the provided altitude
// (in meters) above a spherical body.
func GEO2ECEF(b Body, altitude float64, latitude, longitude unit.Angle) [3]float64 {
	sLong, cLong := longitude.Sincos()
	sLat, cLat := latitude.Sincos()
	r := altitude + b.Radius
	return [3]float64{r * cLat * cLong, r * cLat * sLong, r * sLat}
}
