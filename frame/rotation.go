package frame

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// EarthRotationRate is the nominal Earth rotation rate in radians per second.
const EarthRotationRate = 7.292115146706979e-5

// R1 rotation about the 1st axis.
func R1(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R2 rotation about the 2nd axis.
func R2(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// chain returns the product m[0]·m[1]·...·m[n-1], so the last matrix is applied first.
func chain(m ...*mat.Dense) *mat.Dense {
	out := mat.DenseCopyOf(m[0])
	for _, next := range m[1:] {
		var tmp mat.Dense
		tmp.Mul(out, next)
		out = &tmp
	}
	return out
}

func mulVec(m mat.Matrix, v [3]float64) [3]float64 {
	var out mat.VecDense
	out.MulVec(m, mat.NewVecDense(3, v[:]))
	return [3]float64{out.AtVec(0), out.AtVec(1), out.AtVec(2)}
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0]}
}
