package frame

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var identity = mat.NewDiagDense(3, []float64{1, 1, 1})

// Transform re-expresses a position and velocity pair from one frame into another.
// The angular velocity is that of the source frame with respect to the target
// frame, expressed in the target frame, and accounts for the transport term of
// the velocity. The zero value is the identity.
type Transform struct {
	rotation *mat.Dense
	ω        [3]float64
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{}
}

// NewTransform returns a transform from a 3x3 rotation matrix and an angular velocity in rad/s.
func NewTransform(rotation mat.Matrix, ω [3]float64) (Transform, error) {
	if r, c := rotation.Dims(); r != 3 || c != 3 {
		return Transform{}, fmt.Errorf("rotation must be 3x3, got %dx%d", r, c)
	}
	return Transform{rotation: mat.DenseCopyOf(rotation), ω: ω}, nil
}

func (tr Transform) matrix() mat.Matrix {
	if tr.rotation == nil {
		return identity
	}
	return tr.rotation
}

// Rotation returns a copy of the rotation matrix.
func (tr Transform) Rotation() *mat.Dense {
	return mat.DenseCopyOf(tr.matrix())
}

// AngularVelocity returns the angular velocity in rad/s.
func (tr Transform) AngularVelocity() [3]float64 {
	return tr.ω
}

// Apply returns r' = R·r and v' = R·v - ω×r'.
func (tr Transform) Apply(r, v [3]float64) (rOut, vOut [3]float64) {
	rOut = mulVec(tr.matrix(), r)
	vOut = mulVec(tr.matrix(), v)
	transport := cross(tr.ω, rOut)
	for i := 0; i < 3; i++ {
		vOut[i] -= transport[i]
	}
	return
}

// Compose returns the transform applying tr first and then next.
func (tr Transform) Compose(next Transform) Transform {
	var rot mat.Dense
	rot.Mul(next.matrix(), tr.matrix())
	ω := mulVec(next.matrix(), tr.ω)
	for i := 0; i < 3; i++ {
		ω[i] += next.ω[i]
	}
	return Transform{rotation: &rot, ω: ω}
}

// Inverse returns the transform going the other way.
func (tr Transform) Inverse() Transform {
	var rot mat.Dense
	rot.CloneFrom(tr.matrix().T())
	ω := mulVec(&rot, tr.ω)
	for i := 0; i < 3; i++ {
		ω[i] = -ω[i]
	}
	return Transform{rotation: &rot, ω: ω}
}
