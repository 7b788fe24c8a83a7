// Package frame provides the Earth-centered reference frames used by astro and the
// transformations between them.
package frame

import "errors"

var (
	// ErrUndefinedFrame is returned when a transform involves the undefined frame.
	ErrUndefinedFrame = errors.New("undefined frame")
	// ErrUnsupportedFrame is returned for frames a Provider does not know how to reach.
	ErrUnsupportedFrame = errors.New("unsupported frame")
	// ErrUndefinedInstant is returned when a transform is requested at the zero time.
	ErrUndefinedInstant = errors.New("undefined instant")
)

// Frame identifies a reference frame. The zero value is the undefined frame.
type Frame struct {
	name     string
	inertial bool
}

var (
	// GCRF is the Geocentric Celestial Reference Frame.
	GCRF = Frame{"GCRF", true}
	// MOD is the mean equator, mean equinox of date frame (IAU 1976 precession).
	MOD = Frame{"MOD", true}
	// TOD is the true equator, true equinox of date frame (IAU 1980 nutation).
	TOD = Frame{"TOD", true}
	// TEME is the true equator, mean equinox frame in which SGP4 outputs its states.
	TEME = Frame{"TEME", true}
	// PEF is the pseudo Earth fixed frame, i.e. ITRF without polar motion.
	PEF = Frame{"PEF", false}
	// ITRF is the International Terrestrial Reference Frame.
	ITRF = Frame{"ITRF", false}
)

var known = map[string]Frame{
	GCRF.name: GCRF,
	MOD.name:  MOD,
	TOD.name:  TOD,
	TEME.name: TEME,
	PEF.name:  PEF,
	ITRF.name: ITRF,
}

// Undefined returns the undefined frame.
func Undefined() Frame {
	return Frame{}
}

// FromString returns the frame with the provided name (e.g. "GCRF").
func FromString(name string) (Frame, error) {
	if f, ok := known[name]; ok {
		return f, nil
	}
	return Frame{}, ErrUnsupportedFrame
}

// IsDefined returns whether this is a known frame.
func (f Frame) IsDefined() bool {
	return f.name != ""
}

// IsInertial returns whether this frame does not rotate with the Earth.
func (f Frame) IsInertial() bool {
	return f.inertial
}

// String implements the Stringer interface.
func (f Frame) String() string {
	if !f.IsDefined() {
		return "Undefined"
	}
	return f.name
}
