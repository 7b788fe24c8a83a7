package astro

import (
	"fmt"
	"math"
	"strings"
)

// GravitationalParameter is the product of the gravitational constant and the
// mass of a body, in m³/s². Only finite positive values are defined.
type GravitationalParameter float64

// IsDefined returns whether μ is finite and strictly positive.
func (μ GravitationalParameter) IsDefined() bool {
	return μ > 0 && !math.IsInf(float64(μ), 1)
}

// Body defines a central body.
type Body struct {
	Name   string
	Radius float64 // equatorial radius in meters
	GM     GravitationalParameter
}

// String implements the Stringer interface.
func (b Body) String() string {
	return b.Name + " body"
}

// Equals returns whether the provided body is the same.
func (b Body) Equals(o Body) bool {
	return b.Name == o.Name && b.Radius == o.Radius && b.GM == o.GM
}

// Sun is our closest star.
var Sun = Body{"Sun", 695700e3, 1.32712440018e20}

// Venus is poisonous.
var Venus = Body{"Venus", 6051.8e3, 3.24858599e14}

// Earth is home.
var Earth = Body{"Earth", 6378.1363e3, 3.986004418e14}

// Moon is our natural satellite.
var Moon = Body{"Moon", 1737.4e3, 4.9048695e12}

// Mars is the vacation place.
var Mars = Body{"Mars", 3396.19e3, 4.282837e13}

// Jupiter is big.
var Jupiter = Body{"Jupiter", 71492e3, 1.26686534e17}

// BodyFromString returns the body from its name.
func BodyFromString(name string) (Body, error) {
	switch strings.ToLower(name) {
	case "sun":
		return Sun, nil
	case "venus":
		return Venus, nil
	case "earth":
		return Earth, nil
	case "moon":
		return Moon, nil
	case "mars":
		return Mars, nil
	case "jupiter":
		return Jupiter, nil
	default:
		return Body{}, fmt.Errorf("%w: undefined body %q", ErrInvalidArgument, name)
	}
}
