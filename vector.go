package astro

import (
	"fmt"
	"math"

	"github.com/ChristopherRabotin/astro/frame"
)

// Position is a position vector tagged with its length unit and frame.
type Position struct {
	xyz   [3]float64
	u     LengthUnit
	frame frame.Frame
}

// NewPosition returns a new position.
func NewPosition(xyz [3]float64, u LengthUnit, f frame.Frame) Position {
	return Position{xyz, u, f}
}

// Meters returns a new position in meters.
func Meters(xyz [3]float64, f frame.Frame) Position {
	return Position{xyz, Meter, f}
}

// IsDefined returns whether the unit, the frame and every coordinate are defined.
func (p Position) IsDefined() bool {
	return p.u.IsDefined() && p.frame.IsDefined() && finite(p.xyz)
}

// Coordinates returns the coordinates in the native unit.
func (p Position) Coordinates() [3]float64 {
	return p.xyz
}

// Unit returns the length unit.
func (p Position) Unit() LengthUnit {
	return p.u
}

// Frame returns the frame in which this position is expressed.
func (p Position) Frame() frame.Frame {
	return p.frame
}

// InUnit returns this position expressed in another unit.
func (p Position) InUnit(u LengthUnit) (Position, error) {
	if !p.IsDefined() {
		return Position{}, ErrUndefinedState
	}
	if !u.IsDefined() {
		return Position{}, fmt.Errorf("%w: length unit %s", ErrInvalidArgument, u)
	}
	if u == p.u {
		return p, nil
	}
	return Position{scale(p.xyz, p.u.InMeters()/u.InMeters()), u, p.frame}, nil
}

// meters returns the coordinates in meters.
func (p Position) meters() [3]float64 {
	return scale(p.xyz, p.u.InMeters())
}

// Norm returns the magnitude in the native unit.
func (p Position) Norm() float64 {
	return norm(p.xyz[:])
}

// Equal returns whether both positions have the same coordinates, unit and frame.
func (p Position) Equal(o Position) bool {
	return p.IsDefined() && o.IsDefined() && p.xyz == o.xyz && p.u == o.u && p.frame == o.frame
}

func (p Position) String() string {
	if !p.IsDefined() {
		return "Undefined"
	}
	return fmt.Sprintf("[%g, %g, %g] %s (%s)", p.xyz[0], p.xyz[1], p.xyz[2], p.u, p.frame)
}

// Velocity is a velocity vector tagged with its speed unit and frame.
type Velocity struct {
	xyz   [3]float64
	u     SpeedUnit
	frame frame.Frame
}

// NewVelocity returns a new velocity.
func NewVelocity(xyz [3]float64, u SpeedUnit, f frame.Frame) Velocity {
	return Velocity{xyz, u, f}
}

// MetersPerSecond returns a new velocity in meters per second.
func MetersPerSecond(xyz [3]float64, f frame.Frame) Velocity {
	return Velocity{xyz, MeterPerSecond, f}
}

// IsDefined returns whether the unit, the frame and every coordinate are defined.
func (v Velocity) IsDefined() bool {
	return v.u.IsDefined() && v.frame.IsDefined() && finite(v.xyz)
}

// Coordinates returns the coordinates in the native unit.
func (v Velocity) Coordinates() [3]float64 {
	return v.xyz
}

// Unit returns the speed unit.
func (v Velocity) Unit() SpeedUnit {
	return v.u
}

// Frame returns the frame in which this velocity is expressed.
func (v Velocity) Frame() frame.Frame {
	return v.frame
}

// InUnit returns this velocity expressed in another unit.
func (v Velocity) InUnit(u SpeedUnit) (Velocity, error) {
	if !v.IsDefined() {
		return Velocity{}, ErrUndefinedState
	}
	if !u.IsDefined() {
		return Velocity{}, fmt.Errorf("%w: speed unit %s", ErrInvalidArgument, u)
	}
	if u == v.u {
		return v, nil
	}
	return Velocity{scale(v.xyz, v.u.InMetersPerSecond()/u.InMetersPerSecond()), u, v.frame}, nil
}

func (v Velocity) metersPerSecond() [3]float64 {
	return scale(v.xyz, v.u.InMetersPerSecond())
}

// Norm returns the magnitude in the native unit.
func (v Velocity) Norm() float64 {
	return norm(v.xyz[:])
}

// Equal returns whether both velocities have the same coordinates, unit and frame.
func (v Velocity) Equal(o Velocity) bool {
	return v.IsDefined() && o.IsDefined() && v.xyz == o.xyz && v.u == o.u && v.frame == o.frame
}

func (v Velocity) String() string {
	if !v.IsDefined() {
		return "Undefined"
	}
	return fmt.Sprintf("[%g, %g, %g] %s (%s)", v.xyz[0], v.xyz[1], v.xyz[2], v.u, v.frame)
}

func finite(v [3]float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func scale(v [3]float64, f float64) [3]float64 {
	return [3]float64{v[0] * f, v[1] * f, v[2] * f}
}
