package astro

// LengthUnit is a unit of length. The zero value is undefined.
type LengthUnit uint8

// Length units.
const (
	UndefinedLength LengthUnit = iota
	Meter
	Kilometer
	Foot
)

// InMeters returns how many meters one such unit is.
func (u LengthUnit) InMeters() float64 {
	switch u {
	case Meter:
		return 1
	case Kilometer:
		return 1e3
	case Foot:
		return 0.3048
	default:
		return 0
	}
}

// IsDefined returns whether this is a known unit.
func (u LengthUnit) IsDefined() bool {
	return u.InMeters() != 0
}

func (u LengthUnit) String() string {
	switch u {
	case Meter:
		return "m"
	case Kilometer:
		return "km"
	case Foot:
		return "ft"
	default:
		return "Undefined"
	}
}

// SpeedUnit is a unit of speed. The zero value is undefined.
type SpeedUnit uint8

// Speed units.
const (
	UndefinedSpeed SpeedUnit = iota
	MeterPerSecond
	KilometerPerSecond
	FootPerSecond
)

// InMetersPerSecond returns how many meters per second one such unit is.
func (u SpeedUnit) InMetersPerSecond() float64 {
	switch u {
	case MeterPerSecond:
		return 1
	case KilometerPerSecond:
		return 1e3
	case FootPerSecond:
		return 0.3048
	default:
		return 0
	}
}

// IsDefined returns whether this is a known unit.
func (u SpeedUnit) IsDefined() bool {
	return u.InMetersPerSecond() != 0
}

func (u SpeedUnit) String() string {
	switch u {
	case MeterPerSecond:
		return "m/s"
	case KilometerPerSecond:
		return "km/s"
	case FootPerSecond:
		return "ft/s"
	default:
		return "Undefined"
	}
}
