package astro

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ChristopherRabotin/astro/frame"
	"github.com/soniakeys/unit"
)

var (
	DSS34Canberra  = NewStation("DSS34Canberra", 691.750, 6, -35.398333, 148.981944)
	DSS65Madrid    = NewStation("DSS65Madrid", 834.939, 6, 40.427222, 4.250556)
	DSS13Goldstone = NewStation("DSS13Goldstone", 1071.14904, 6, 35.247164, 243.205)
)

// Station defines a ground station fixed on the Earth.
type Station struct {
	Name        string
	LatΦ, Longθ unit.Angle
	Altitude    float64 // meters above the Earth radius
	Elevation   unit.Angle
	trajectory  Trajectory
}

// NewStation returns a new station. Angles in degrees, altitude in meters.
func NewStation(name string, altitude, elevation, latΦ, longθ float64) Station {
	lat, long := unit.AngleFromDeg(latΦ), unit.AngleFromDeg(longθ)
	R := GEO2ECEF(Earth, altitude, lat, long)
	return Station{
		Name:       name,
		LatΦ:       lat,
		Longθ:      long,
		Altitude:   altitude,
		Elevation:  unit.AngleFromDeg(elevation),
		trajectory: TrajectoryFromPosition(Meters(R, frame.ITRF)),
	}
}

// Trajectory returns the trajectory of the station, fixed in the ITRF.
func (s Station) Trajectory() Trajectory {
	return s.trajectory
}

func (s Station) String() string {
	return fmt.Sprintf("%s (%f,%f); alt = %f m; el = %f deg", s.Name, s.LatΦ.Deg(), s.Longθ.Deg(), s.Altitude, s.Elevation.Deg())
}

// Observation is the geometry of a spacecraft seen from a station.
type Observation struct {
	Station          string
	Epoch            time.Time
	Visible          bool    // elevation at or above the station mask
	Range, RangeRate float64 // m and m/s
	Elevation        unit.Angle
	Azimuth          unit.Angle
}

// Observe returns the observation of the spacecraft state from this station.
// The state is converted to the ITRF with the provider (nil means frame.DefaultProvider).
func (s Station) Observe(sc State, p frame.Provider) (Observation, error) {
	dt, err := sc.Instant()
	if err != nil {
		return Observation{}, err
	}
	ecef, err := sc.InFrame(frame.ITRF, p)
	if err != nil {
		return Observation{}, err
	}
	st, err := s.trajectory.StateAt(dt)
	if err != nil {
		return Observation{}, err
	}
	r, v := ecef.inSI()
	rS, vS := st.inSI()
	ρVec := make([]float64, 3)
	vDiff := make([]float64, 3)
	for i := 0; i < 3; i++ {
		ρVec[i] = r[i] - rS[i]
		vDiff[i] = v[i] - vS[i]
	}
	ρ := norm(ρVec)
	if ρ == 0 {
		return Observation{}, fmt.Errorf("%w: spacecraft at the station", ErrInvalidArgument)
	}
	// Topocentric south, east, zenith frame.
	rSEZ := MxV33(frame.R3(s.Longθ.Rad()), ρVec)
	rSEZ = MxV33(frame.R2(math.Pi/2-s.LatΦ.Rad()), rSEZ)
	el := unit.Angle(math.Asin(clamp1(rSEZ[2] / ρ)))
	return Observation{
		Station:   s.Name,
		Epoch:     dt,
		Visible:   el >= s.Elevation,
		Range:     ρ,
		RangeRate: dot(ρVec, vDiff) / ρ,
		Elevation: el,
		Azimuth:   unit.Angle(math.Atan2(rSEZ[1], -rSEZ[0])).Mod1(),
	}, nil
}

// CSV returns the observation as CSV (does *not* include the new line)
func (o Observation) CSV() string {
	return fmt.Sprintf("%s,%s,%t,%f,%f,%f,%f", o.Epoch.UTC().Format(time.RFC3339Nano), o.Station, o.Visible, o.Range, o.RangeRate, o.Elevation.Deg(), o.Azimuth.Deg())
}

// BuiltinStationFromName returns one of the Deep Space Network stations.
func BuiltinStationFromName(name string) (Station, error) {
	switch strings.ToLower(name) {
	case "dss13":
		return DSS13Goldstone, nil
	case "dss34":
		return DSS34Canberra, nil
	case "dss65":
		return DSS65Madrid, nil
	default:
		return Station{}, fmt.Errorf("%w: unknown station %q", ErrInvalidArgument, name)
	}
}
