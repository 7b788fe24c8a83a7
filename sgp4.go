package astro

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ChristopherRabotin/astro/frame"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	satellite "github.com/joshuaferrara/go-satellite"
)

// wgs72Radius is the Earth radius of the WGS72 constants used by SGP4, in km.
const wgs72Radius = 6378.135

// SGP4Propagator propagates a two line element set with SGP4.
type SGP4Propagator struct {
	name         string
	line1, line2 string
	sat          satellite.Satellite
	frame        frame.Frame
	provider     frame.Provider
	logger       log.Logger
}

// NewSGP4Propagator parses and initializes the TLE. States are returned in the
// provided frame, converted from TEME with the provider (nil means frame.DefaultProvider).
func NewSGP4Propagator(name, line1, line2 string, f frame.Frame, p frame.Provider, logger log.Logger) (*SGP4Propagator, error) {
	line1, line2 = strings.TrimRight(line1, " \r\n"), strings.TrimRight(line2, " \r\n")
	if err := validateTLE(line1, line2); err != nil {
		return nil, err
	}
	if !f.IsDefined() {
		return nil, ErrUndefinedFrame
	}
	if p == nil {
		p = frame.DefaultProvider
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS72)
	if sat.Error != 0 {
		return nil, fmt.Errorf("%w: TLE %s: %s", ErrInvalidArgument, name, sat.ErrorStr)
	}
	return &SGP4Propagator{name: name, line1: line1, line2: line2, sat: sat, frame: f, provider: p, logger: log.With(logger, "subsys", "sgp4", "sat", name)}, nil
}

// tleField mirrors how go-satellite extracts a numeric field, so that a malformed
// TLE is reported here instead of terminating the process there.
type tleField struct {
	line, from, to int
	float          bool
	build          func(s string) string
}

var tleFields = []tleField{
	{1, 2, 7, false, strings.TrimSpace},
	{1, 18, 20, false, nil},
	{1, 20, 32, true, nil},
	{1, 33, 43, true, stripSpaces},
	{1, 44, 52, true, func(s string) string { return stripSpaces(s[0:1] + "." + s[1:6] + "e" + s[6:8]) }},
	{1, 53, 61, true, func(s string) string { return stripSpaces(s[0:1] + "." + s[1:6] + "e" + s[6:8]) }},
	{2, 8, 16, true, stripSpaces},
	{2, 17, 25, true, stripSpaces},
	{2, 26, 33, true, func(s string) string { return "." + s }},
	{2, 34, 42, true, stripSpaces},
	{2, 43, 51, true, stripSpaces},
	{2, 52, 63, true, stripSpaces},
}

func stripSpaces(s string) string {
	return strings.Replace(s, " ", "", 2)
}

func validateTLE(line1, line2 string) error {
	lines := [2]string{line1, line2}
	for i, l := range lines {
		if len(l) < 69 {
			return fmt.Errorf("%w: TLE line %d has %d characters", ErrInvalidArgument, i+1, len(l))
		}
		if l[0] != byte('1'+i) {
			return fmt.Errorf("%w: TLE line %d starts with %q", ErrInvalidArgument, i+1, l[0])
		}
		sum := 0
		for _, c := range l[:68] {
			switch {
			case c >= '0' && c <= '9':
				sum += int(c - '0')
			case c == '-':
				sum++
			}
		}
		if want := int(l[68] - '0'); sum%10 != want {
			return fmt.Errorf("%w: TLE line %d checksum is %d, expected %d", ErrInvalidArgument, i+1, sum%10, want)
		}
	}
	for _, f := range tleFields {
		s := lines[f.line-1][f.from:f.to]
		if f.build != nil {
			s = f.build(s)
		}
		var err error
		if f.float {
			_, err = strconv.ParseFloat(s, 64)
		} else {
			_, err = strconv.ParseInt(s, 10, 0)
		}
		if err != nil {
			return fmt.Errorf("%w: TLE line %d columns %d-%d: %s", ErrInvalidArgument, f.line, f.from+1, f.to, err)
		}
	}
	return nil
}

// IsDefined implements the Propagator interface.
func (s *SGP4Propagator) IsDefined() bool {
	return s != nil && s.frame.IsDefined()
}

// propagate returns the TEME position and velocity in meters at a whole second.
func (s *SGP4Propagator) propagate(t time.Time) (r, v [3]float64, err error) {
	u := t.UTC()
	pos, vel := satellite.Propagate(s.sat, u.Year(), int(u.Month()), u.Day(), u.Hour(), u.Minute(), u.Second())
	r = [3]float64{pos.X * 1e3, pos.Y * 1e3, pos.Z * 1e3}
	v = [3]float64{vel.X * 1e3, vel.Y * 1e3, vel.Z * 1e3}
	if !finite(r) || !finite(v) {
		err = &PropagationError{Satellite: s.name, Reason: fmt.Sprintf("invalid state at %s", u)}
	} else if norm(r[:]) < wgs72Radius*1e3 {
		err = &PropagationError{Satellite: s.name, Reason: fmt.Sprintf("decayed by %s", u)}
	}
	if err != nil {
		level.Warn(s.logger).Log("epoch", u, "err", err)
	}
	return
}

// StateAt implements the Propagator interface. go-satellite propagates to whole
// seconds, so fractional instants are interpolated between the surrounding seconds.
func (s *SGP4Propagator) StateAt(t time.Time) (State, error) {
	if !s.IsDefined() {
		return State{}, ErrUndefinedState
	}
	t0 := t.Truncate(time.Second)
	r, v, err := s.propagate(t0)
	if err != nil {
		return State{}, err
	}
	if t0.Before(t) {
		t1 := t0.Add(time.Second)
		r1, v1, err := s.propagate(t1)
		if err != nil {
			return State{}, err
		}
		r, v = hermite(t0, t1, r, v, r1, v1, t)
	}
	st, err := NewState(t, Meters(r, frame.TEME), MetersPerSecond(v, frame.TEME))
	if err != nil {
		return State{}, err
	}
	return st.InFrame(s.frame, s.provider)
}

// Equal implements the Propagator interface.
func (s *SGP4Propagator) Equal(o Propagator) bool {
	other, ok := o.(*SGP4Propagator)
	return ok && s.IsDefined() && other.IsDefined() && s.line1 == other.line1 && s.line2 == other.line2 && s.frame == other.frame
}

// NewSGP4Orbit returns an orbit model for the TLE.
func NewSGP4Orbit(name, line1, line2 string, f frame.Frame, p frame.Provider, logger log.Logger) (Orbit, error) {
	prop, err := NewSGP4Propagator(name, line1, line2, f, p, logger)
	if err != nil {
		return Orbit{}, err
	}
	return NewOrbit(prop), nil
}
