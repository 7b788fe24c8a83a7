package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/ChristopherRabotin/astro"
	"github.com/ChristopherRabotin/astro/frame"
	"github.com/go-kit/log"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/unit"
	"github.com/spf13/viper"
)

// readScenario reads the scenario file. The extension may be omitted.
func readScenario(path string) (*viper.Viper, error) {
	if !strings.HasSuffix(path, ".toml") {
		path += ".toml"
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// confReadJDEorTime reads a date either as a Julian date or as a time string.
func confReadJDEorTime(v *viper.Viper, key string) (dt time.Time, err error) {
	if !v.IsSet(key) {
		return time.Time{}, fmt.Errorf("%s: missing date", key)
	}
	if jde := v.GetFloat64(key); jde != 0 {
		return julian.JDToTime(jde), nil
	}
	if dt = v.GetTime(key); dt.IsZero() {
		return time.Time{}, fmt.Errorf("%s: cannot parse %q", key, v.GetString(key))
	}
	return dt.UTC(), nil
}

func confReadVector(v *viper.Viper, key string) (vec [3]float64, err error) {
	raw, ok := v.Get(key).([]interface{})
	if !ok || len(raw) != 3 {
		return vec, fmt.Errorf("%s: expected an array of three numbers", key)
	}
	for i, x := range raw {
		switch n := x.(type) {
		case float64:
			vec[i] = n
		case int64:
			vec[i] = float64(n)
		case int:
			vec[i] = float64(n)
		default:
			return vec, fmt.Errorf("%s[%d]: %v is not a number", key, i, x)
		}
	}
	return
}

func confReadFrame(v *viper.Viper, key string) (frame.Frame, error) {
	if !v.IsSet(key) {
		return frame.GCRF, nil
	}
	return frame.FromString(v.GetString(key))
}

// readModel returns the model of the scenario along with the reference epoch
// and central body: a TLE, a Cartesian state or orbital elements, in this order.
func readModel(v *viper.Viper, conf astro.Config, logger log.Logger) (astro.Model, time.Time, astro.Body, error) {
	body := astro.Earth
	if v.IsSet("orbit.body") {
		var err error
		if body, err = astro.BodyFromString(v.GetString("orbit.body")); err != nil {
			return nil, time.Time{}, body, err
		}
	}
	solver := conf.Solver(logger)
	switch {
	case v.IsSet("tle.line1"):
		f, err := confReadFrame(v, "tle.frame")
		if err != nil {
			return nil, time.Time{}, body, err
		}
		start, err := confReadJDEorTime(v, "sampling.start")
		if err != nil {
			return nil, time.Time{}, body, err
		}
		m, err := astro.NewSGP4Orbit(v.GetString("tle.name"), v.GetString("tle.line1"), v.GetString("tle.line2"), f, conf.Provider(), logger)
		return m, start, astro.Earth, err

	case v.IsSet("state.position"):
		epoch, err := confReadJDEorTime(v, "state.epoch")
		if err != nil {
			return nil, epoch, body, err
		}
		f, err := confReadFrame(v, "state.frame")
		if err != nil {
			return nil, epoch, body, err
		}
		R, err := confReadVector(v, "state.position")
		if err != nil {
			return nil, epoch, body, err
		}
		V, err := confReadVector(v, "state.velocity")
		if err != nil {
			return nil, epoch, body, err
		}
		lu, su := astro.Kilometer, astro.KilometerPerSecond
		if v.GetString("state.unit") == "m" {
			lu, su = astro.Meter, astro.MeterPerSecond
		}
		st, err := astro.NewState(epoch, astro.NewPosition(R, lu, f), astro.NewVelocity(V, su, f))
		if err != nil {
			return nil, epoch, body, err
		}
		// Two-body motion is propagated in the GCRF, and the samples converted back.
		prop := astro.KeplerPropagator{Epoch: epoch, Mu: body.GM, Frame: f, Solver: solver}
		if !f.IsInertial() {
			if st, err = st.InFrame(frame.GCRF, conf.Provider()); err != nil {
				return nil, epoch, body, err
			}
			prop.Frame, prop.Output, prop.Provider = frame.GCRF, f, conf.Provider()
		}
		if prop.Elements, err = astro.COEFromCartesian(st, body.GM); err != nil {
			return nil, epoch, body, err
		}
		return astro.NewOrbit(prop), epoch, body, nil

	case v.IsSet("orbit.sma"):
		epoch, err := confReadJDEorTime(v, "orbit.epoch")
		if err != nil {
			return nil, epoch, body, err
		}
		f, err := confReadFrame(v, "orbit.frame")
		if err != nil {
			return nil, epoch, body, err
		}
		if !f.IsInertial() {
			return nil, epoch, body, fmt.Errorf("%w: orbital elements in the rotating frame %s", astro.ErrInvalidArgument, f)
		}
		elements, err := astro.NewCOE(v.GetFloat64("orbit.sma")*1e3, v.GetFloat64("orbit.ecc"),
			unit.AngleFromDeg(v.GetFloat64("orbit.inc")), unit.AngleFromDeg(v.GetFloat64("orbit.RAAN")),
			unit.AngleFromDeg(v.GetFloat64("orbit.argPeri")), unit.AngleFromDeg(v.GetFloat64("orbit.tAnomaly")))
		if err != nil {
			return nil, epoch, body, err
		}
		return astro.NewOrbit(astro.KeplerPropagator{Elements: elements, Epoch: epoch, Mu: body.GM, Frame: f, Solver: solver}), epoch, body, nil
	}
	return nil, time.Time{}, body, fmt.Errorf("%w: scenario needs a [tle], [state] or [orbit] section", astro.ErrInvalidArgument)
}
