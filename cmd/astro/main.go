package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ChristopherRabotin/astro"
	"github.com/ChristopherRabotin/astro/ephemeris"
	"github.com/ChristopherRabotin/astro/frame"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// This reads a scenario, samples its trajectory and exports the states.

const defaultScenario = "~~unset~~"

var (
	scenario string
	confDir  string
)

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "scenario TOML file")
	flag.StringVar(&confDir, "conf", "", "directory of conf.toml (defaults to $"+astro.ConfigEnv+")")
}

func main() {
	flag.Parse()
	conf, err := astro.LoadConfig(confDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := conf.Logger(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if scenario == defaultScenario {
		level.Error(logger).Log("err", "no scenario provided")
		os.Exit(2)
	}
	if err := run(scenario, conf, logger); err != nil {
		level.Error(logger).Log("scenario", scenario, "err", err)
		os.Exit(1)
	}
}

func run(path string, conf astro.Config, logger log.Logger) error {
	v, err := readScenario(path)
	if err != nil {
		return err
	}
	model, epoch, body, err := readModel(v, conf, logger)
	if err != nil {
		return err
	}
	traj := astro.NewTrajectory(model)
	level.Info(logger).Log("msg", "loaded scenario", "model", traj, "epoch", epoch)

	initial, err := traj.StateAt(epoch)
	if err != nil {
		return err
	}
	inertial := initial
	if !initial.Frame().IsInertial() {
		if inertial, err = initial.InFrame(frame.GCRF, conf.Provider()); err != nil {
			return err
		}
	}
	elements, err := astro.COEFromCartesian(inertial, body.GM)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n%s\n", initial, elements)
	if period, err := elements.OrbitalPeriod(body.GM); err == nil {
		fmt.Printf("period: %s\n", period)
	}

	if !v.IsSet("sampling.end") {
		return nil
	}
	start := epoch
	if v.IsSet("sampling.start") {
		if start, err = confReadJDEorTime(v, "sampling.start"); err != nil {
			return err
		}
	}
	end, err := confReadJDEorTime(v, "sampling.end")
	if err != nil {
		return err
	}
	step := v.GetDuration("sampling.step")
	if step == 0 {
		step = time.Minute
	}
	instants, err := astro.Grid(start, end, step)
	if err != nil {
		return err
	}
	states, err := traj.StatesAt(instants)
	if err != nil {
		return err
	}
	level.Info(logger).Log("msg", "sampled", "states", len(states), "start", start, "end", end, "step", step)
	if v.IsSet("station.name") {
		st, err := astro.BuiltinStationFromName(v.GetString("station.name"))
		if err != nil {
			return err
		}
		if err := observe(st, states, v.GetString("output.observations"), conf.Provider(), logger); err != nil {
			return err
		}
	}
	return export(v.GetString("output.name"), v.GetStringMapString("output"), states, body, conf.Provider(), logger)
}

// observe logs the visible passes over the station and writes all observations to path, if set.
func observe(st astro.Station, states []astro.State, path string, p frame.Provider, logger log.Logger) error {
	logger = log.With(logger, "station", st.Name)
	var lines []string
	visible := false
	for _, s := range states {
		obs, err := st.Observe(s, p)
		if err != nil {
			return err
		}
		if obs.Visible != visible {
			visible = obs.Visible
			if visible {
				level.Info(logger).Log("msg", "rise", "epoch", obs.Epoch, "azimuth", obs.Azimuth.Deg())
			} else {
				level.Info(logger).Log("msg", "set", "epoch", obs.Epoch, "azimuth", obs.Azimuth.Deg())
			}
		}
		lines = append(lines, obs.CSV())
	}
	if path == "" {
		return nil
	}
	content := "epoch,station,visible,range,range_rate,elevation,azimuth\n" + strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return err
	}
	level.Info(logger).Log("msg", "wrote observations", "path", path)
	return nil
}

func export(name string, outputs map[string]string, states []astro.State, body astro.Body, p frame.Provider, logger log.Logger) error {
	if name == "" {
		name = "astro"
	}
	if path := outputs["csv"]; path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := astro.WriteStatesCSV(f, states); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		level.Info(logger).Log("msg", "wrote CSV", "path", path)
	}
	if path := outputs["xyzv"]; path != "" {
		gcrf := make([]astro.State, len(states))
		for i, st := range states {
			var err error
			if gcrf[i], err = st.InFrame(frame.GCRF, p); err != nil {
				return err
			}
		}
		if err := writeCosmographia(path, name, gcrf, body); err != nil {
			return err
		}
		level.Info(logger).Log("msg", "wrote Cosmographia files", "path", path)
	}
	if path := outputs["sqlite"]; path != "" {
		store, err := ephemeris.Open(path, logger)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(name, states); err != nil {
			return err
		}
		level.Info(logger).Log("msg", "saved ephemeris", "path", path, "name", name)
	}
	return nil
}

// writeCosmographia writes the xyzv records and the catalog next to them.
func writeCosmographia(path, name string, states []astro.State, body astro.Body) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := astro.WriteCosmographia(f, states); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	start, _ := states[0].Instant()
	end, _ := states[len(states)-1].Instant()
	catalog := astro.NewCgCatalog(name, filepath.Base(path), body, start, end)
	cf, err := os.Create(strings.TrimSuffix(path, filepath.Ext(path)) + ".json")
	if err != nil {
		return err
	}
	if err := catalog.WriteJSON(cf); err != nil {
		cf.Close()
		return err
	}
	return cf.Close()
}
