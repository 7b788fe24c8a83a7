package main

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ChristopherRabotin/astro"
	"github.com/ChristopherRabotin/astro/ephemeris"
	"github.com/ChristopherRabotin/astro/frame"
	"github.com/go-kit/log"
	"gonum.org/v1/gonum/floats/scalar"
)

func writeScenario(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "scenario.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunOrbitScenario(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "leo.csv")
	dbPath := filepath.Join(dir, "leo.db")
	xyzvPath := filepath.Join(dir, "leo.xyzv")
	obsPath := filepath.Join(dir, "leo_dss34.csv")
	path := writeScenario(t, dir, `
[orbit]
body = "Earth"
epoch = "2020-01-01T00:00:00Z"
sma = 6778.137
ecc = 0.001
inc = 51.6
RAAN = 10.0
argPeri = 20.0
tAnomaly = 0.0

[sampling]
end = "2020-01-01T00:10:00Z"
step = "60s"

[station]
name = "dss34"

[output]
name = "leo"
observations = "`+obsPath+`"
csv = "`+csvPath+`"
xyzv = "`+xyzvPath+`"
sqlite = "`+dbPath+`"
`)
	conf, err := astro.LoadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := run(strings.TrimSuffix(path, ".toml"), conf, log.NewNopLogger()); err != nil {
		t.Fatalf("run: %v", err)
	}

	f, err := os.Open(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	states, err := astro.ReadStatesCSV(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(states) != 11 {
		t.Fatalf("CSV has %d states, want 11", len(states))
	}

	store, err := ephemeris.Open(dbPath, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	stored, err := store.Load("leo")
	if err != nil {
		t.Fatal(err)
	}
	for i := range stored {
		if !stored[i].Equal(states[i]) {
			t.Fatalf("#%d: stored %s, exported %s", i, stored[i], states[i])
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "leo.json")); err != nil {
		t.Fatalf("catalog missing: %v", err)
	}
	obs, err := os.ReadFile(obsPath)
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Split(strings.TrimSpace(string(obs)), "\n"); len(lines) != 12 || !strings.Contains(lines[1], ",DSS34Canberra,") {
		t.Fatalf("unexpected observations:\n%s", obs)
	}
}

func TestRunMissingModel(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "[sampling]\nstep = \"60s\"\n")
	conf, err := astro.LoadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := run(path, conf, log.NewNopLogger()); err == nil {
		t.Fatal("expected an error without a model")
	}
}

func TestRunRotatingFrameState(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "itrf.csv")
	path := writeScenario(t, dir, `
[state]
epoch = "2020-01-01T00:00:00Z"
frame = "ITRF"
position = [7000.0, 0.0, 0.0]
velocity = [0.0, 7.0, 1.0]

[sampling]
end = "2020-01-01T01:00:00Z"
step = "5m"

[output]
csv = "`+csvPath+`"
`)
	conf, err := astro.LoadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := run(path, conf, log.NewNopLogger()); err != nil {
		t.Fatalf("run: %v", err)
	}
	f, err := os.Open(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	states, err := astro.ReadStatesCSV(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(states) != 13 {
		t.Fatalf("CSV has %d states, want 13", len(states))
	}
	r0, _ := states[0].Position()
	if r0.Frame() != frame.ITRF || math.Abs(r0.Norm()-7000e3) > 1e-3 {
		t.Fatalf("initial position %s", r0)
	}
	// The motion is Keplerian in the GCRF: the semi-major axis is constant there.
	var sma []float64
	for _, st := range states {
		gcrf, err := st.InFrame(frame.GCRF, nil)
		if err != nil {
			t.Fatal(err)
		}
		o, err := astro.COEFromCartesian(gcrf, astro.Earth.GM)
		if err != nil {
			t.Fatal(err)
		}
		a, _ := o.SemiMajorAxis()
		sma = append(sma, a)
	}
	for i, a := range sma {
		if !scalar.EqualWithinRel(a, sma[0], 1e-9) {
			t.Fatalf("#%d: a=%f m, initially %f m", i, a, sma[0])
		}
	}

	bad := writeScenario(t, dir, "[orbit]\nepoch = \"2020-01-01T00:00:00Z\"\nframe = \"ITRF\"\nsma = 7000.0\necc = 0.01\n")
	if err := run(bad, conf, log.NewNopLogger()); !errors.Is(err, astro.ErrInvalidArgument) {
		t.Fatalf("elements in the ITRF: %v", err)
	}
}
