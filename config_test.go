package astro

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ChristopherRabotin/astro/frame"
	"github.com/go-kit/log/level"
	"github.com/soniakeys/unit"
)

func TestConfigDefaults(t *testing.T) {
	conf, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if conf.KeplerTolerance != DefaultKeplerTolerance || conf.KeplerMaxIterations != DefaultMaxIterations {
		t.Fatalf("unexpected Kepler defaults %+v", conf)
	}
	if conf.EOP != (frame.EOP{}) {
		t.Fatalf("unexpected EOP %+v", conf.EOP)
	}
	if conf.Log.Level != "info" || conf.Log.Format != "logfmt" {
		t.Fatalf("unexpected log defaults %+v", conf.Log)
	}
	solver := conf.Solver(nil)
	if solver.Tolerance != DefaultKeplerTolerance || solver.MaxIterations != DefaultMaxIterations {
		t.Fatalf("solver %+v", solver)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[kepler]
tolerance = 1e-10
max_iterations = 25

[eop]
dut1 = 0.2195
xp = 0.0577
yp = 0.2827

[log]
level = "debug"
format = "json"
`
	if err := os.WriteFile(filepath.Join(dir, "conf.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigEnv, dir)
	conf, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if conf.KeplerTolerance != 1e-10 || conf.KeplerMaxIterations != 25 {
		t.Fatalf("Kepler settings %+v", conf)
	}
	exp := frame.EOP{DUT1: 0.2195, Xp: unit.AngleFromSec(0.0577), Yp: unit.AngleFromSec(0.2827)}
	if conf.EOP != exp {
		t.Fatalf("EOP %+v, expected %+v", conf.EOP, exp)
	}
	if p, ok := conf.Provider().(frame.EarthProvider); !ok || p.EOP != exp {
		t.Fatal("provider does not carry the EOP")
	}
	var buf bytes.Buffer
	logger, err := conf.Logger(&buf)
	if err != nil {
		t.Fatal(err)
	}
	level.Debug(logger).Log("msg", "hello")
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Fatalf("debug JSON line missing: %q", buf.String())
	}

	// Environment variables override the file.
	t.Setenv("ASTRO_KEPLER_MAX_ITERATIONS", "7")
	if conf, err = LoadConfig(dir); err != nil {
		t.Fatal(err)
	}
	if conf.KeplerMaxIterations != 7 {
		t.Fatalf("environment override ignored: %d", conf.KeplerMaxIterations)
	}
}

func TestConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "conf.toml"), []byte("[kepler]\ntolerance = -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(dir); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("negative tolerance: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "conf.toml"), []byte("[kepler\ntolerance = "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(dir); err == nil {
		t.Fatal("malformed file accepted")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, LogConfig{Level: "warn"})
	if err != nil {
		t.Fatal(err)
	}
	level.Info(logger).Log("msg", "hidden")
	level.Warn(logger).Log("msg", "shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "msg=shown") || !strings.Contains(out, "ts=") {
		t.Fatalf("unexpected log output %q", out)
	}
	if _, err := NewLogger(&buf, LogConfig{Format: "xml"}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("unknown format: %v", err)
	}
	if _, err := NewLogger(&buf, LogConfig{Level: "chatty"}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("unknown level: %v", err)
	}
}
