package astro

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ChristopherRabotin/astro/frame"
	"github.com/go-kit/log"
	"github.com/soniakeys/unit"
	"github.com/spf13/viper"
)

// ConfigEnv is the environment variable holding the directory of conf.toml.
const ConfigEnv = "ASTRO_CONFIG"

// Config is the astro configuration, read from conf.toml.
type Config struct {
	KeplerTolerance     float64
	KeplerMaxIterations int
	EOP                 frame.EOP
	Log                 LogConfig
}

// LoadConfig reads conf.toml from dir, or from the directory in ASTRO_CONFIG when
// dir is empty. Missing files yield the defaults. Keys may be overridden by
// environment variables such as ASTRO_KEPLER_TOLERANCE.
func LoadConfig(dir string) (Config, error) {
	v := viper.New()
	v.SetDefault("kepler.tolerance", DefaultKeplerTolerance)
	v.SetDefault("kepler.max_iterations", DefaultMaxIterations)
	v.SetDefault("eop.dut1", 0.0)
	v.SetDefault("eop.xp", 0.0)
	v.SetDefault("eop.yp", 0.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "logfmt")
	v.SetEnvPrefix("ASTRO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if dir == "" {
		dir = os.Getenv(ConfigEnv)
	}
	if dir != "" {
		path := filepath.Join(dir, "conf.toml")
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	conf := Config{
		KeplerTolerance:     v.GetFloat64("kepler.tolerance"),
		KeplerMaxIterations: v.GetInt("kepler.max_iterations"),
		EOP: frame.EOP{
			DUT1: v.GetFloat64("eop.dut1"),
			Xp:   unit.AngleFromSec(v.GetFloat64("eop.xp")),
			Yp:   unit.AngleFromSec(v.GetFloat64("eop.yp")),
		},
		Log: LogConfig{Level: v.GetString("log.level"), Format: v.GetString("log.format")},
	}
	if conf.KeplerTolerance <= 0 || conf.KeplerMaxIterations <= 0 {
		return Config{}, fmt.Errorf("%w: kepler tolerance %g and iterations %d must be positive", ErrInvalidArgument, conf.KeplerTolerance, conf.KeplerMaxIterations)
	}
	return conf, nil
}

// Solver returns the configured Kepler solver.
func (c Config) Solver(logger log.Logger) KeplerSolver {
	return KeplerSolver{Tolerance: c.KeplerTolerance, MaxIterations: c.KeplerMaxIterations, Logger: logger}
}

// Provider returns the frame provider using the configured Earth orientation parameters.
func (c Config) Provider() frame.Provider {
	return frame.EarthProvider{EOP: c.EOP}
}

// Logger returns the configured logger writing to w.
func (c Config) Logger(w io.Writer) (log.Logger, error) {
	return NewLogger(w, c.Log)
}
