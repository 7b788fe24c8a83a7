package astro

import (
	"fmt"
	"io"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// LogConfig configures NewLogger.
type LogConfig struct {
	Level  string // debug, info, warn or error
	Format string // logfmt or json
}

// NewLogger returns a leveled logger writing to w.
func NewLogger(w io.Writer, cfg LogConfig) (log.Logger, error) {
	var logger log.Logger
	switch cfg.Format {
	case "", "logfmt":
		logger = log.NewLogfmtLogger(log.NewSyncWriter(w))
	case "json":
		logger = log.NewJSONLogger(log.NewSyncWriter(w))
	default:
		return nil, fmt.Errorf("%w: log format %q", ErrInvalidArgument, cfg.Format)
	}
	lvl := level.InfoValue()
	if cfg.Level != "" {
		var err error
		if lvl, err = level.Parse(cfg.Level); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, err)
		}
	}
	logger = level.NewFilter(logger, level.Allow(lvl))
	return log.With(logger, "ts", log.DefaultTimestampUTC), nil
}
