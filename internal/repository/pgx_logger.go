package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// pgxLogger adapts zerolog.Logger to pgx's tracelog interface.
type pgxLogger struct {
	logger zerolog.Logger
}

// newPgxLogger builds a child logger scoped to the pgx component so SQL noise stays filterable.
func newPgxLogger(logger zerolog.Logger) *pgxLogger {
	return &pgxLogger{logger: logger.With().Str("component", "pgx").Logger()}
}

// Log implements tracelog.Logger. Scroll queries carry their limit and offset
// as the trailing args, so args are only emitted at trace level.
func (l *pgxLogger) Log(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	if level == tracelog.LogLevelNone {
		return
	}

	zl := zerologLevel(level)
	event := l.logger.WithLevel(zl)
	if zl == zerolog.InfoLevel && level != tracelog.LogLevelInfo {
		event = event.Str("pgx_log_level", level.String())
	}
	if level == tracelog.LogLevelTrace {
		if args, ok := data["args"]; ok {
			event = event.Interface("args", args)
		}
	}
	delete(data, "args")

	if sqlVal, ok := data["sql"]; ok {
		if s, ok := sqlVal.(string); ok {
			event = event.Str("sql", s)
		} else {
			event = event.Interface("sql", sqlVal)
		}
		delete(data, "sql")
	}
	if took, ok := data["time"].(time.Duration); ok {
		event = event.Dur("took", took)
		delete(data, "time")
	}
	if len(data) > 0 {
		event = event.Fields(data)
	}
	event.Msg(msg)
}

func zerologLevel(level tracelog.LogLevel) zerolog.Level {
	switch level {
	case tracelog.LogLevelTrace:
		return zerolog.TraceLevel
	case tracelog.LogLevelDebug:
		return zerolog.DebugLevel
	case tracelog.LogLevelWarn:
		return zerolog.WarnLevel
	case tracelog.LogLevelError:
		return zerolog.ErrorLevel
	default:
		// unknown pgx levels fall back to info
		return zerolog.InfoLevel
	}
}
