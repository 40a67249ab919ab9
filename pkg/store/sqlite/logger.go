package sqlite

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

// slowQuery is the duration after which a query is logged as a warning.
const slowQuery = 200 * time.Millisecond

// logger writes gorm's log output to zerolog.
//
// Queries are logged at debug level, slow queries as warnings and failed
// queries as errors. Missing records are expected when loading and are not
// treated as failures.
type logger struct {
	Logger zerolog.Logger
	Slow   time.Duration
}

func newLogger(l zerolog.Logger) *logger {
	return &logger{
		Logger: l.With().Str("store", "sqlite").Logger(),
		Slow:   slowQuery,
	}
}

func (l *logger) LogMode(gorm_logger.LogLevel) gorm_logger.Interface {
	return l
}

func (l *logger) Info(_ context.Context, s string, args ...interface{}) {
	l.Logger.Info().Msgf(s, args...)
}

func (l *logger) Warn(_ context.Context, s string, args ...interface{}) {
	l.Logger.Warn().Msgf(s, args...)
}

func (l *logger) Error(_ context.Context, s string, args ...interface{}) {
	l.Logger.Error().Msgf(s, args...)
}

func (l *logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	event := l.Logger.Debug()
	msg := "query"

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		event = l.Logger.Error().Err(err)
		msg = "query failed"
	case l.Slow > 0 && elapsed > l.Slow:
		event = l.Logger.Warn().Dur("threshold", l.Slow)
		msg = "slow query"
	}

	event.Str("sql", sql).Int64("rows", rows).Dur("duration", elapsed).Msg(msg)
}
