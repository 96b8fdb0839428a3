package log

import (
	"context"
	"time"

	"gorm.io/gorm/logger"
)

// SlowQueryLogger is a gorm logger that only reports queries slower
// than Threshold, everything else stays quiet.
type SlowQueryLogger struct {
	Threshold time.Duration
}

func (l SlowQueryLogger) LogMode(logger.LogLevel) logger.Interface {
	return l
}

func (l SlowQueryLogger) Info(ctx context.Context, format string, args ...interface{}) {
	Infof(format, args...)
}

func (l SlowQueryLogger) Warn(ctx context.Context, format string, args ...interface{}) {
	Warnf(format, args...)
}

func (l SlowQueryLogger) Error(ctx context.Context, format string, args ...interface{}) {
	Errorf(format, args...)
}

func (l SlowQueryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	if err != nil {
		sql, _ := fc()
		Errorf("query failed: %s, %v", sql, err)
		return
	}
	if l.Threshold > 0 && elapsed > l.Threshold {
		sql, rows := fc()
		Warnf("slow query: %s took %v, %d rows", sql, elapsed, rows)
	}
}
