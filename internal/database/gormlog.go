package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kronosphere/internal/logger"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// GormLogger forwards gorm's log output to the application logger.
type GormLogger struct {
	log   logger.Logger
	level gormlogger.LogLevel
}

func NewGormLogger(log logger.Logger) *GormLogger {
	return &GormLogger{log: log, level: gormlogger.Info}
}

func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Info {
		g.log.Debug("Gorm", fmt.Sprintf(msg, args...), nil)
	}
}

func (g *GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Warn {
		g.log.Warning("Gorm", fmt.Sprintf(msg, args...), nil)
	}
}

func (g *GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Error {
		g.log.Error("Gorm", fmt.Errorf(msg, args...), nil)
	}
}

func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && g.level >= gormlogger.Error:
		sql, rows := fc()
		g.log.Error("Gorm", err, map[string]interface{}{
			"sql":      sql,
			"rows":     rows,
			"duration": elapsed.String(),
		})
	case elapsed > slowQueryThreshold && g.level >= gormlogger.Warn:
		sql, rows := fc()
		g.log.Warning("Gorm", "slow query", map[string]interface{}{
			"sql":      sql,
			"rows":     rows,
			"duration": elapsed.String(),
		})
	case g.level >= gormlogger.Info:
		sql, rows := fc()
		g.log.Debug("Gorm", "query", map[string]interface{}{
			"sql":      sql,
			"rows":     rows,
			"duration": elapsed.String(),
		})
	}
}
