package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"kronosphere/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type recordingLogger struct {
	logger.NoOpLogger
	errs     []error
	warnings []string
}

func (r *recordingLogger) Warning(component, message string, fields map[string]interface{}) {
	r.warnings = append(r.warnings, message)
}

func (r *recordingLogger) Error(component string, err error, fields map[string]interface{}) {
	r.errs = append(r.errs, err)
}

func TestGormLoggerErrorFormatsArguments(t *testing.T) {
	rec := &recordingLogger{}
	NewGormLogger(rec).Error(context.Background(), "failed to open %s: %d", "notes", 3)

	require.Len(t, rec.errs, 1)
	assert.EqualError(t, rec.errs[0], "failed to open notes: 3")
}

func TestGormLoggerRespectsLevel(t *testing.T) {
	rec := &recordingLogger{}
	quiet := NewGormLogger(rec).LogMode(gormlogger.Silent)

	quiet.Error(context.Background(), "dropped %d", 1)
	quiet.Warn(context.Background(), "dropped %d", 2)

	assert.Empty(t, rec.errs)
	assert.Empty(t, rec.warnings)
}

func TestGormLoggerTraceSkipsRecordNotFound(t *testing.T) {
	rec := &recordingLogger{}
	log := NewGormLogger(rec)
	sql := func() (string, int64) { return "SELECT 1", 0 }

	log.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)
	assert.Empty(t, rec.errs)

	log.Trace(context.Background(), time.Now(), sql, errors.New("disk I/O error"))
	require.Len(t, rec.errs, 1)
}
