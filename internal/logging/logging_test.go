package logging

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hvac-pq-report/internal/config"
)

func TestNewWritesRotatedFile(t *testing.T) {
	dir := t.TempDir()
	log, err := New(config.LoggingConfig{Level: "info", Dir: dir, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	log.Info("hello", zap.String("room", "Z-101"))
	_ = log.Sync()

	if _, err := os.Stat(filepath.Join(dir, "hvac-report.log")); err != nil {
		t.Fatalf("log file missing: %v", err)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(config.LoggingConfig{Level: "loud"}); err == nil {
		t.Fatal("New() accepted an unknown level")
	}
}

func TestGormTraceLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormZapLogger(zap.New(core), logger.Warn)
	ctx := context.Background()
	stmt := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(ctx, time.Now(), stmt, gorm.ErrRecordNotFound)
	l.Trace(ctx, time.Now(), stmt, nil)
	if logs.Len() != 0 {
		t.Fatalf("logged %d entries for quiet statements", logs.Len())
	}

	l.Trace(ctx, time.Now(), stmt, errors.New("boom"))
	l.Trace(ctx, time.Now().Add(-time.Second), stmt, nil)
	if got := logs.FilterMessage("query failed").Len(); got != 1 {
		t.Errorf("query failed entries = %d", got)
	}
	if got := logs.FilterMessage("slow query").Len(); got != 1 {
		t.Errorf("slow query entries = %d", got)
	}

	silent := l.LogMode(logger.Silent)
	silent.Trace(ctx, time.Now(), stmt, errors.New("boom"))
	if logs.Len() != 2 {
		t.Errorf("silent logger still logged")
	}
}

func TestRequestLoggerLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)

	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/missing", "/broken"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	want := map[string]zapcore.Level{
		"request processed": zapcore.DebugLevel,
		"client error":      zapcore.WarnLevel,
		"server error":      zapcore.ErrorLevel,
	}
	for msg, level := range want {
		entries := logs.FilterMessage(msg).All()
		if len(entries) != 1 || entries[0].Level != level {
			t.Errorf("%q entries = %v", msg, entries)
		}
	}
}
