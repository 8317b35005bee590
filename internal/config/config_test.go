package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/hvac.db")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("SESSION_IDLE_TIMEOUT", "45m")
	t.Setenv("REQUIRE_HOSPITAL", "false")
	t.Setenv("MAX_PARALLEL_EXPORTS", "8")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := LoadConfig()

	if cfg.Database.Driver != "sqlite" || cfg.Database.SQLitePath != "/tmp/hvac.db" {
		t.Errorf("Database = %+v", cfg.Database)
	}
	if want := []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(cfg.CORS.AllowedOrigins, want) {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.CORS.AllowedOrigins, want)
	}
	if cfg.Report.SessionIdleTimeout != 45*time.Minute || cfg.Report.RequireHospital || cfg.Report.MaxParallelExports != 8 {
		t.Errorf("Report = %+v", cfg.Report)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestParseFallbacks(t *testing.T) {
	if got := parseDuration("soon", time.Minute); got != time.Minute {
		t.Errorf("parseDuration() = %v", got)
	}
	if got := parseInt("many", 3); got != 3 {
		t.Errorf("parseInt() = %d", got)
	}
	if parseBool("maybe") {
		t.Errorf("parseBool(maybe) = true")
	}
	if !parseBool("true") {
		t.Errorf("parseBool(true) = false")
	}
}
