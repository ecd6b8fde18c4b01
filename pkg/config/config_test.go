package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseAppliesDefaults(t *testing.T) {
	c, err := Parse([]byte(`
environment: production
source:
  firestore:
    project_id: btc-mag7
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Server.Port != 5000 || c.Server.ReadTimeout != 10*time.Second {
		t.Errorf("server defaults not applied: %+v", c.Server)
	}
	if c.Source.Type != SourceFirestore || c.Source.Firestore.Collection != "Indices/BTC_Mag7_Index/DailyData" {
		t.Errorf("source defaults not applied: %+v", c.Source)
	}
	if c.Snapshot.Backend != SnapshotFile || c.Snapshot.File.Path != "cached_data.csv" {
		t.Errorf("snapshot defaults not applied: %+v", c.Snapshot)
	}
	if len(c.Server.CORS.Origins) != 1 || c.Server.CORS.Origins[0] != "*" {
		t.Errorf("cors origins = %v", c.Server.CORS.Origins)
	}
	if c.Source.Timeout != 0 {
		t.Errorf("source timeout should default to unbounded, got %v", c.Source.Timeout)
	}
}

func TestParseOverrides(t *testing.T) {
	c, err := Parse([]byte(`
environment: staging
server:
  port: 8088
  write_timeout: 45s
source:
  type: clickhouse
  timeout: 20s
  clickhouse:
    host: ch.internal
snapshot:
  backend: redis
  redis:
    host: cache
    key: btc_mag7
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Server.Port != 8088 || c.Server.WriteTimeout != 45*time.Second {
		t.Errorf("server overrides lost: %+v", c.Server)
	}
	if c.Source.Timeout != 20*time.Second || c.Source.ClickHouse.Table != "daily_close" {
		t.Errorf("source = %+v", c.Source)
	}
	if c.Snapshot.Redis.Port != 6379 || c.Snapshot.Redis.Key != "btc_mag7" {
		t.Errorf("redis = %+v", c.Snapshot.Redis)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]string{
		"bad backend":     "snapshot:\n  backend: s3\nsource:\n  firestore:\n    project_id: p\n",
		"bad source":      "source:\n  type: mongo\n",
		"missing project": "environment: dev\n",
		"bad port":        "server:\n  port: 70000\nsource:\n  firestore:\n    project_id: p\n",
		"bad level":       "log:\n  level: loud\nsource:\n  firestore:\n    project_id: p\n",
	}
	for name, body := range cases {
		if _, err := Parse([]byte(body)); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	env := map[string]string{
		"HTTP_PORT":            "9001",
		"LOG_LEVEL":            "DEBUG",
		"FIRESTORE_PROJECT_ID": "proj",
		"SNAPSHOT_BACKEND":     "redis",
		"REDIS_ADDR":           "redis.svc:6380",
	}
	c.applyEnv(func(k string) string { return env[k] })

	if c.Server.Port != 9001 || c.Log.Level != "debug" {
		t.Errorf("server/log env not applied: %d %s", c.Server.Port, c.Log.Level)
	}
	if c.Source.Firestore.ProjectID != "proj" || c.Snapshot.Backend != SnapshotRedis {
		t.Errorf("source/snapshot env not applied")
	}
	if c.Snapshot.Redis.Host != "redis.svc" || c.Snapshot.Redis.Port != 6380 {
		t.Errorf("redis addr = %s:%d", c.Snapshot.Redis.Host, c.Snapshot.Redis.Port)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Fatalf("expected read error, got %v", err)
	}
}
