package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
server:
  address: 127.0.0.1
  port: 9090
  db_path: /var/lib/agoradb
  max_body: 2MB
security:
  rate_limit:
    rps: 10
    burst: 20
  api_keys:
    backend: ["bk1"]
    frontend: ["fk1"]
    admin: ["ak1"]
logging:
  level: debug
forum:
  operator: ops.agora
  fees:
    post_fee: "100"
    thread_fee: "10000000000000000000000"
    profile_fee: "0"
    friend_fee: "50"
stats:
  enabled: true
  cron: "*/5 * * * *"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != "127.0.0.1:9090" {
		t.Fatalf("Addr: %s", cfg.Addr())
	}
	if cfg.Server.MaxBody.Int64() != 2*1000*1000 {
		t.Fatalf("MaxBody: %d", cfg.Server.MaxBody.Int64())
	}
	if cfg.Forum.Operator != "ops.agora" {
		t.Fatalf("operator: %s", cfg.Forum.Operator)
	}
	if cfg.Forum.Fees.ThreadFee.String() != "10000000000000000000000" {
		t.Fatalf("thread fee: %s", cfg.Forum.Fees.ThreadFee.String())
	}
	if !cfg.Stats.Enabled || cfg.Stats.Cron != "*/5 * * * *" {
		t.Fatalf("stats: %+v", cfg.Stats)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestAddrDefaults(t *testing.T) {
	var cfg Config
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Fatalf("default addr: %s", cfg.Addr())
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AGORADB_ADDR", "10.0.0.5:7000")
	t.Setenv("AGORADB_DB_PATH", "/tmp/agora-db")
	t.Setenv("AGORADB_OPERATOR", "root.agora")
	t.Setenv("AGORADB_API_BACKEND_KEYS", "bk2, bk3")
	t.Setenv("AGORADB_RATE_RPS", "42")

	var cfg Config
	backendKeys, signingKeys, envUsed := LoadEnvOverrides(&cfg)
	if !envUsed {
		t.Fatal("env vars should be reported as used")
	}
	if cfg.Server.Address != "10.0.0.5" || cfg.Server.Port != 7000 {
		t.Fatalf("addr override: %s:%d", cfg.Server.Address, cfg.Server.Port)
	}
	if cfg.Server.DBPath != "/tmp/agora-db" {
		t.Fatalf("db path override: %s", cfg.Server.DBPath)
	}
	if cfg.Forum.Operator != "root.agora" {
		t.Fatalf("operator override: %s", cfg.Forum.Operator)
	}
	if cfg.Security.RateLimit.RPS != 42 {
		t.Fatalf("rps override: %f", cfg.Security.RateLimit.RPS)
	}
	if _, ok := backendKeys["bk2"]; !ok {
		t.Fatal("backend key bk2 missing")
	}
	if _, ok := signingKeys["bk3"]; !ok {
		t.Fatal("signing keys should mirror backend keys")
	}
}

func TestRuntimeKeys(t *testing.T) {
	SetRuntime(&RuntimeConfig{
		BackendKeys: map[string]struct{}{"bk": {}},
		SigningKeys: map[string]struct{}{"sk": {}},
	})
	t.Cleanup(func() { SetRuntime(nil) })

	if _, ok := GetBackendKeys()["bk"]; !ok {
		t.Fatal("backend key missing from runtime")
	}
	if _, ok := GetSigningKeys()["sk"]; !ok {
		t.Fatal("signing key missing from runtime")
	}
}
