package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func resetGlobalConfig() {
	globalConfig = &Config{
		BindAddr:         "0.0.0.0",
		DatabasePath:     ".spritz",
		SnapshotPath:     "",
		SnapshotInterval: "6h",
		StatsInterval:    "60s",
		StatsWindow:      "1h",
		FaucetCooldown:   "24h",
		FaucetAmount:     100.0,
		ApiPort:          5000,
		MetricsPort:      12800,
		BlockCapacity:    10,
		ShutdownTimeout:  DefaultShutdownTimeout,
	}
}

func TestLoad_CompareFullStruct(t *testing.T) {
	resetGlobalConfig()
	yamlContent := `
bindAddr: "127.0.0.1"
databasePath: "/var/lib/spritz"
snapshotPath: "/var/lib/spritz/snapshots"
snapshotInterval: "12h"
statsInterval: "30s"
statsWindow: "2h"
faucetCooldown: "48h"
faucetAmount: 250.0
apiPort: 8080
metricsPort: 9100
blockCapacity: 20
`

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-spritz.yaml")

	err := os.WriteFile(tmpFile, []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	defer os.Remove(tmpFile)

	expected := &Config{
		BindAddr:         "127.0.0.1",
		DatabasePath:     "/var/lib/spritz",
		SnapshotPath:     "/var/lib/spritz/snapshots",
		SnapshotInterval: "12h",
		StatsInterval:    "30s",
		StatsWindow:      "2h",
		FaucetCooldown:   "48h",
		FaucetAmount:     250.0,
		ApiPort:          8080,
		MetricsPort:      9100,
		BlockCapacity:    20,
		ShutdownTimeout:  DefaultShutdownTimeout,
	}

	actual, err := LoadConfig(tmpFile)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !reflect.DeepEqual(actual, expected) {
		t.Errorf(
			"Loaded config does not match expected.\nActual: %+v\nExpected: %+v",
			actual,
			expected,
		)
	}
}

func TestLoad_PartialOverlayKeepsDefaults(t *testing.T) {
	resetGlobalConfig()

	// Only override a couple of values; the rest keep their defaults
	yamlContent := `
apiPort: 9000
blockCapacity: 5
`

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-partial.yaml")

	err := os.WriteFile(tmpFile, []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(tmpFile)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cfg.ApiPort != 9000 {
		t.Errorf("expected ApiPort to be 9000, got: %d", cfg.ApiPort)
	}
	if cfg.BlockCapacity != 5 {
		t.Errorf("expected BlockCapacity to be 5, got: %d", cfg.BlockCapacity)
	}
	if cfg.DatabasePath != ".spritz" {
		t.Errorf(
			"expected DatabasePath default to survive, got: %s",
			cfg.DatabasePath,
		)
	}
	if cfg.FaucetCooldown != "24h" {
		t.Errorf(
			"expected FaucetCooldown default to survive, got: %s",
			cfg.FaucetCooldown,
		)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	resetGlobalConfig()

	yamlContent := `
apiPort: 9000
`

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-env.yaml")

	err := os.WriteFile(tmpFile, []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("SPRITZ_PORT", "7000")
	t.Setenv("SPRITZ_FAUCET_AMOUNT", "42.5")

	cfg, err := LoadConfig(tmpFile)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cfg.ApiPort != 7000 {
		t.Errorf("expected env to override ApiPort, got: %d", cfg.ApiPort)
	}
	if cfg.FaucetAmount != 42.5 {
		t.Errorf(
			"expected env to override FaucetAmount, got: %f",
			cfg.FaucetAmount,
		)
	}
}

func TestContextRoundTrip(t *testing.T) {
	resetGlobalConfig()
	cfg := GetConfig()
	ctx := WithContext(t.Context(), cfg)
	if got := FromContext(ctx); got != cfg {
		t.Errorf("expected config from context to match, got: %+v", got)
	}
	if got := FromContext(t.Context()); got != nil {
		t.Errorf("expected nil config from empty context, got: %+v", got)
	}
}
