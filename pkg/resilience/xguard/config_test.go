package xguard

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/usorama/radkit/pkg/observability/xresmon"
	"github.com/usorama/radkit/pkg/resilience/xadmit"
)

const sampleYAML = `
rate_limits:
  default:
    tokens_per_second: 10
    bucket_size: 20
  operations:
    "agent:spawn":
      tokens_per_second: 1
      bucket_size: 3
resources:
  cpu_percent: 60
  memory_percent: 85
  process_count: 500
`

const sampleJSON = `{
  "rate_limits": {
    "default": {"tokens_per_second": 5, "bucket_size": 10, "max_cost": 4}
  }
}`

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeConfigFile(t, "guard.yaml", sampleYAML)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.RateLimits.Default.TokensPerSecond != 10 {
		t.Errorf("unexpected default rate: %v", cfg.RateLimits.Default.TokensPerSecond)
	}
	spawn, ok := cfg.RateLimits.Operations["agent:spawn"]
	if !ok {
		t.Fatal("agent:spawn operation missing")
	}
	if spawn.BucketSize != 3 {
		t.Errorf("unexpected agent:spawn bucket size: %v", spawn.BucketSize)
	}
	if cfg.Resources.CPUPercent != 60 {
		t.Errorf("unexpected cpu threshold: %v", cfg.Resources.CPUPercent)
	}
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeConfigFile(t, "guard.json", sampleJSON)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.RateLimits.Default.MaxCost != 4 {
		t.Errorf("unexpected max cost: %v", cfg.RateLimits.Default.MaxCost)
	}
	// 未配置 resources 时回落默认阈值
	if got := cfg.effectiveThresholds().CPUPercent; got != 50 {
		t.Errorf("expected default cpu threshold 50, got %v", got)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"empty path", "", ErrEmptyPath},
		{"unknown extension", "config.toml", ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrLoadFailed) {
			t.Errorf("expected ErrLoadFailed, got %v", err)
		}
	})
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		format  Format
		wantErr error
	}{
		{"bad format", "{}", Format("toml"), ErrUnsupportedFormat},
		{"malformed yaml", "rate_limits: [unclosed", FormatYAML, ErrParseFailed},
		{"missing default", "rate_limits: {}", FormatYAML, xadmit.ErrMissingDefault},
		{
			"negative rate",
			`rate_limits: {default: {tokens_per_second: -1, bucket_size: 5}}`,
			FormatYAML,
			xadmit.ErrInvalidConfig,
		},
		{
			"bad thresholds",
			sampleJSON[:len(sampleJSON)-1] + `, "resources": {"cpu_percent": 200, "memory_percent": 80, "process_count": 400}}`,
			FormatJSON,
			xresmon.ErrInvalidThresholds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data), tt.format)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
