package xguard

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/usorama/radkit/pkg/observability/xresmon"
	"github.com/usorama/radkit/pkg/resilience/xadmit"
	"github.com/usorama/radkit/pkg/resilience/xfallback"
)

// stubProbe 可编排返回值的探针假实现
type stubProbe struct {
	cpu    float64
	memory float64
	procs  int
	err    error
}

func (p *stubProbe) KernelCPUPercent(context.Context) (float64, error) { return p.cpu, p.err }
func (p *stubProbe) MemoryPressurePercent(context.Context) (float64, error) { return p.memory, p.err }
func (p *stubProbe) ProcessCount(context.Context) (int, error) { return p.procs, p.err }
func (p *stubProbe) Platform() string { return "stub" }

// stubEmbed 固定结果的嵌入提供方
type stubEmbed struct {
	name string
	err  error
}

func (p *stubEmbed) Name() string { return p.name }
func (p *stubEmbed) Available(context.Context) bool { return true }
func (p *stubEmbed) Attempt(_ context.Context, _ xfallback.EmbedRequest) (xfallback.EmbedResponse, error) {
	if p.err != nil {
		return xfallback.EmbedResponse{}, p.err
	}
	return xfallback.EmbedResponse{Provider: p.name}, nil
}

func testConfig() Config {
	return Config{
		RateLimits: xadmit.Config{
			Default: xadmit.BucketConfig{TokensPerSecond: 10, BucketSize: 20},
			Operations: map[string]xadmit.BucketConfig{
				"agent:spawn": {TokensPerSecond: 1, BucketSize: 3},
			},
		},
	}
}

func newTestController(t *testing.T, cfg Config, opts ...Option) *Controller {
	t.Helper()
	c, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("failed to create controller: %v", err)
	}
	return c
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{})
	if !errors.Is(err, xadmit.ErrMissingDefault) {
		t.Errorf("expected ErrMissingDefault, got %v", err)
	}

	bad := testConfig()
	bad.Resources = xresmon.Thresholds{CPUPercent: -5, MemoryPercent: 80, ProcessCount: 400}
	_, err = New(bad)
	if !errors.Is(err, xresmon.ErrInvalidThresholds) {
		t.Errorf("expected ErrInvalidThresholds, got %v", err)
	}
}

func TestAdmit_Allowed(t *testing.T) {
	c := newTestController(t, testConfig(),
		WithProbe(&stubProbe{cpu: 10, memory: 30, procs: 50}),
	)

	d := c.Admit(context.Background(), "agent:spawn:a", 1)
	if !d.Allowed {
		t.Fatalf("expected admit, got reason %q", d.Reason)
	}
	if d.RateLimit == nil || d.RateLimit.TokensRemaining != 2 {
		t.Errorf("expected 2 tokens remaining after admit, got %+v", d.RateLimit)
	}
	if !d.Resources.CanSpawn {
		t.Error("resource decision should be positive")
	}
}

// TestAdmit_ResourceDenied 资源门禁先拒绝：不触碰令牌桶。
func TestAdmit_ResourceDenied(t *testing.T) {
	c := newTestController(t, testConfig(),
		WithProbe(&stubProbe{cpu: 90, memory: 30, procs: 50}),
	)

	d := c.Admit(context.Background(), "agent:spawn:a", 1)
	if d.Allowed {
		t.Fatal("expected denial under cpu pressure")
	}
	if !strings.Contains(d.Reason, "CPU") {
		t.Errorf("reason should name the exceeded threshold, got %q", d.Reason)
	}
	if d.RateLimit != nil {
		t.Error("rate limiter must not run when resources deny")
	}
	if c.Limiter().GetBucketState("agent:spawn:a") != nil {
		t.Error("bucket must not be materialized on resource denial")
	}
}

// TestAdmit_RateLimited 配额耗尽：拒绝并携带重试提示。
func TestAdmit_RateLimited(t *testing.T) {
	c := newTestController(t, testConfig(),
		WithProbe(&stubProbe{cpu: 10, memory: 30, procs: 50}),
	)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if d := c.Admit(ctx, "agent:spawn:a", 1); !d.Allowed {
			t.Fatalf("admit %d should pass", i+1)
		}
	}

	d := c.Admit(ctx, "agent:spawn:a", 1)
	if d.Allowed {
		t.Fatal("fourth admit should be rate limited")
	}
	if !strings.Contains(d.Reason, "rate limit") {
		t.Errorf("unexpected reason: %q", d.Reason)
	}
	if d.RetryAfter <= 0 || d.RetryAfter > 2*time.Second {
		t.Errorf("expected a sane retry hint, got %v", d.RetryAfter)
	}
}

// TestAdmit_FailOpenProbe 探测失败时资源门禁放行，准入只由配额决定。
func TestAdmit_FailOpenProbe(t *testing.T) {
	c := newTestController(t, testConfig(),
		WithProbe(&stubProbe{err: errors.New("probe exploded")}),
	)

	d := c.Admit(context.Background(), "task:x", 1)
	if !d.Allowed {
		t.Fatalf("broken probe must not block admission, reason %q", d.Reason)
	}
	if !strings.Contains(d.Resources.Reason, "resource monitoring unavailable") {
		t.Errorf("resource decision should explain the fail-open, got %q", d.Resources.Reason)
	}
}

func TestController_EmbedDelegation(t *testing.T) {
	c := newTestController(t, testConfig(),
		WithProbe(&stubProbe{}),
		WithEmbedProviders(
			&stubEmbed{name: "primary", err: errors.New("request timed out")},
			&stubEmbed{name: "backup"},
		),
	)

	resp, err := c.Embed(context.Background(), xfallback.EmbedRequest{Texts: []string{"x"}})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if resp.Provider != "backup" {
		t.Errorf("expected fallback to backup, got %q", resp.Provider)
	}

	history := c.Fallback().AttemptHistory()
	if len(history) != 2 {
		t.Errorf("expected 2 recorded attempts, got %d", len(history))
	}
}

func TestController_SummarizeEmptyChain(t *testing.T) {
	c := newTestController(t, testConfig(), WithProbe(&stubProbe{}))

	_, err := c.Summarize(context.Background(), xfallback.SummarizeRequest{})
	if !errors.Is(err, xfallback.ErrNoProviders) {
		t.Errorf("expected ErrNoProviders, got %v", err)
	}
}
