package xfallback

import (
	"context"
	"errors"
	"testing"
	"time"
)

// flakyEmbed 前 failures 次调用失败，之后成功
type flakyEmbed struct {
	name     string
	failures int
	calls    int
}

func (p *flakyEmbed) Name() string { return p.name }

func (p *flakyEmbed) Available(context.Context) bool { return true }

func (p *flakyEmbed) Attempt(_ context.Context, _ EmbedRequest) (EmbedResponse, error) {
	p.calls++
	if p.calls <= p.failures {
		return EmbedResponse{}, errors.New("transient failure")
	}
	return EmbedResponse{Provider: p.name}, nil
}

func TestWithRetry_EventualSuccess(t *testing.T) {
	inner := &flakyEmbed{name: "flaky", failures: 2}
	p := WithRetry[EmbedRequest, EmbedResponse](inner, 3, time.Millisecond)

	resp, err := p.Attempt(context.Background(), EmbedRequest{})
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if resp.Provider != "flaky" {
		t.Errorf("unexpected provider %q", resp.Provider)
	}
	if inner.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", inner.calls)
	}
}

func TestWithRetry_ExhaustedReturnsLastError(t *testing.T) {
	inner := &flakyEmbed{name: "flaky", failures: 10}
	p := WithRetry[EmbedRequest, EmbedResponse](inner, 2, time.Millisecond)

	_, err := p.Attempt(context.Background(), EmbedRequest{})
	if err == nil {
		t.Fatal("expected error after retry budget exhausted")
	}
	if inner.calls != 2 {
		t.Errorf("expected 2 attempts, got %d", inner.calls)
	}
}

func TestWithRetry_PreservesIdentity(t *testing.T) {
	inner := &flakyEmbed{name: "flaky"}
	p := WithRetry[EmbedRequest, EmbedResponse](inner, 3, time.Millisecond)

	if p.Name() != "flaky" {
		t.Errorf("wrapper must preserve provider identity, got %q", p.Name())
	}
	if !p.Available(context.Background()) {
		t.Error("wrapper must pass through availability")
	}
}

func TestWithBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &flakyEmbed{name: "broken", failures: 100}
	p := WithBreaker[EmbedRequest, EmbedResponse](inner, 2, time.Minute)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := p.Attempt(ctx, EmbedRequest{}); err == nil {
			t.Fatal("expected failure")
		}
	}

	// 连续失败达到阈值后熔断器打开，提供方对链呈现为不可用
	if p.Available(ctx) {
		t.Error("open breaker should report the provider as unavailable")
	}
	// Open 状态下真实调用不会到达内层
	before := inner.calls
	if _, err := p.Attempt(ctx, EmbedRequest{}); err == nil {
		t.Error("open breaker should reject attempts")
	}
	if inner.calls != before {
		t.Error("open breaker must not pass attempts through")
	}
}

func TestWithBreaker_ClosedPassesThrough(t *testing.T) {
	inner := &flakyEmbed{name: "fine"}
	p := WithBreaker[EmbedRequest, EmbedResponse](inner, 3, time.Minute)

	resp, err := p.Attempt(context.Background(), EmbedRequest{})
	if err != nil {
		t.Fatalf("closed breaker should pass through, got %v", err)
	}
	if resp.Provider != "fine" {
		t.Errorf("unexpected provider %q", resp.Provider)
	}
	if !p.Available(context.Background()) {
		t.Error("closed breaker should report inner availability")
	}
}

// TestWithBreaker_InChain 熔断打开的提供方被链越过并记为 container_down。
func TestWithBreaker_InChain(t *testing.T) {
	broken := &flakyEmbed{name: "broken", failures: 100}
	healthy := &flakyEmbed{name: "healthy"}

	wrapped := WithBreaker[EmbedRequest, EmbedResponse](broken, 1, time.Minute)
	mgr, err := NewManager([]EmbedProvider{wrapped, healthy}, nil)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	ctx := context.Background()

	// 第一次调用：broken 真实失败，healthy 兜底
	if _, err := mgr.Embed(ctx, EmbedRequest{}); err != nil {
		t.Fatalf("first call should succeed via fallback: %v", err)
	}

	// 熔断已打开：第二次调用不再尝试 broken 的真实调用
	before := broken.calls
	if _, err := mgr.Embed(ctx, EmbedRequest{}); err != nil {
		t.Fatalf("second call should succeed via fallback: %v", err)
	}
	if broken.calls != before {
		t.Error("open breaker should steer the chain past the broken provider")
	}

	history := mgr.AttemptHistory("broken")
	last := history[len(history)-1]
	if last.Trigger != TriggerContainerDown {
		t.Errorf("skipped provider should record container_down, got %q", last.Trigger)
	}
}
