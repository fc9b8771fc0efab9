package xfallback

import (
	"fmt"
	"testing"
)

func TestHistory_RingEviction(t *testing.T) {
	h := newHistory(3)

	for i := 0; i < 5; i++ {
		h.append(Attempt{Provider: fmt.Sprintf("p%d", i)})
	}

	got := h.list()
	if len(got) != 3 {
		t.Fatalf("expected 3 entries after eviction, got %d", len(got))
	}
	// FIFO：最旧的 p0、p1 被淘汰，保留 p2..p4 且时间序不变
	for i, want := range []string{"p2", "p3", "p4"} {
		if got[i].Provider != want {
			t.Errorf("entry %d: expected %s, got %s", i, want, got[i].Provider)
		}
	}
}

func TestHistory_Filter(t *testing.T) {
	h := newHistory(10)
	h.append(Attempt{Provider: "a", Success: true})
	h.append(Attempt{Provider: "b"})
	h.append(Attempt{Provider: "a"})

	got := h.list("a")
	if len(got) != 2 {
		t.Fatalf("expected 2 entries for provider a, got %d", len(got))
	}
	for _, a := range got {
		if a.Provider != "a" {
			t.Errorf("filter leaked provider %q", a.Provider)
		}
	}
}

func TestHistory_DefaultCapacity(t *testing.T) {
	h := newHistory(0)
	if len(h.buf) != defaultHistoryCapacity {
		t.Errorf("expected default capacity %d, got %d", defaultHistoryCapacity, len(h.buf))
	}
}

// TestHistory_StatsAfterEviction 统计基于当前环内容，被淘汰的记录不再计入。
func TestHistory_StatsAfterEviction(t *testing.T) {
	h := newHistory(2)
	h.append(Attempt{Provider: "old", Success: false})
	h.append(Attempt{Provider: "a", Success: true})
	h.append(Attempt{Provider: "b", Success: true}) // 淘汰 old

	s := h.stats()
	if s.TotalAttempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", s.TotalAttempts)
	}
	if s.SuccessRate != 1 {
		t.Errorf("expected success rate 1, got %v", s.SuccessRate)
	}
	if _, ok := s.ByProvider["old"]; ok {
		t.Error("evicted entries must not appear in stats")
	}
}

func TestHistory_ClearThenAppend(t *testing.T) {
	h := newHistory(4)
	h.append(Attempt{Provider: "a"})
	h.append(Attempt{Provider: "b"})
	h.clear()

	if got := h.list(); len(got) != 0 {
		t.Fatalf("expected empty history after clear, got %d", len(got))
	}

	h.append(Attempt{Provider: "c"})
	got := h.list()
	if len(got) != 1 || got[0].Provider != "c" {
		t.Errorf("history should work normally after clear, got %+v", got)
	}
}
