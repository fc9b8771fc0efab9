package xfallback

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// timeNow 时间源包级变量，支持测试中 mock 替换。
// 注意：mock 测试不可使用 t.Parallel()。
var timeNow = time.Now

// defaultHistoryCapacity 历史环形缓冲的默认容量
const defaultHistoryCapacity = 100

// Attempt 一次提供方尝试的追加式记录
type Attempt struct {
	// CallID 同一次 Execute 调用内的尝试共享此 ID，便于日志关联
	CallID uuid.UUID

	// Provider 本次尝试的提供方
	Provider string

	// Success 是否成功
	Success bool

	// Duration 距本次 Execute 调用开始的耗时（非单个提供方的耗时）
	Duration time.Duration

	// Err 错误文本，仅失败时非空
	Err string

	// Trigger 失败触发原因，仅失败时有效
	Trigger Trigger

	// At 记录时间
	At time.Time
}

// History 有界的尝试历史
//
// 环形缓冲，容量满后 FIFO 淘汰最旧记录；只能通过 Clear 显式清空。
// 嵌入与摘要两条链共享同一份历史，形成跨能力的统一健康信号。
type History struct {
	mu   sync.Mutex
	buf  []Attempt
	head int // 下一个写入位置
	size int
}

// newHistory 创建历史缓冲
func newHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = defaultHistoryCapacity
	}
	return &History{buf: make([]Attempt, capacity)}
}

// append 追加一条记录，满时淘汰最旧记录
func (h *History) append(a Attempt) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buf[h.head] = a
	h.head = (h.head + 1) % len(h.buf)
	if h.size < len(h.buf) {
		h.size++
	}
}

// list 按时间顺序返回记录的防御性拷贝
// providers 非空时只返回指定提供方的记录
func (h *History) list(providers ...string) []Attempt {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Attempt, 0, h.size)
	for i := 0; i < h.size; i++ {
		a := h.buf[h.index(i)]
		if len(providers) > 0 && !containsProvider(providers, a.Provider) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// index 将时间序下标换算为缓冲下标
func (h *History) index(i int) int {
	oldest := h.head - h.size
	if oldest < 0 {
		oldest += len(h.buf)
	}
	return (oldest + i) % len(h.buf)
}

// stats 在锁内对当前历史做一次聚合
func (h *History) stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := Stats{
		TotalAttempts: h.size,
		ByProvider:    make(map[string]ProviderStats),
	}

	successes := 0
	fallbacks := 0
	for i := 0; i < h.size; i++ {
		a := h.buf[h.index(i)]

		ps := s.ByProvider[a.Provider]
		ps.Attempts++
		if a.Success {
			ps.Successes++
			successes++
		}
		s.ByProvider[a.Provider] = ps

		// 降级尝试：紧邻的前一条历史记录是失败
		if i > 0 && !h.buf[h.index(i-1)].Success {
			fallbacks++
		}
	}

	if h.size > 0 {
		s.SuccessRate = float64(successes) / float64(h.size)
		s.FallbackRate = float64(fallbacks) / float64(h.size)
	}
	return s
}

// clear 清空历史
func (h *History) clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.head = 0
	h.size = 0
}

// containsProvider 检查提供方名单是否包含 name
func containsProvider(providers []string, name string) bool {
	for _, p := range providers {
		if p == name {
			return true
		}
	}
	return false
}
