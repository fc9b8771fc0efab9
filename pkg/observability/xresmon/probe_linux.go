//go:build linux

package xresmon

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// 数据源路径与采样间隔作为包级变量，支持测试中替换以覆盖解析与错误路径。
// 设计决策: 使用包级变量 mock 模式（与 xsys.getrlimit 一致），对此规模的包足够简洁。
// 注意：mock 测试不可使用 t.Parallel()，因为替换包级变量会引发竞态。
var (
	procStatPath    = "/proc/stat"
	procMeminfoPath = "/proc/meminfo"
	procRootPath    = "/proc"

	// cpuSampleInterval 内核 CPU 两次采样的间隔。
	// /proc/stat 是自启动以来的累计值，瞬时占用必须通过差分得到。
	cpuSampleInterval = 200 * time.Millisecond
)

// linuxProbe 基于 /proc 的资源探针。
type linuxProbe struct{}

var _ Probe = linuxProbe{}

// NewPlatformProbe 返回当前平台的资源探针。
func NewPlatformProbe() Probe {
	return linuxProbe{}
}

// Platform 返回探针对应的平台名。
func (linuxProbe) Platform() string { return "linux" }

// KernelCPUPercent 通过 /proc/stat 两次采样差分计算内核态 CPU 占比。
// 内核态计入 system + irq + softirq；单次调用内完成两次采样。
func (linuxProbe) KernelCPUPercent(ctx context.Context) (float64, error) {
	kernel1, total1, err := readCPUStat()
	if err != nil {
		return 0, err
	}

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-time.After(cpuSampleInterval):
	}

	kernel2, total2, err := readCPUStat()
	if err != nil {
		return 0, err
	}

	totalDelta := total2 - total1
	if totalDelta == 0 {
		return 0, nil
	}
	return float64(kernel2-kernel1) / float64(totalDelta) * 100, nil
}

// readCPUStat 读取 /proc/stat 首行的累计 jiffies。
func readCPUStat() (kernel, total uint64, err error) {
	f, err := os.Open(procStatPath)
	if err != nil {
		return 0, 0, fmt.Errorf("xresmon: open %s: %w", procStatPath, err)
	}
	defer f.Close() //nolint:errcheck // 只读文件关闭失败无影响

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "cpu ") {
			continue
		}
		// cpu user nice system idle iowait irq softirq steal ...
		fields := strings.Fields(line)[1:]
		if len(fields) < 7 {
			return 0, 0, fmt.Errorf("xresmon: malformed cpu line in %s: %q", procStatPath, line)
		}
		values := make([]uint64, len(fields))
		for i, field := range fields {
			v, parseErr := strconv.ParseUint(field, 10, 64)
			if parseErr != nil {
				return 0, 0, fmt.Errorf("xresmon: parse cpu field %q: %w", field, parseErr)
			}
			values[i] = v
			total += v
		}
		kernel = values[2] + values[5] + values[6] // system + irq + softirq
		return kernel, total, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, fmt.Errorf("xresmon: read %s: %w", procStatPath, err)
	}
	return 0, 0, fmt.Errorf("xresmon: no cpu line in %s", procStatPath)
}

// MemoryPressurePercent 基于 /proc/meminfo 计算内存压力。
// MemAvailable 由内核估算，已包含可回收的 page cache，
// 等价于 free + inactive + speculative + purgeable 的口径。
func (linuxProbe) MemoryPressurePercent(_ context.Context) (float64, error) {
	f, err := os.Open(procMeminfoPath)
	if err != nil {
		return 0, fmt.Errorf("xresmon: open %s: %w", procMeminfoPath, err)
	}
	defer f.Close() //nolint:errcheck // 只读文件关闭失败无影响

	var totalKB, availableKB uint64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "MemTotal:"):
			totalKB, err = parseMeminfoKB(line)
		case strings.HasPrefix(line, "MemAvailable:"):
			availableKB, err = parseMeminfoKB(line)
		default:
			continue
		}
		if err != nil {
			return 0, err
		}
		if totalKB > 0 && availableKB > 0 {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("xresmon: read %s: %w", procMeminfoPath, err)
	}
	if totalKB == 0 {
		return 0, fmt.Errorf("xresmon: MemTotal missing in %s", procMeminfoPath)
	}

	used := 1 - float64(availableKB)/float64(totalKB)
	return used * 100, nil
}

// parseMeminfoKB 解析 "MemTotal:  16384256 kB" 形式的行。
func parseMeminfoKB(line string) (uint64, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, fmt.Errorf("xresmon: malformed meminfo line: %q", line)
	}
	v, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("xresmon: parse meminfo value %q: %w", fields[1], err)
	}
	return v, nil
}

// ProcessCount 统计 /proc 下的纯数字目录数。
func (linuxProbe) ProcessCount(_ context.Context) (int, error) {
	entries, err := os.ReadDir(procRootPath)
	if err != nil {
		return 0, fmt.Errorf("xresmon: read %s: %w", procRootPath, err)
	}

	count := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := strconv.Atoi(entry.Name()); err == nil {
			count++
		}
	}
	return count, nil
}
