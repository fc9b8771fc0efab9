//go:build darwin

package xresmon

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// 外部命令与系统调用作为包级变量，支持测试中替换以覆盖解析与错误路径。
// 设计决策: 使用包级变量 mock 模式（与 xsys.getrlimit 一致），对此规模的包足够简洁。
// 注意：mock 测试不可使用 t.Parallel()，因为替换包级变量会引发竞态。
var (
	runCommand = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return exec.CommandContext(ctx, name, args...).Output()
	}
	sysctlUint64 = unix.SysctlUint64
)

// darwinProbe 基于 sysctl 与系统命令的资源探针。
type darwinProbe struct{}

var _ Probe = darwinProbe{}

// NewPlatformProbe 返回当前平台的资源探针。
func NewPlatformProbe() Probe {
	return darwinProbe{}
}

// Platform 返回探针对应的平台名。
func (darwinProbe) Platform() string { return "darwin" }

// KernelCPUPercent 取 kernel_task 的 %cpu 作为内核态占用近似。
func (darwinProbe) KernelCPUPercent(ctx context.Context) (float64, error) {
	out, err := runCommand(ctx, "ps", "-axo", "%cpu=,comm=")
	if err != nil {
		return 0, fmt.Errorf("xresmon: run ps: %w", err)
	}

	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || !strings.HasSuffix(fields[1], "kernel_task") {
			continue
		}
		cpu, parseErr := strconv.ParseFloat(fields[0], 64)
		if parseErr != nil {
			return 0, fmt.Errorf("xresmon: parse kernel_task cpu %q: %w", fields[0], parseErr)
		}
		if cpu > 100 {
			cpu = 100
		}
		return cpu, nil
	}
	return 0, fmt.Errorf("xresmon: kernel_task not found in ps output")
}

// MemoryPressurePercent 基于 vm_stat 页类别与 hw.memsize 计算内存压力。
// 可用内存 = (free + inactive + speculative + purgeable) × 实际页大小；
// 页大小与物理内存总量均为查询所得，不做任何硬编码假设。
func (darwinProbe) MemoryPressurePercent(ctx context.Context) (float64, error) {
	total, err := sysctlUint64("hw.memsize")
	if err != nil {
		return 0, fmt.Errorf("xresmon: sysctl hw.memsize: %w", err)
	}
	if total == 0 {
		return 0, fmt.Errorf("xresmon: hw.memsize reported zero")
	}

	out, err := runCommand(ctx, "vm_stat")
	if err != nil {
		return 0, fmt.Errorf("xresmon: run vm_stat: %w", err)
	}

	pageSize, pages, err := parseVMStat(string(out))
	if err != nil {
		return 0, err
	}

	available := (pages["Pages free"] +
		pages["Pages inactive"] +
		pages["Pages speculative"] +
		pages["Pages purgeable"]) * pageSize

	used := 1 - float64(available)/float64(total)
	if used < 0 {
		used = 0
	}
	return used * 100, nil
}

// parseVMStat 解析 vm_stat 输出：首行的页大小与各 "Pages xxx: N." 行。
func parseVMStat(out string) (pageSize uint64, pages map[string]uint64, err error) {
	pages = make(map[string]uint64)

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()

		// Mach Virtual Memory Statistics: (page size of 16384 bytes)
		if idx := strings.Index(line, "page size of "); idx >= 0 {
			rest := line[idx+len("page size of "):]
			fields := strings.Fields(rest)
			if len(fields) == 0 {
				return 0, nil, fmt.Errorf("xresmon: malformed vm_stat header: %q", line)
			}
			pageSize, err = strconv.ParseUint(fields[0], 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("xresmon: parse page size %q: %w", fields[0], err)
			}
			continue
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSuffix(strings.TrimSpace(value), ".")
		n, parseErr := strconv.ParseUint(value, 10, 64)
		if parseErr != nil {
			continue
		}
		pages[strings.TrimSpace(name)] = n
	}

	if pageSize == 0 {
		return 0, nil, fmt.Errorf("xresmon: page size missing in vm_stat output")
	}
	return pageSize, pages, nil
}

// ProcessCount 统计 ps 输出的进程行数。
func (darwinProbe) ProcessCount(ctx context.Context) (int, error) {
	out, err := runCommand(ctx, "ps", "-axo", "pid=")
	if err != nil {
		return 0, fmt.Errorf("xresmon: run ps: %w", err)
	}

	count := 0
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			count++
		}
	}
	return count, nil
}
