package xresmon_test

import (
	"context"
	"fmt"

	"github.com/usorama/radkit/pkg/observability/xresmon"
)

// fixedProbe 演示用的固定值探针
type fixedProbe struct{}

func (fixedProbe) KernelCPUPercent(context.Context) (float64, error) { return 55, nil }
func (fixedProbe) MemoryPressurePercent(context.Context) (float64, error) { return 60, nil }
func (fixedProbe) ProcessCount(context.Context) (int, error) { return 100, nil }
func (fixedProbe) Platform() string { return "example" }

func Example() {
	// 默认阈值 CPU 50% / 内存 80% / 进程数 400
	monitor, err := xresmon.New(xresmon.WithProbe(fixedProbe{}))
	if err != nil {
		fmt.Println("创建监控器失败:", err)
		return
	}

	d := monitor.CheckResources(context.Background())
	fmt.Println("canSpawn:", d.CanSpawn)
	fmt.Println("reason:", d.Reason)
	// Output:
	// canSpawn: false
	// reason: CPU (55.0% ≥ 50.0%)
}
