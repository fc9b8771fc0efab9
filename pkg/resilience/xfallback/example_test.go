package xfallback_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/usorama/radkit/pkg/resilience/xfallback"
)

// ollamaEmbed 演示用的本地嵌入提供方，始终失败
type ollamaEmbed struct{}

func (ollamaEmbed) Name() string { return "ollama" }
func (ollamaEmbed) Available(context.Context) bool { return true }
func (ollamaEmbed) Attempt(context.Context, xfallback.EmbedRequest) (xfallback.EmbedResponse, error) {
	return xfallback.EmbedResponse{}, errors.New("dial tcp 127.0.0.1:11434: connection refused")
}

// openaiEmbed 演示用的云端嵌入提供方，始终成功
type openaiEmbed struct{}

func (openaiEmbed) Name() string { return "openai" }
func (openaiEmbed) Available(context.Context) bool { return true }
func (openaiEmbed) Attempt(_ context.Context, req xfallback.EmbedRequest) (xfallback.EmbedResponse, error) {
	vectors := make([][]float32, len(req.Texts))
	for i := range vectors {
		vectors[i] = []float32{0.1, 0.2}
	}
	return xfallback.EmbedResponse{Vectors: vectors, Provider: "openai"}, nil
}

func Example() {
	// 按优先级排列提供方：本地优先，云端兜底
	mgr, err := xfallback.NewManager(
		[]xfallback.EmbedProvider{ollamaEmbed{}, openaiEmbed{}},
		nil,
	)
	if err != nil {
		fmt.Println("创建管理器失败:", err)
		return
	}

	resp, err := mgr.Embed(context.Background(), xfallback.EmbedRequest{Texts: []string{"hello"}})
	if err != nil {
		fmt.Println("嵌入失败:", err)
		return
	}
	fmt.Println("provider:", resp.Provider)

	// 历史记录了降级轨迹
	for _, a := range mgr.AttemptHistory() {
		fmt.Printf("%s success=%v trigger=%s\n", a.Provider, a.Success, a.Trigger)
	}
	// Output:
	// provider: openai
	// ollama success=false trigger=container_down
	// openai success=true trigger=
}

func Example_exhausted() {
	mgr, err := xfallback.NewManager(
		[]xfallback.EmbedProvider{ollamaEmbed{}},
		nil,
	)
	if err != nil {
		fmt.Println("创建管理器失败:", err)
		return
	}

	_, err = mgr.Embed(context.Background(), xfallback.EmbedRequest{Texts: []string{"x"}})
	fmt.Println("exhausted:", xfallback.IsExhausted(err))
	// Output: exhausted: true
}
