package provider

import (
	"context"
	"io"

	"nexus/internal/chat"
)

// Provider 模型提供方接口，面向未来多 provider 扩展
// Provider is the model backend interface, designed for future multi-provider extensibility
type Provider interface {
	// Chat 发送一次补全请求并返回完整响应
	// Chat sends one completion request and returns the complete response
	Chat(ctx context.Context, req chat.Request) (chat.Response, error)

	// Transcribe 将录音文件转写为纯文本；空串表示静音。
	// Transcribe converts a recorded audio file to plain text; empty means silence.
	Transcribe(ctx context.Context, audioPath string) (string, error)

	// Speak 合成语音，返回音频流（调用方负责播放和关闭）。
	// Speak synthesizes speech and returns the audio stream (caller plays and closes).
	Speak(ctx context.Context, text string) (io.ReadCloser, error)

	// Name 返回 provider 名称
	// Name returns the provider name
	Name() string

	// CurrentModel 返回当前活跃模型
	// CurrentModel returns the current active model
	CurrentModel() string

	// SetModel 切换活跃模型
	// SetModel switches the active model
	SetModel(model string) error
}
