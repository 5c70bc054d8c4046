package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"nexus/internal/chat"
)

// OpenAIProvider 使用 go-openai SDK 的 Provider 实现，兼容任何 OpenAI 风格端点。
// OpenAIProvider implements Provider with the go-openai SDK; it works against
// any OpenAI-style endpoint.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	cfg    OpenAIConfig
	mu     sync.RWMutex
}

// OpenAIConfig SDK provider 配置
// OpenAIConfig is the SDK provider configuration
type OpenAIConfig struct {
	BaseURL         string
	APIKey          string
	Model           string
	SpeechModel     string
	SpeechVoice     string
	SpeechRate      float64
	TranscribeModel string
	TimeoutMS       int
	MaxRetries      int
}

// NewOpenAIProvider 创建基于 SDK 的 provider
// NewOpenAIProvider creates an SDK-based provider
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if strings.TrimSpace(cfg.BaseURL) != "" {
		config.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	httpClient := &http.Client{}
	if cfg.TimeoutMS > 0 {
		httpClient.Timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	config.HTTPClient = httpClient

	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}
	if cfg.SpeechModel == "" {
		cfg.SpeechModel = string(openai.TTSModel1)
	}
	if cfg.SpeechVoice == "" {
		cfg.SpeechVoice = string(openai.VoiceNova)
	}
	if cfg.SpeechRate <= 0 {
		cfg.SpeechRate = 0.95
	}
	if cfg.TranscribeModel == "" {
		cfg.TranscribeModel = openai.Whisper1
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
		cfg:    cfg,
	}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) CurrentModel() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.model
}

func (p *OpenAIProvider) SetModel(model string) error {
	model = strings.TrimSpace(model)
	if model == "" {
		return fmt.Errorf("model is empty")
	}
	p.mu.Lock()
	p.model = model
	p.mu.Unlock()
	return nil
}

// Chat 发送请求，瞬态失败按指数退避重试。
// Chat sends the request, retrying transient failures with exponential backoff.
func (p *OpenAIProvider) Chat(ctx context.Context, req chat.Request) (chat.Response, error) {
	model := req.Model
	if model == "" {
		model = p.CurrentModel()
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if strings.TrimSpace(req.System) != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	var lastErr error
	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(150*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-ctx.Done():
				return chat.Response{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:     model,
			Messages:  messages,
			MaxTokens: req.MaxTokens,
		})
		if err == nil {
			if len(resp.Choices) == 0 {
				return chat.Response{}, fmt.Errorf("chat response has no choices")
			}
			choice := resp.Choices[0]
			return chat.Response{
				Content:      choice.Message.Content,
				FinishReason: string(choice.FinishReason),
			}, nil
		}
		lastErr = err

		// 不可重试的错误 / Non-retryable errors
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return chat.Response{}, err
		}
		if attempt >= p.cfg.MaxRetries {
			break
		}
	}
	return chat.Response{}, fmt.Errorf("provider chat failed after %d retries: %w", p.cfg.MaxRetries, lastErr)
}

// Transcribe 调用语音转写端点。服务端用哨兵串表示静音，这里归一化为空串。
// Transcribe calls the speech-to-text endpoint. The service marks silence with
// a sentinel string, normalized here to empty.
func (p *OpenAIProvider) Transcribe(ctx context.Context, audioPath string) (string, error) {
	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    p.cfg.TranscribeModel,
		FilePath: audioPath,
	})
	if err != nil {
		return "", fmt.Errorf("transcribe audio: %w", err)
	}
	text := strings.TrimSpace(resp.Text)
	if isSilence(text) {
		return "", nil
	}
	return text, nil
}

// Speak 调用语音合成端点 / Speak calls the text-to-speech endpoint
func (p *OpenAIProvider) Speak(ctx context.Context, text string) (io.ReadCloser, error) {
	resp, err := p.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.SpeechModel(p.cfg.SpeechModel),
		Voice: openai.SpeechVoice(p.cfg.SpeechVoice),
		Input: text,
		Speed: p.cfg.SpeechRate,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}
	return resp, nil
}

func isSilence(text string) bool {
	switch strings.ToLower(text) {
	case "", "[silêncio]", "[silencio]", "[silence]":
		return true
	default:
		return false
	}
}
