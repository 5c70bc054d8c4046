package transcript

import (
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"

	"nexus/internal/chat"
)

// Tokenizer token 计数器，支持 tiktoken 和启发式回退
// Tokenizer provides token counting with tiktoken and a heuristic fallback
type Tokenizer struct {
	encoder  *tiktoken.Tiktoken
	fallback bool
	mu       sync.RWMutex
}

var (
	defaultTokenizer     *Tokenizer
	defaultTokenizerOnce sync.Once
)

// DefaultTokenizer 返回全局默认的 tokenizer 实例
// DefaultTokenizer returns the global default tokenizer instance
func DefaultTokenizer() *Tokenizer {
	defaultTokenizerOnce.Do(func() {
		defaultTokenizer = NewTokenizer("cl100k_base")
	})
	return defaultTokenizer
}

// NewTokenizer 创建 tokenizer，如果 tiktoken 初始化失败则回退到启发式
// NewTokenizer creates a tokenizer, falls back to heuristic if tiktoken init fails
func NewTokenizer(encodingName string) *Tokenizer {
	t := &Tokenizer{}

	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		// 离线环境可能没有 BPE 缓存，回退到启发式
		// Offline environments may lack BPE cache, fallback to heuristic
		t.fallback = true
		return t
	}
	t.encoder = enc
	return t
}

// Count 计算请求（system + 转录）的总 token 数
// Count returns the total token count of a request (system + transcript)
func (t *Tokenizer) Count(system string, messages []chat.Message) int {
	total := t.CountText(system)
	for _, msg := range messages {
		// 每条消息约 4 token 的结构开销 / ~4 tokens structural overhead per message
		total += 4 + t.CountText(msg.Role) + t.CountText(msg.Content)
	}
	return total
}

// CountText 计算单个文本的 token 数
// CountText counts tokens for a single text string
func (t *Tokenizer) CountText(text string) int {
	if text == "" {
		return 0
	}
	if t.fallback {
		return heuristicTokenCount(text)
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.encoder.Encode(text, nil, nil))
}

// IsPrecise 返回是否使用精确计数
// IsPrecise returns whether precise counting is available
func (t *Tokenizer) IsPrecise() bool {
	return !t.fallback
}

// heuristicTokenCount 启发式估算：约 4 个字符一个 token。
// heuristicTokenCount estimates ~4 characters per token.
func heuristicTokenCount(text string) int {
	estimate := len([]rune(text)) / 4
	if estimate < 1 {
		estimate = 1
	}
	return estimate
}
