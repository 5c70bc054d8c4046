package chat

// 对话角色 / Conversation roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message 是发送给补全服务的 OpenAI 兼容消息。
// Message is an OpenAI-compatible chat message sent to the completion service.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request 封装一次补全调用：system 指令加按时间排序的转录。
// Request wraps one completion call: a system instruction plus an ordered transcript.
type Request struct {
	Model     string
	System    string
	Messages  []Message
	MaxTokens int
}

// Response 补全服务的完整响应
// Response is the complete response from the completion service
type Response struct {
	Content      string
	FinishReason string
}
