// Package transcript 将存储中的聊天历史映射为补全服务的转录窗口。
// Package transcript maps stored chat history into the bounded transcript
// window sent to the completion service.
package transcript

import (
	"nexus/internal/chat"
	"nexus/internal/task"
)

// DefaultWindow 每次请求携带的末尾消息条数。
// DefaultWindow is the number of trailing messages each request carries.
const DefaultWindow = 10

// Window 取末尾 n 条历史消息并映射为双角色转录，窗口外的旧消息被丢弃，
// 窗口内保持从旧到新的顺序。
// Window takes the trailing n history messages mapped to a two-role
// transcript; older messages are dropped, oldest-first order is preserved
// within the window.
func Window(history []task.Message, n int) []chat.Message {
	if n <= 0 {
		n = DefaultWindow
	}
	if len(history) > n {
		history = history[len(history)-n:]
	}

	out := make([]chat.Message, 0, len(history))
	for _, msg := range history {
		role := chat.RoleAssistant
		if msg.Role == task.RoleUser {
			role = chat.RoleUser
		}
		out = append(out, chat.Message{Role: role, Content: msg.Content})
	}
	return out
}
