package task

import "time"

// 消息角色 / Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message 一条聊天消息，可附带同一轮创建的任务卡片。
// Message is one chat message, optionally carrying the task card created in the same turn.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" | "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	// Task 引用本轮创建的任务，仅用于渲染；任务的生命周期由任务集合管理。
	// Task references the task created in this turn, for rendering only;
	// the task collection owns the task's lifecycle.
	Task *Task `json:"task,omitempty"`
}

// Proposal 从助手回复中解析出的结构化任务建议。
// Proposal is a structured task suggestion parsed out of an assistant reply.
// A validating parse either yields a well-formed proposal or none at all.
type Proposal struct {
	Title string
	Steps []MicroStep
}
