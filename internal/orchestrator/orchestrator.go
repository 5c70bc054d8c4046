// Package orchestrator 调度与补全服务的单次请求/响应循环。
// Package orchestrator mediates single request/response cycles with the
// completion service.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"nexus/internal/chat"
	"nexus/internal/i18n"
	"nexus/internal/profile"
	"nexus/internal/prompt"
	"nexus/internal/provider"
	"nexus/internal/task"
	"nexus/internal/transcript"
)

const (
	replyMaxTokens   = 1024
	triggerMaxTokens = 150
)

// Reply 一轮对话的结果。Proposal 为 nil 表示回复里没有任务卡片。
// Reply is the outcome of one turn. A nil Proposal means the reply carried no
// task card.
type Reply struct {
	Text     string
	Proposal *task.Proposal
}

// Orchestrator 每个会话一个实例。busy 标志保证同一会话至多一个在途请求：
// 请求挂起期间的新提交被拒绝（不排队），没有取消原语——在途调用跑到成功或失败为止。
// Orchestrator is per conversation. The busy flag guarantees at most one
// outstanding request per conversation: submissions during flight are
// rejected (not queued), and there is no cancel primitive: an in-flight call
// runs to completion or failure.
type Orchestrator struct {
	provider provider.Provider
	profiles *profile.Store
	window   int
	now      func() time.Time
	logOut   io.Writer

	mu   sync.Mutex
	busy bool
}

// Options 编排器选项 / Orchestrator options
type Options struct {
	Window int       // 转录窗口长度，默认 transcript.DefaultWindow
	Now    func() time.Time
	LogOut io.Writer // 传输层错误写到这里，默认 stderr
}

func New(p provider.Provider, profiles *profile.Store, opts Options) *Orchestrator {
	window := opts.Window
	if window <= 0 {
		window = transcript.DefaultWindow
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logOut := opts.LogOut
	if logOut == nil {
		logOut = os.Stderr
	}
	return &Orchestrator{
		provider: p,
		profiles: profiles,
		window:   window,
		now:      now,
		logOut:   logOut,
	}
}

// Busy 是否有在途请求 / Busy reports whether a request is in flight
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.busy
}

// tryAcquire 单飞闸门 / single-flight gate
func (o *Orchestrator) tryAcquire() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busy {
		return false
	}
	o.busy = true
	return true
}

func (o *Orchestrator) release() {
	o.mu.Lock()
	o.busy = false
	o.mu.Unlock()
}

// Send 执行一轮对话。空白输入或重复的在途提交返回 ok=false（静默拒绝，
// 无用户可见错误）。传输层失败降级为固定的道歉文案；底层错误只记日志。
// 本函数不写任何存储——产生的消息和任务由调用方落库。
// Send runs one conversation turn. Blank input or a duplicate in-flight
// submission returns ok=false (silently rejected, no user-visible error).
// Transport failures degrade to the fixed apology text; the underlying error
// is only logged. Send has no store side effects; the caller persists the
// resulting message and any created task.
func (o *Orchestrator) Send(ctx context.Context, text string, history []task.Message) (Reply, bool) {
	if strings.TrimSpace(text) == "" {
		return Reply{}, false
	}
	if !o.tryAcquire() {
		return Reply{}, false
	}
	defer o.release()

	messages := transcript.Window(history, o.window)
	messages = append(messages, chat.Message{Role: chat.RoleUser, Content: text})

	system := prompt.System(o.profiles.Profile(), o.now())
	fmt.Fprintf(o.logOut, "sending turn: %d messages, ~%d tokens\n",
		len(messages), transcript.DefaultTokenizer().Count(system, messages))

	resp, err := o.provider.Chat(ctx, chat.Request{
		System:    system,
		Messages:  messages,
		MaxTokens: replyMaxTokens,
	})
	if err != nil {
		fmt.Fprintf(o.logOut, "completion call failed: %v\n", err)
		return Reply{Text: i18n.T("chat.fallback")}, true
	}

	cleaned, proposal := ExtractTaskCard(resp.Content)
	return Reply{Text: cleaned, Proposal: proposal}, true
}

// ProactiveMessage 生成一条主动触发消息（通知场景）。与 Send 共享单飞闸门，
// 避免和用户轮次的在途请求重叠。
// ProactiveMessage generates one proactive trigger message (notification
// path). It shares the single-flight gate with Send so it never overlaps an
// in-flight user turn.
func (o *Orchestrator) ProactiveMessage(ctx context.Context, next *prompt.NextStepContext) (string, bool) {
	if !o.tryAcquire() {
		return "", false
	}
	defer o.release()

	resp, err := o.provider.Chat(ctx, chat.Request{
		Messages: []chat.Message{{
			Role:    chat.RoleUser,
			Content: prompt.Trigger(o.profiles.Profile(), o.now(), next),
		}},
		MaxTokens: triggerMaxTokens,
	})
	if err != nil {
		fmt.Fprintf(o.logOut, "trigger call failed: %v\n", err)
		return "", false
	}
	return strings.TrimSpace(resp.Content), true
}
