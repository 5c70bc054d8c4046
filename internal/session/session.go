// Package session 把任务存储、档案、编排器和持久化镜像拼成一个会话。
// REPL 和 TUI 都驱动同一个 Session，档案记账和落库只发生在这里。
// Package session wires the task store, profile, orchestrator and
// persistence mirror into one conversation. Both the REPL and the TUI drive
// the same Session; profile bookkeeping and mirroring happen only here.
package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"nexus/internal/i18n"
	"nexus/internal/orchestrator"
	"nexus/internal/profile"
	"nexus/internal/prompt"
	"nexus/internal/storage"
	"nexus/internal/task"
)

// Session 单用户会话 / single-user conversation
type Session struct {
	UserID   string
	Tasks    *task.Store
	Profiles *profile.Store
	Orch     *orchestrator.Orchestrator

	mirror storage.Store
	now    func() time.Time
	logOut io.Writer
}

type Options struct {
	Mirror storage.Store
	Now    func() time.Time
	LogOut io.Writer
}

func New(userID string, tasks *task.Store, profiles *profile.Store, orch *orchestrator.Orchestrator, opts Options) *Session {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logOut := opts.LogOut
	if logOut == nil {
		logOut = os.Stderr
	}
	return &Session{
		UserID:   userID,
		Tasks:    tasks,
		Profiles: profiles,
		Orch:     orch,
		mirror:   opts.Mirror,
		now:      now,
		logOut:   logOut,
	}
}

// Now 会话时钟 / the session clock
func (s *Session) Now() time.Time {
	return s.now()
}

// Restore 从镜像恢复档案、任务和历史。镜像缺项不算错误。
// Restore rehydrates profile, tasks and history from the mirror. Missing
// rows are not errors.
func (s *Session) Restore() {
	if s.mirror == nil {
		return
	}
	if p, onboarded, err := s.mirror.LoadProfile(s.UserID); err == nil {
		s.Profiles.Load(p)
		if onboarded {
			s.Profiles.CompleteOnboarding()
		}
	} else if err != storage.ErrNotFound {
		fmt.Fprintf(s.logOut, "restore profile: %v\n", err)
	}
	if tasks, err := s.mirror.LoadTasks(s.UserID); err == nil {
		s.Tasks.LoadTasks(tasks)
	} else {
		fmt.Fprintf(s.logOut, "restore tasks: %v\n", err)
	}
	if messages, err := s.mirror.LoadMessages(s.UserID); err == nil {
		s.Tasks.LoadHistory(messages)
	} else {
		fmt.Fprintf(s.logOut, "restore messages: %v\n", err)
	}
}

// Send 执行一轮对话并落库：用户消息入历史，编排器产出的回复入历史，
// 卡片提案转成真实任务并挂在助手消息上。返回助手消息，ok=false 表示
// 输入被拒（空白或在途）。
// Send runs one conversation turn and persists it: the user message joins
// the history, the orchestrated reply joins the history, and a card proposal
// becomes a real task attached to the assistant message. It returns the
// assistant message; ok=false means the input was rejected (blank or a turn
// already in flight).
func (s *Session) Send(ctx context.Context, text string) (task.Message, bool) {
	if s.Orch.Busy() {
		return task.Message{}, false
	}

	history := s.Tasks.History()
	s.Tasks.SetLoading(true)
	defer s.Tasks.SetLoading(false)

	reply, ok := s.Orch.Send(ctx, text, history)
	if !ok {
		return task.Message{}, false
	}

	// 上一条是助手消息时，二者的间隔进入平均响应时间。
	// When the previous entry is an assistant message, the gap between the
	// two feeds the average response time.
	if len(history) > 0 {
		if last := history[len(history)-1]; last.Role == task.RoleAssistant {
			if gap := s.now().Sub(last.Timestamp).Minutes(); gap > 0 {
				s.Profiles.RecordResponseMinutes(gap)
			}
		}
	}

	s.Tasks.AddMessage(task.RoleUser, text, nil)

	var attached *task.Task
	if reply.Proposal != nil {
		created := s.Tasks.AddTask(reply.Proposal.Title, reply.Proposal.Steps,
			task.StatusPending, task.EnergyMedium, "")
		attached = &created
	}
	msg := s.Tasks.AddMessage(task.RoleAssistant, reply.Text, attached)

	s.persist()
	return msg, true
}

// CompleteStep 勾掉一个步骤并记账：总微任务数、观察到的完成时刻，任务
// 整体完成时加连击并记录结局。未知 id 与存储层一样静默。
// CompleteStep checks a step off and does the bookkeeping: micro-task total,
// observed completion time, and on whole-task completion the streak bump and
// outcome record. Unknown ids stay silent, like the store itself.
func (s *Session) CompleteStep(taskID, stepID string) (task.Task, bool) {
	before, found := s.Tasks.FindTask(taskID)
	if !found {
		return task.Task{}, false
	}
	wasCompleted := before.Status == task.StatusCompleted

	s.Tasks.CompleteStep(taskID, stepID)

	after, found := s.Tasks.FindTask(taskID)
	if !found {
		return task.Task{}, false
	}

	// 只有 未完成→完成 的跃迁才记账，重复勾选是幂等空转。
	// Only the incomplete-to-complete transition counts; re-checking a step
	// is an idempotent no-op.
	stepBefore, hadStep := findStep(before, stepID)
	if step, ok := findStep(after, stepID); ok && step.Completed && (!hadStep || !stepBefore.Completed) {
		s.Profiles.RecordAchievement(step.Text)
		s.Profiles.ObservePeak(s.now().Format("15:04"))
	}
	if !wasCompleted && after.Status == task.StatusCompleted {
		s.Profiles.IncrementStreak()
		s.Profiles.RecordTaskOutcome(true)
	}

	s.persist()
	return after, true
}

// CompleteNextStep 勾掉全局队列里的下一个步骤。
// CompleteNextStep checks off the next step in the global queue.
func (s *Session) CompleteNextStep() (task.Task, task.MicroStep, bool) {
	t, step, ok := s.Tasks.NextStep()
	if !ok {
		return task.Task{}, task.MicroStep{}, false
	}
	after, _ := s.CompleteStep(t.ID, step.ID)
	return after, step, true
}

// DeferTask 推迟任务并记一次未完成结局。
// DeferTask defers a task and records an incomplete outcome.
func (s *Session) DeferTask(taskID string) bool {
	if _, found := s.Tasks.FindTask(taskID); !found {
		return false
	}
	s.Tasks.DeferTask(taskID)
	s.Profiles.RecordTaskOutcome(false)
	s.persist()
	return true
}

// ClearHistory 清空对话，任务保留。
// ClearHistory wipes the conversation; tasks stay.
func (s *Session) ClearHistory() {
	s.Tasks.ClearHistory()
	s.persist()
}

// ApplyProfile 应用档案更新并落库 / applies a profile update and persists
func (s *Session) ApplyProfile(u profile.Update) {
	s.Profiles.Apply(u)
	s.persist()
}

// FinishOnboarding 标记 onboarding 完成并落库。
// FinishOnboarding marks onboarding done and persists.
func (s *Session) FinishOnboarding() {
	s.Profiles.CompleteOnboarding()
	s.persist()
}

// ProactiveMessage 生成一条主动消息并入历史。
// ProactiveMessage generates a proactive message and adds it to the history.
func (s *Session) ProactiveMessage(ctx context.Context) (task.Message, bool) {
	var next *prompt.NextStepContext
	if t, step, ok := s.Tasks.NextStep(); ok {
		next = &prompt.NextStepContext{TaskTitle: t.Title, StepText: step.Text, Minutes: step.Minutes}
	}

	text, ok := s.Orch.ProactiveMessage(ctx, next)
	if !ok || text == "" {
		return task.Message{}, false
	}
	msg := s.Tasks.AddMessage(task.RoleAssistant, text, nil)
	s.persist()
	return msg, true
}

// Fallback 固定的道歉文案 / the fixed apology copy
func (s *Session) Fallback() string {
	return i18n.T("chat.fallback")
}

// persist 尽力而为的镜像写入：失败只记日志，内存状态仍是事实来源。
// persist is a best-effort mirror write: failures are only logged, memory
// stays the source of truth.
func (s *Session) persist() {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.SaveProfile(s.UserID, s.Profiles.Profile(), s.Profiles.OnboardingDone()); err != nil {
		fmt.Fprintf(s.logOut, "mirror profile: %v\n", err)
	}
	if err := s.mirror.SaveTasks(s.UserID, s.Tasks.Tasks()); err != nil {
		fmt.Fprintf(s.logOut, "mirror tasks: %v\n", err)
	}
	if err := s.mirror.SaveMessages(s.UserID, s.Tasks.History()); err != nil {
		fmt.Fprintf(s.logOut, "mirror messages: %v\n", err)
	}
}

func findStep(t task.Task, stepID string) (task.MicroStep, bool) {
	for _, step := range t.Steps {
		if step.ID == stepID {
			return step, true
		}
	}
	return task.MicroStep{}, false
}
