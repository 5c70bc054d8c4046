package task

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store 持有任务集合与聊天历史，是两者的唯一写入方。
// 显式构造、按需注入，而不是包级全局状态，便于按测试隔离实例。
// Store owns the task collection and the chat history as their single writer.
// It is explicitly constructed and injected, not package-level state, so tests
// get isolated instances.
type Store struct {
	mu      sync.RWMutex
	tasks   []Task
	history []Message
	loading bool
	now     func() time.Time
	newID   func() string
}

func NewStore() *Store {
	return &Store{
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// AddTask 分配新 id 和创建时间戳，追加到任务集合并返回副本。
// AddTask assigns a fresh id and creation timestamp, appends the task and returns a copy.
func (s *Store) AddTask(title string, steps []MicroStep, status Status, energy Energy, suggestedTime string) Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !status.IsValid() {
		status = StatusPending
	}
	if !energy.IsValid() {
		energy = EnergyMedium
	}
	t := Task{
		ID:            s.newID(),
		Title:         title,
		Steps:         append([]MicroStep(nil), steps...),
		Status:        status,
		Energy:        energy,
		CreatedAt:     s.now(),
		SuggestedTime: suggestedTime,
	}
	s.tasks = append(s.tasks, t)
	return cloneTask(t)
}

// CompleteStep 标记步骤完成并重算任务状态。未知的任务或步骤 id 静默忽略，
// 调用方不依赖失败信号。重复完成同一步骤只会刷新其时间戳。
// CompleteStep marks a step completed and recomputes task status. Unknown task
// or step ids are silently ignored; call sites assume no failure signal.
// Completing an already-completed step only refreshes its timestamp.
func (s *Store) CompleteStep(taskID, stepID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for ti := range s.tasks {
		t := &s.tasks[ti]
		if t.ID != taskID {
			continue
		}
		for si := range t.Steps {
			if t.Steps[si].ID != stepID {
				continue
			}
			now := s.now()
			t.Steps[si].Completed = true
			t.Steps[si].CompletedAt = &now

			allDone := true
			for _, step := range t.Steps {
				if !step.Completed {
					allDone = false
					break
				}
			}
			if allDone {
				t.Status = StatusCompleted
				// CompletedAt 只设置一次，永不清除 / set exactly once, never cleared
				if t.CompletedAt == nil {
					done := s.now()
					t.CompletedAt = &done
				}
			} else {
				t.Status = StatusInProgress
			}
			return
		}
		return
	}
}

// DeferTask 将任务标记为推迟，不清除已完成的步骤。
// DeferTask marks a task deferred without clearing step completion.
func (s *Store) DeferTask(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			s.tasks[i].Status = StatusDeferred
			return
		}
	}
}

// AddMessage 追加一条消息（仅追加，顺序保持插入序）。
// AddMessage appends one message (append-only, insertion order preserved).
func (s *Store) AddMessage(role, content string, attached *Task) Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := Message{
		ID:        s.newID(),
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
	}
	if attached != nil {
		copied := cloneTask(*attached)
		msg.Task = &copied
	}
	s.history = append(s.history, msg)
	return msg
}

// SetLoading 切换 UI 消费的瞬态标志，对任务和消息无副作用。
// SetLoading toggles the transient flag consumed by the UI.
func (s *Store) SetLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// ClearHistory 仅清空消息集合，任务不受影响。
// ClearHistory empties the message collection only; tasks are unaffected.
func (s *Store) ClearHistory() {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()
}

// ActiveTasks 返回所有未完成的任务，按集合顺序。推迟的任务仍然算作活跃，
// 与 NextStep 的扫描口径保持一致。
// ActiveTasks returns all tasks with status != completed, in collection order.
// Deferred tasks still count as active, matching NextStep's scan.
func (s *Store) ActiveTasks() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Task
	for _, t := range s.tasks {
		if t.Status != StatusCompleted {
			out = append(out, cloneTask(t))
		}
	}
	return out
}

// NextStep 按插入顺序扫描活跃任务，返回第一个未完成的步骤。
// NextStep scans active tasks in insertion order and returns the first
// incomplete step found, or ok=false when none exists.
func (s *Store) NextStep() (Task, MicroStep, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tasks {
		if t.Status == StatusCompleted {
			continue
		}
		if step, ok := t.ActiveStep(); ok {
			return cloneTask(t), step, true
		}
	}
	return Task{}, MicroStep{}, false
}

// Tasks 返回任务集合的副本 / Tasks returns a copy of the task collection
func (s *Store) Tasks() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, cloneTask(t))
	}
	return out
}

// History 返回消息历史的副本 / History returns a copy of the message history
func (s *Store) History() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Message(nil), s.history...)
}

// FindTask 按 id 查找任务 / FindTask looks a task up by id
func (s *Store) FindTask(taskID string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tasks {
		if t.ID == taskID {
			return cloneTask(t), true
		}
	}
	return Task{}, false
}

// LoadHistory 用持久化镜像中的消息替换历史（启动时调用一次）。
// LoadHistory replaces the history with messages from the persistence mirror
// (called once at startup).
func (s *Store) LoadHistory(messages []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Task != nil {
			copied := cloneTask(*m.Task)
			m.Task = &copied
		}
		s.history = append(s.history, m)
	}
}

// LoadTasks 用持久化镜像中的任务替换集合（启动时调用一次）。
// LoadTasks replaces the collection with tasks from the persistence mirror
// (called once at startup).
func (s *Store) LoadTasks(tasks []Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make([]Task, 0, len(tasks))
	for _, t := range tasks {
		s.tasks = append(s.tasks, cloneTask(t))
	}
}

func cloneTask(t Task) Task {
	out := t
	out.Steps = append([]MicroStep(nil), t.Steps...)
	return out
}
