package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidStatus = errors.New("task: invalid status")
	ErrInvalidEnergy = errors.New("task: invalid energy")
)

// Status 任务生命周期状态
// Status is the task lifecycle state
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusDeferred   Status = "deferred"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusDeferred:
		return true
	default:
		return false
	}
}

// Energy 完成任务所需的精力档位
// Energy is the energy level a task demands
type Energy string

const (
	EnergyLow    Energy = "low"
	EnergyMedium Energy = "medium"
	EnergyHigh   Energy = "high"
)

func (e Energy) IsValid() bool {
	switch e {
	case EnergyLow, EnergyMedium, EnergyHigh:
		return true
	default:
		return false
	}
}

// MicroStep 微步骤：进度的原子单位，时间预算不超过 15 分钟。
// MicroStep is the atomic unit of progress, budgeted at 15 minutes or less.
type MicroStep struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Minutes     int        `json:"minutes"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Task 带有序微步骤的任务。步骤按插入顺序执行。
// Task holds an ordered sequence of micro-steps; insertion order is execution order.
type Task struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Steps         []MicroStep `json:"steps"`
	Status        Status      `json:"status"`
	Energy        Energy      `json:"energy"`
	CreatedAt     time.Time   `json:"created_at"`
	CompletedAt   *time.Time  `json:"completed_at,omitempty"`
	SuggestedTime string      `json:"suggested_time,omitempty"`
}

// Validate 校验任务不变量 / Validate checks task invariants
func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("task: id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("task: title is required")
	}
	if len(t.Steps) == 0 {
		return errors.New("task: at least one step is required")
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if !t.Energy.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidEnergy, t.Energy)
	}
	for i, step := range t.Steps {
		if step.Minutes <= 0 {
			return fmt.Errorf("task: step %d has non-positive minutes", i+1)
		}
	}
	allDone := true
	for _, step := range t.Steps {
		if !step.Completed {
			allDone = false
			break
		}
	}
	if allDone != (t.Status == StatusCompleted) && t.Status != StatusDeferred {
		return errors.New("task: status completed must match step completion")
	}
	return nil
}

// ActiveStep 返回第一个未完成的步骤；步骤必须严格按顺序完成。
// ActiveStep returns the first incomplete step; steps complete strictly in sequence.
func (t Task) ActiveStep() (MicroStep, bool) {
	for _, step := range t.Steps {
		if !step.Completed {
			return step, true
		}
	}
	return MicroStep{}, false
}

// TotalMinutes 所有步骤的分钟预算之和 / Sum of all step minute budgets
func (t Task) TotalMinutes() int {
	total := 0
	for _, step := range t.Steps {
		total += step.Minutes
	}
	return total
}
