package storage

import (
	"errors"

	"nexus/internal/profile"
	"nexus/internal/task"
)

// ErrNotFound 记录不存在 / record does not exist
var ErrNotFound = errors.New("storage: not found")

// Store 持久化接口。调用方把它当可选镜像：nil Store 表示纯内存运行。
// Store is the persistence interface. Callers treat it as an optional
// mirror: a nil Store means purely in-memory operation.
type Store interface {
	// Profile 操作 / Profile operations
	SaveProfile(userID string, p profile.Profile, onboarded bool) error
	LoadProfile(userID string) (profile.Profile, bool, error)

	// Task 操作 / Task operations
	SaveTasks(userID string, tasks []task.Task) error
	LoadTasks(userID string) ([]task.Task, error)

	// Message 操作 / Message operations
	SaveMessages(userID string, messages []task.Message) error
	LoadMessages(userID string) ([]task.Message, error)

	// 生命周期 / Lifecycle
	Close() error
}
