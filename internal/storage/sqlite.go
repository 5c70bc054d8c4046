// Package storage 本地持久化。档案、任务和对话镜像到 SQLite，重启后恢复。
// Package storage is local persistence. Profile, tasks and conversation are
// mirrored into SQLite and restored after a restart.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nexus/internal/profile"
	"nexus/internal/task"

	_ "modernc.org/sqlite"
)

// SQLiteStore 基于 SQLite (WAL 模式) 的持久化实现
// SQLiteStore implements persistence using SQLite with WAL mode
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore 创建并初始化 SQLite 数据库
// NewSQLiteStore creates and initializes a SQLite database
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// 启用 WAL 模式和优化 PRAGMA / Enable WAL and performance PRAGMAs
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	store := &SQLiteStore{db: db, path: dbPath}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		user_id    TEXT PRIMARY KEY,
		profile    TEXT NOT NULL DEFAULT '{}',
		onboarded  INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id             TEXT NOT NULL,
		user_id        TEXT NOT NULL,
		title          TEXT NOT NULL,
		steps          TEXT NOT NULL DEFAULT '[]',
		status         TEXT NOT NULL DEFAULT 'pending',
		energy         TEXT NOT NULL DEFAULT 'medium',
		suggested_time TEXT NOT NULL DEFAULT '',
		created_at     TEXT NOT NULL,
		completed_at   TEXT,
		PRIMARY KEY(user_id, id)
	);

	CREATE TABLE IF NOT EXISTS messages (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    TEXT NOT NULL,
		seq        INTEGER NOT NULL,
		msg_id     TEXT NOT NULL DEFAULT '',
		role       TEXT NOT NULL,
		content    TEXT NOT NULL DEFAULT '',
		task_json  TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		UNIQUE(user_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_messages_user ON messages(user_id, seq);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close 关闭数据库连接 / Close the database connection
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// --- Profile Operations ---

func (s *SQLiteStore) SaveProfile(userID string, p profile.Profile, onboarded bool) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("user id is empty")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	now := nowUTC()
	_, err = s.db.Exec(`
		INSERT INTO profiles (user_id, profile, onboarded, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET profile=excluded.profile,
			onboarded=excluded.onboarded, updated_at=excluded.updated_at`,
		userID, string(data), boolToInt(onboarded), now, now)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadProfile(userID string) (profile.Profile, bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return profile.Profile{}, false, fmt.Errorf("user id is empty")
	}
	row := s.db.QueryRow(`SELECT profile, onboarded FROM profiles WHERE user_id=?`, userID)

	var data string
	var onboarded int
	if err := row.Scan(&data, &onboarded); err != nil {
		if err == sql.ErrNoRows {
			return profile.Profile{}, false, ErrNotFound
		}
		return profile.Profile{}, false, fmt.Errorf("load profile: %w", err)
	}

	var p profile.Profile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return profile.Profile{}, false, fmt.Errorf("decode profile: %w", err)
	}
	return p, onboarded != 0, nil
}

// --- Task Operations ---

// SaveTasks 全量替换用户的任务集。镜像写在每次变更后整体进行，单事务保证
// 不会留下半份快照。
// SaveTasks replaces the user's task set wholesale. Mirror writes happen
// after each change as a unit, one transaction so no half snapshot survives.
func (s *SQLiteStore) SaveTasks(userID string, tasks []task.Task) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("user id is empty")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM tasks WHERE user_id=?", userID); err != nil {
		return fmt.Errorf("delete old tasks: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO tasks (id, user_id, title, steps, status, energy, suggested_time, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range tasks {
		stepsJSON := "[]"
		if len(t.Steps) > 0 {
			data, marshalErr := json.Marshal(t.Steps)
			if marshalErr == nil {
				stepsJSON = string(data)
			}
		}
		var completedAt any
		if t.CompletedAt != nil {
			completedAt = t.CompletedAt.UTC().Format(time.RFC3339)
		}
		if _, err := stmt.Exec(t.ID, userID, t.Title, stepsJSON, string(t.Status),
			string(t.Energy), t.SuggestedTime, t.CreatedAt.UTC().Format(time.RFC3339),
			completedAt); err != nil {
			return fmt.Errorf("insert task %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) LoadTasks(userID string) ([]task.Task, error) {
	rows, err := s.db.Query(`
		SELECT id, title, steps, status, energy, suggested_time, created_at, completed_at
		FROM tasks WHERE user_id=? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		var t task.Task
		var stepsJSON, status, energy, createdAt string
		var completedAt sql.NullString
		if err := rows.Scan(&t.ID, &t.Title, &stepsJSON, &status, &energy,
			&t.SuggestedTime, &createdAt, &completedAt); err != nil {
			continue
		}
		if stepsJSON != "" && stepsJSON != "[]" {
			var steps []task.MicroStep
			if err := json.Unmarshal([]byte(stepsJSON), &steps); err == nil {
				t.Steps = steps
			}
		}
		t.Status = task.Status(status)
		t.Energy = task.Energy(energy)
		t.CreatedAt = parseRFC3339(createdAt)
		if completedAt.Valid {
			at := parseRFC3339(completedAt.String)
			t.CompletedAt = &at
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// --- Message Operations ---

func (s *SQLiteStore) SaveMessages(userID string, messages []task.Message) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("user id is empty")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// 清除旧消息 / Clear old messages
	if _, err := tx.Exec("DELETE FROM messages WHERE user_id=?", userID); err != nil {
		return fmt.Errorf("delete old messages: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO messages (user_id, seq, msg_id, role, content, task_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, msg := range messages {
		taskJSON := ""
		if msg.Task != nil {
			data, marshalErr := json.Marshal(msg.Task)
			if marshalErr == nil {
				taskJSON = string(data)
			}
		}
		if _, err := stmt.Exec(userID, i, msg.ID, msg.Role, msg.Content,
			taskJSON, msg.Timestamp.UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("insert message %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) LoadMessages(userID string) ([]task.Message, error) {
	rows, err := s.db.Query(`
		SELECT msg_id, role, content, task_json, created_at
		FROM messages WHERE user_id=? ORDER BY seq`, userID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []task.Message
	for rows.Next() {
		var msg task.Message
		var taskJSON, createdAt string
		if err := rows.Scan(&msg.ID, &msg.Role, &msg.Content, &taskJSON, &createdAt); err != nil {
			continue
		}
		if taskJSON != "" {
			var t task.Task
			if err := json.Unmarshal([]byte(taskJSON), &t); err == nil {
				msg.Task = &t
			}
		}
		msg.Timestamp = parseRFC3339(createdAt)
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// --- Helpers ---

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func parseRFC3339(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
