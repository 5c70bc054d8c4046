package orchestrator

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"nexus/internal/task"
)

// defaultStepMinutes 步骤缺失或非法分钟数时的预算。
const defaultStepMinutes = 10

var fencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// taskCardPayload 助手嵌入回复的宽松 JSON 形状。字段名是服务端约定的
// 葡语线格式（titulo/etapas/texto/minutos），不随 UI 语言变化。
// taskCardPayload is the loose JSON shape the assistant embeds in replies.
// Field names are the service-side Portuguese wire format
// (titulo/etapas/texto/minutos), independent of the UI language.
type taskCardPayload struct {
	TaskCard bool              `json:"task_card"`
	Title    string            `json:"titulo"`
	Steps    []stepCardPayload `json:"etapas"`
}

type stepCardPayload struct {
	Text    string          `json:"texto"`
	Minutes json.RawMessage `json:"minutos"`
}

// ExtractTaskCard 在回复文本中找一个 ```json 围栏块并解析任务卡片。
// 解析要么产出完整的提案，要么什么都不产出：语法错误、缺少 task_card
// 标记或标题的块都被当作不存在，原文原样返回，绝不向用户报错。
// ExtractTaskCard finds one ```json fenced block in the reply text and parses
// a task card. Parsing either yields a well-formed proposal or nothing at
// all: malformed syntax, a missing task_card marker or a missing title all
// count as absent, the raw text is returned unchanged, and no user-visible
// error is ever raised.
func ExtractTaskCard(text string) (string, *task.Proposal) {
	match := fencedJSON.FindStringSubmatch(text)
	if match == nil {
		return text, nil
	}

	var payload taskCardPayload
	if err := json.Unmarshal([]byte(match[1]), &payload); err != nil {
		return text, nil
	}
	if !payload.TaskCard || strings.TrimSpace(payload.Title) == "" || len(payload.Steps) == 0 {
		return text, nil
	}

	steps := make([]task.MicroStep, 0, len(payload.Steps))
	for i, raw := range payload.Steps {
		if strings.TrimSpace(raw.Text) == "" {
			return text, nil
		}
		steps = append(steps, task.MicroStep{
			// id 重新按 1 起始顺序生成，忽略服务端给的任何 id
			// ids are regenerated 1-based, ignoring any the service supplied
			ID:      strconv.Itoa(i + 1),
			Text:    raw.Text,
			Minutes: parseMinutes(raw.Minutes),
		})
	}

	// 只剥掉匹配到的那一个块 / only the matched block is stripped
	cleaned := strings.TrimSpace(strings.Replace(text, match[0], "", 1))
	return cleaned, &task.Proposal{Title: payload.Title, Steps: steps}
}

// parseMinutes 容忍数字、字符串数字和缺失值 / tolerates numbers, numeric strings and absence
func parseMinutes(raw json.RawMessage) int {
	if len(raw) == 0 {
		return defaultStepMinutes
	}
	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		if asNumber > 0 {
			return int(asNumber)
		}
		return defaultStepMinutes
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if n, convErr := strconv.Atoi(strings.TrimSpace(asString)); convErr == nil && n > 0 {
			return n
		}
	}
	return defaultStepMinutes
}
