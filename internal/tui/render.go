package tui

import (
	"fmt"
	"strings"

	"nexus/internal/energy"
	"nexus/internal/i18n"
	"nexus/internal/task"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown 使用 Glamour 渲染 markdown 文本
// RenderMarkdown renders markdown text using Glamour
func RenderMarkdown(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}

	return strings.TrimRight(rendered, "\n")
}

// RenderTaskCard 渲染任务卡片：标题、逐条微步骤、总预算。
// RenderTaskCard renders a task card: title, micro-steps one per line, total
// budget.
func RenderTaskCard(t task.Task, theme Theme) string {
	var b strings.Builder
	b.WriteString(theme.CardTitleStyle.Render(t.Title))

	switch t.Status {
	case task.StatusCompleted:
		b.WriteString(" " + theme.MutedStyle.Render("· "+i18n.T("card.completed")))
	case task.StatusDeferred:
		b.WriteString(" " + theme.MutedStyle.Render("· "+i18n.T("card.deferred")))
	}
	b.WriteString("\n")

	for _, step := range t.Steps {
		line := fmt.Sprintf("%s (%s)", step.Text, i18n.T("card.minutes", step.Minutes))
		if step.Completed {
			b.WriteString("  ✓ " + theme.StepDoneStyle.Render(line))
		} else {
			b.WriteString("  ○ " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString(theme.MutedStyle.Render(i18n.T("card.minutes", t.TotalMinutes())))
	return theme.CardStyle.Render(b.String())
}

// RenderEnergyPill 渲染状态栏的能量徽章 / renders the status-bar energy badge
func RenderEnergyPill(snap energy.Snapshot, theme Theme) string {
	style := theme.EnergyNormal
	switch snap.Level {
	case energy.LevelPeak:
		style = theme.EnergyPeak
	case energy.LevelLow:
		style = theme.EnergyLow
	}

	label := fmt.Sprintf("%s %s %d%%", snap.Emoji, i18n.T(snap.Label), snap.Percent)
	pill := style.Render(label)
	if snap.NextPeak != "" {
		pill += " " + theme.MutedStyle.Render(i18n.T("energy.next_peak", snap.NextPeak))
	}
	return pill
}
