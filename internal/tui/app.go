// Package tui 终端界面：聊天视口加输入区，侧边栏展示能量、连击和任务队列。
// Package tui is the terminal interface: a chat viewport plus input area,
// with a sidebar showing energy, streak and the task queue.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nexus/internal/energy"
	"nexus/internal/i18n"
	"nexus/internal/session"
	"nexus/internal/task"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// --- Tea Messages ---

// ReplyMsg 一轮对话结束 / a conversation turn finished
type ReplyMsg struct {
	Message  task.Message
	Accepted bool
}

// ProactiveMsg 触发产生的主动消息 / proactive message from a trigger
type ProactiveMsg struct{ Message task.Message }

// StepDoneMsg 步骤被勾掉 / a step was checked off
type StepDoneMsg struct {
	Task task.Task
	Step task.MicroStep
}

// clockTickMsg 每分钟刷新能量徽章 / refreshes the energy badge each minute
type clockTickMsg time.Time

// App Bubble Tea 主 Model
// App is the main Bubble Tea model
type App struct {
	// 布局 / Layout
	width  int
	height int

	// 面板 / Panels
	chatView viewport.Model
	input    textarea.Model

	// 会话 / Conversation
	sess     *session.Session
	thinking bool
	now      func() time.Time

	// 配置 / Config
	theme  Theme
	keys   KeyMap
	locale *i18n.I18n
}

// NewApp 创建 TUI 应用
// NewApp creates a new TUI application
func NewApp(sess *session.Session) App {
	ta := textarea.New()
	ta.Placeholder = i18n.T("input.placeholder")
	ta.CharLimit = 4096
	ta.SetHeight(3)
	ta.Focus()

	return App{
		input:  ta,
		sess:   sess,
		now:    time.Now,
		theme:  DarkTheme(),
		keys:   DefaultKeyMap(),
		locale: i18n.Global(),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, clockTick())
}

func clockTick() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "esc":
			a.input.Reset()
			return a, nil
		case "ctrl+n":
			return a, a.completeNextCmd()
		case "enter":
			return a, a.submitCmd()
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.relayout()
		return a, nil

	case ReplyMsg:
		a.thinking = false
		a.refreshChat()
		return a, nil

	case ProactiveMsg:
		a.refreshChat()
		return a, nil

	case StepDoneMsg:
		a.refreshChat()
		return a, nil

	case clockTickMsg:
		// 只为重绘能量徽章 / redraw only, for the energy badge
		return a, clockTick()
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)

	a.chatView, cmd = a.chatView.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

func (a *App) submitCmd() tea.Cmd {
	text := strings.TrimSpace(a.input.Value())
	if text == "" || a.thinking {
		return nil
	}
	a.input.Reset()
	a.thinking = true

	sess := a.sess
	return func() tea.Msg {
		msg, ok := sess.Send(context.Background(), text)
		return ReplyMsg{Message: msg, Accepted: ok}
	}
}

func (a *App) completeNextCmd() tea.Cmd {
	sess := a.sess
	return func() tea.Msg {
		t, step, ok := sess.CompleteNextStep()
		if !ok {
			return StepDoneMsg{}
		}
		return StepDoneMsg{Task: t, Step: step}
	}
}

func (a App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Initializing..."
	}

	sidebarWidth := a.width * 30 / 100
	if sidebarWidth < 24 {
		sidebarWidth = 24
	}
	if sidebarWidth > 44 {
		sidebarWidth = 44
	}
	if a.width < 80 {
		sidebarWidth = 0
	}

	mainWidth := a.width - sidebarWidth
	if sidebarWidth > 0 {
		mainWidth-- // border
	}

	inputHeight := 5
	statusHeight := 1
	panelHeight := a.height - inputHeight - statusHeight
	if panelHeight < 3 {
		panelHeight = 3
	}

	panel := lipgloss.NewStyle().Width(mainWidth).Height(panelHeight).Render(a.chatView.View())
	inputBox := a.theme.InputStyle.Width(mainWidth).Render(a.input.View())
	statusBar := a.renderStatusBar(a.width)

	main := lipgloss.JoinVertical(lipgloss.Left, panel, inputBox)
	if sidebarWidth > 0 {
		sidebar := a.renderSidebar(sidebarWidth, a.height-statusHeight)
		main = lipgloss.JoinHorizontal(lipgloss.Top, main, sidebar)
	}

	return lipgloss.JoinVertical(lipgloss.Left, main, statusBar)
}

// --- 内部方法 / Internal methods ---

func (a *App) relayout() {
	mainWidth := a.width
	panelHeight := a.height - 7
	if panelHeight < 3 {
		panelHeight = 3
	}

	a.chatView = viewport.New(mainWidth, panelHeight)
	a.input.SetWidth(mainWidth - 4)
	a.refreshChat()
}

// refreshChat 从会话历史整体重建聊天面板 / rebuilds the chat panel from the history
func (a *App) refreshChat() {
	width := a.chatView.Width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	for _, msg := range a.sess.Tasks.History() {
		if msg.Role == task.RoleUser {
			b.WriteString(a.theme.UserStyle.Render("👤 "+msg.Content) + "\n\n")
			continue
		}
		b.WriteString(RenderMarkdown(msg.Content, width) + "\n")
		if msg.Task != nil {
			// 卡片内容随存储里的任务状态走 / the card follows live store state
			if live, ok := a.sess.Tasks.FindTask(msg.Task.ID); ok {
				b.WriteString(RenderTaskCard(live, a.theme) + "\n")
			}
		}
		b.WriteString("\n")
	}

	a.chatView.SetContent(b.String())
	a.chatView.GotoBottom()
}

func (a App) renderSidebar(width, height int) string {
	var parts []string

	parts = append(parts, a.theme.TitleStyle.Render(" NEXUS"))
	parts = append(parts, "")

	snap := energy.Estimate(a.sess.Profiles.Profile().PeakEnergy, a.now())
	parts = append(parts, " "+RenderEnergyPill(snap, a.theme))
	parts = append(parts, "")

	prof := a.sess.Profiles.Profile()
	parts = append(parts, a.theme.TitleStyle.Render(" "+a.locale.T("sidebar.streak")))
	parts = append(parts, "  🔥 "+a.locale.T("sidebar.streak_value", prof.CurrentStreak, prof.MaxStreak))
	parts = append(parts, "")

	parts = append(parts, a.theme.TitleStyle.Render(" "+a.locale.T("sidebar.tasks")))
	active := a.sess.Tasks.ActiveTasks()
	if len(active) == 0 {
		parts = append(parts, "  "+a.theme.MutedStyle.Render(a.locale.T("sidebar.none")))
	}
	for _, t := range active {
		done := 0
		for _, step := range t.Steps {
			if step.Completed {
				done++
			}
		}
		parts = append(parts, fmt.Sprintf("  • %s (%d/%d)", t.Title, done, len(t.Steps)))
	}
	parts = append(parts, "")

	if t, step, ok := a.sess.Tasks.NextStep(); ok {
		parts = append(parts, a.theme.TitleStyle.Render(" "+a.locale.T("sidebar.next")))
		parts = append(parts, fmt.Sprintf("  → %s (%s)", step.Text, a.locale.T("card.minutes", step.Minutes)))
		parts = append(parts, "  "+a.theme.MutedStyle.Render(t.Title))
	}

	content := strings.Join(parts, "\n")
	return a.theme.SidebarStyle.Width(width).Height(height).Render(content)
}

func (a App) renderStatusBar(width int) string {
	status := a.locale.T("status.ready")
	if a.thinking {
		status = a.locale.T("status.thinking")
	}

	snap := energy.Estimate(a.sess.Profiles.Profile().PeakEnergy, a.now())
	left := fmt.Sprintf(" %s %d%% · %s", snap.Emoji, snap.Percent, status)
	right := fmt.Sprintf("%s  ", a.sess.UserID)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return a.theme.StatusBarStyle.Width(width).Render(bar)
}

// Run 启动 Bubble Tea TUI
// Run starts the Bubble Tea TUI application
func Run(sess *session.Session) error {
	app := NewApp(sess)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
