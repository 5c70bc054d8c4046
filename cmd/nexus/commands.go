package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"nexus/internal/config"
	"nexus/internal/energy"
	"nexus/internal/i18n"
	"nexus/internal/notify"
	"nexus/internal/session"
	"nexus/internal/task"
	"nexus/internal/tui"
	"nexus/internal/voice"
)

var replCommands = []string{
	"/tasks              list active tasks and their steps",
	"/next               show the next pending micro-step",
	"/done [task step]   check off the next step, or a specific one",
	"/defer <task>       put a task aside without losing it",
	"/energy             show the current energy estimate",
	"/streak             show streak and last achievement",
	"/profile            show the stored profile",
	"/onboarding         run the intro questions again",
	"/triggers on|off    arm or cancel daily check-in triggers",
	"/voice <file>       transcribe an audio file and send it",
	"/clear              clear the conversation history",
	"/tui                switch to the full-screen interface",
	"/help               show this list",
	"/quit               exit",
}

// printREPLCommands 打印命令清单 / prints the command list
func printREPLCommands(out io.Writer) {
	if out == nil {
		return
	}
	fmt.Fprintln(out, i18n.T("repl.commands"))
	for _, cmd := range replCommands {
		fmt.Fprintf(out, "  %s\n", cmd)
	}
}

// handleCommand 调度一条 "/" 命令。返回 (是否已处理, 是否应退出)。
// handleCommand dispatches one "/" command. Returns (handled, shouldExit).
func handleCommand(input string, sess *session.Session, voiceSess *voice.Session, engine *notify.Engine, reader lineInput, cfg config.Config, out io.Writer) (bool, bool) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return false, false
	}

	switch fields[0] {
	case "/quit", "/exit":
		return true, true

	case "/help":
		printREPLCommands(out)
		return true, false

	case "/tasks":
		active := sess.Tasks.ActiveTasks()
		if len(active) == 0 {
			fmt.Fprintln(out, i18n.T("repl.no_tasks"))
			return true, false
		}
		for _, t := range active {
			printTaskCard(out, t)
		}
		return true, false

	case "/next":
		t, step, ok := sess.Tasks.NextStep()
		if !ok {
			fmt.Fprintln(out, i18n.T("repl.no_next"))
			return true, false
		}
		fmt.Fprintln(out, i18n.T("repl.next_step", step.Text, step.Minutes, t.Title))
		return true, false

	case "/done":
		var (
			t  task.Task
			ok bool
		)
		if len(fields) >= 3 {
			t, ok = sess.CompleteStep(fields[1], fields[2])
		} else {
			t, _, ok = sess.CompleteNextStep()
		}
		if !ok {
			fmt.Fprintln(out, i18n.T("repl.no_next"))
			return true, false
		}
		streak := sess.Profiles.Profile().CurrentStreak
		if t.Status == task.StatusCompleted {
			fmt.Fprintln(out, i18n.T("repl.task_done", t.Title, streak))
		} else {
			fmt.Fprintln(out, i18n.T("repl.step_done", streak))
		}
		printTaskCard(out, t)
		return true, false

	case "/defer":
		if len(fields) < 2 || !sess.DeferTask(fields[1]) {
			fmt.Fprintln(out, i18n.T("repl.unknown_task"))
			return true, false
		}
		fmt.Fprintln(out, i18n.T("repl.task_deferred"))
		return true, false

	case "/energy":
		printStatus(out, sess)
		return true, false

	case "/streak":
		p := sess.Profiles.Profile()
		fmt.Fprintf(out, "%s: %s\n", i18n.T("sidebar.streak"), i18n.T("sidebar.streak_value", p.CurrentStreak, p.MaxStreak))
		if p.LastAchievement != "" {
			fmt.Fprintf(out, "  %s\n", p.LastAchievement)
		}
		return true, false

	case "/profile":
		p := sess.Profiles.Profile()
		fmt.Fprintf(out, "peak: %s  tone: %s  blocks on: %s  notifications: %s\n", p.PeakEnergy, p.Tone, p.BlocksOn, p.Notifications)
		fmt.Fprintf(out, "micro-tasks: %d  completion rate: %.0f%%  difficult days: %d\n", p.TotalMicroTasks, p.CompletionRate*100, len(p.DifficultDays))
		if len(p.ObservedPeaks) > 0 {
			fmt.Fprintf(out, "observed peaks: %s\n", strings.Join(p.ObservedPeaks, ", "))
		}
		return true, false

	case "/onboarding":
		if err := runOnboarding(sess, reader, out); err != nil {
			fmt.Fprintf(out, "onboarding aborted: %v\n", err)
			return true, false
		}
		if cfg.Notifications.Enabled {
			engine.Arm(notify.TriggersForProfile(sess.Profiles.Profile()))
		}
		return true, false

	case "/triggers":
		if len(fields) < 2 {
			fmt.Fprintln(out, "usage: /triggers on|off")
			return true, false
		}
		switch fields[1] {
		case "on":
			armed := engine.Arm(notify.TriggersForProfile(sess.Profiles.Profile()))
			fmt.Fprintln(out, i18n.T("repl.triggers_on", armed))
		case "off":
			engine.CancelAll()
			fmt.Fprintln(out, i18n.T("repl.triggers_off"))
		default:
			fmt.Fprintln(out, "usage: /triggers on|off")
		}
		return true, false

	case "/voice":
		if len(fields) < 2 {
			fmt.Fprintln(out, "usage: /voice <audio-file>")
			return true, false
		}
		text, hint := voiceSess.TranscribeFile(context.Background(), fields[1])
		if hint != "" {
			fmt.Fprintln(out, hint)
		}
		if text == "" {
			return true, false
		}
		fmt.Fprintf(out, "🎤 %s\n", text)
		runTurn(sess, text, out)
		return true, false

	case "/clear":
		sess.ClearHistory()
		fmt.Fprintln(out, i18n.T("repl.cleared"))
		return true, false

	case "/tui":
		if err := tui.Run(sess); err != nil {
			fmt.Fprintf(out, "tui failed: %v\n", err)
		}
		return true, false

	default:
		return false, false
	}
}

// printStatus 打印能量徽章的纯文本版本 / plain-text version of the energy pill
func printStatus(out io.Writer, sess *session.Session) {
	snap := energy.Estimate(sess.Profiles.Profile().PeakEnergy, sess.Now())
	line := fmt.Sprintf("%s %s %d%%", snap.Emoji, i18n.T(snap.Label), snap.Percent)
	if snap.NextPeak != "" {
		line += " · " + i18n.T("energy.next_peak", snap.NextPeak)
	}
	fmt.Fprintln(out, line)
}

// printTaskCard 任务卡片的 REPL 渲染 / REPL rendering of a task card
func printTaskCard(out io.Writer, t task.Task) {
	header := t.Title
	switch t.Status {
	case task.StatusCompleted:
		header += " ✅ " + i18n.T("card.completed")
	case task.StatusDeferred:
		header += " ⏸ " + i18n.T("card.deferred")
	}
	fmt.Fprintf(out, "┌ %s [%s]\n", header, t.ID)
	for _, step := range t.Steps {
		marker := "○"
		if step.Completed {
			marker = "✓"
		}
		fmt.Fprintf(out, "│ %s %s · %s\n", marker, step.Text, i18n.T("card.minutes", step.Minutes))
	}
	fmt.Fprintf(out, "└ %s\n", i18n.T("card.minutes", t.TotalMinutes()))
}
