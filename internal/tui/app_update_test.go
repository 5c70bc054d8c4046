package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"nexus/internal/chat"
	"nexus/internal/orchestrator"
	"nexus/internal/profile"
	"nexus/internal/session"
	"nexus/internal/task"

	tea "github.com/charmbracelet/bubbletea"
)

type stubProvider struct{ reply string }

func (p *stubProvider) Chat(context.Context, chat.Request) (chat.Response, error) {
	return chat.Response{Content: p.reply, FinishReason: "stop"}, nil
}
func (p *stubProvider) Transcribe(context.Context, string) (string, error) { return "", nil }
func (p *stubProvider) Speak(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("unused")
}
func (p *stubProvider) Name() string         { return "stub" }
func (p *stubProvider) CurrentModel() string { return "stub" }
func (p *stubProvider) SetModel(string) error { return nil }

func newTestApp(reply string) App {
	profiles := profile.NewStore()
	orch := orchestrator.New(&stubProvider{reply: reply}, profiles, orchestrator.Options{LogOut: io.Discard})
	sess := session.New("u1", task.NewStore(), profiles, orch, session.Options{LogOut: io.Discard})

	app := NewApp(sess)
	app.width, app.height = 100, 30
	app.relayout()
	return app
}

func TestSubmitRoundTrip(t *testing.T) {
	app := newTestApp("Bora!")
	app.input.SetValue("me ajuda")

	m, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	updated := m.(App)
	if !updated.thinking {
		t.Fatal("expected thinking after submit")
	}
	if cmd == nil {
		t.Fatal("expected a command")
	}

	msg := cmd()
	reply, ok := msg.(ReplyMsg)
	if !ok {
		t.Fatalf("msg = %T", msg)
	}
	if !reply.Accepted || reply.Message.Content != "Bora!" {
		t.Fatalf("reply = %+v", reply)
	}

	m, _ = updated.Update(reply)
	updated = m.(App)
	if updated.thinking {
		t.Fatal("still thinking after reply")
	}
	if len(updated.sess.Tasks.History()) != 2 {
		t.Fatalf("history = %d", len(updated.sess.Tasks.History()))
	}
}

func TestSubmitIgnoredWhileThinking(t *testing.T) {
	app := newTestApp("ok")
	app.thinking = true
	app.input.SetValue("segunda mensagem")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("submit accepted while a turn was in flight")
	}
}

func TestSubmitIgnoresBlankInput(t *testing.T) {
	app := newTestApp("ok")
	app.input.SetValue("   ")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("blank input produced a command")
	}
}

func TestEscClearsInput(t *testing.T) {
	app := newTestApp("ok")
	app.input.SetValue("rascunho")

	m, _ := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	updated := m.(App)
	if updated.input.Value() != "" {
		t.Fatalf("input = %q", updated.input.Value())
	}
}

func TestCompleteNextKeyChecksStepOff(t *testing.T) {
	app := newTestApp("ok")
	app.sess.Tasks.AddTask("A", []task.MicroStep{{ID: "1", Text: "a1", Minutes: 5}},
		task.StatusPending, task.EnergyLow, "")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	done, ok := msg.(StepDoneMsg)
	if !ok {
		t.Fatalf("msg = %T", msg)
	}
	if done.Step.ID != "1" || done.Task.Status != task.StatusCompleted {
		t.Fatalf("done = %+v", done)
	}
}

func TestSidebarShowsQueue(t *testing.T) {
	app := newTestApp("ok")
	app.sess.Tasks.AddTask("Lavar louça", []task.MicroStep{
		{ID: "1", Text: "Juntar pratos", Minutes: 3, Completed: true},
		{ID: "2", Text: "Lavar", Minutes: 7},
	}, task.StatusInProgress, task.EnergyMedium, "")

	sidebar := app.renderSidebar(40, 28)
	if !strings.Contains(sidebar, "Lavar louça") {
		t.Fatalf("sidebar missing task: %q", sidebar)
	}
	if !strings.Contains(sidebar, "1/2") {
		t.Fatalf("sidebar missing progress: %q", sidebar)
	}
	if !strings.Contains(sidebar, "Lavar") {
		t.Fatalf("sidebar missing next step: %q", sidebar)
	}
}
