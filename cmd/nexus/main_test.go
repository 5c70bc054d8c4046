package main

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"nexus/internal/chat"
	"nexus/internal/config"
	"nexus/internal/i18n"
	"nexus/internal/notify"
	"nexus/internal/orchestrator"
	"nexus/internal/profile"
	"nexus/internal/session"
	"nexus/internal/task"
	"nexus/internal/voice"
)

type stubProvider struct {
	reply      string
	transcript string
}

func (p *stubProvider) Chat(context.Context, chat.Request) (chat.Response, error) {
	return chat.Response{Content: p.reply, FinishReason: "stop"}, nil
}
func (p *stubProvider) Transcribe(context.Context, string) (string, error) {
	return p.transcript, nil
}
func (p *stubProvider) Speak(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("unused")
}
func (p *stubProvider) Name() string         { return "stub" }
func (p *stubProvider) CurrentModel() string { return "stub" }
func (p *stubProvider) SetModel(string) error { return nil }

// scriptedInput 按固定顺序回放行，耗尽后返回 EOF。
// scriptedInput replays lines in order and returns EOF when exhausted.
type scriptedInput struct {
	lines []string
}

func (s *scriptedInput) ReadLine(string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptedInput) Close() error { return nil }

func newTestSession(p *stubProvider) *session.Session {
	i18n.Init("en")
	profiles := profile.NewStore()
	orch := orchestrator.New(p, profiles, orchestrator.Options{LogOut: io.Discard})
	return session.New("u1", task.NewStore(), profiles, orch, session.Options{LogOut: io.Discard})
}

func runCommand(t *testing.T, sess *session.Session, input string, reader lineInput) (string, bool, bool) {
	t.Helper()
	if reader == nil {
		reader = &scriptedInput{}
	}
	var out strings.Builder
	p := &stubProvider{}
	engine := notify.NewEngine(4)
	defer engine.Stop()
	handled, exit := handleCommand(input, sess, voice.NewSession(p, nil, nil), engine, reader, config.Default(), &out)
	return out.String(), handled, exit
}

func TestHandleCommandUnknownFallsThrough(t *testing.T) {
	sess := newTestSession(&stubProvider{})
	_, handled, _ := runCommand(t, sess, "/frobnicate", nil)
	if handled {
		t.Fatal("unknown command should fall through to chat")
	}
}

func TestHandleCommandQuit(t *testing.T) {
	sess := newTestSession(&stubProvider{})
	for _, cmd := range []string{"/quit", "/exit"} {
		_, handled, exit := runCommand(t, sess, cmd, nil)
		if !handled || !exit {
			t.Fatalf("%s: handled=%v exit=%v", cmd, handled, exit)
		}
	}
}

func TestHandleCommandHelpListsCommands(t *testing.T) {
	sess := newTestSession(&stubProvider{})
	out, handled, _ := runCommand(t, sess, "/help", nil)
	if !handled {
		t.Fatal("not handled")
	}
	if !strings.Contains(out, "commands:") {
		t.Fatalf("header missing: %q", out)
	}
	for _, want := range []string{"/tasks", "/done", "/triggers", "/quit"} {
		if !strings.Contains(out, want) {
			t.Fatalf("%s missing from help: %q", want, out)
		}
	}
}

func TestHandleCommandTasksEmpty(t *testing.T) {
	sess := newTestSession(&stubProvider{})
	out, handled, _ := runCommand(t, sess, "/tasks", nil)
	if !handled {
		t.Fatal("not handled")
	}
	if !strings.Contains(out, "No tasks yet") {
		t.Fatalf("output = %q", out)
	}
}

func TestHandleCommandDoneWalksSteps(t *testing.T) {
	sess := newTestSession(&stubProvider{})
	created := sess.Tasks.AddTask("Pagar contas", []task.MicroStep{
		{ID: "1", Text: "Abrir o app do banco", Minutes: 2},
		{ID: "2", Text: "Pagar a primeira conta", Minutes: 5},
	}, task.StatusPending, task.EnergyMedium, "")

	out, _, _ := runCommand(t, sess, "/done", nil)
	if !strings.Contains(out, "Step checked off") {
		t.Fatalf("first /done output = %q", out)
	}

	out, _, _ = runCommand(t, sess, "/done", nil)
	if !strings.Contains(out, "completed") {
		t.Fatalf("second /done output = %q", out)
	}
	got, _ := sess.Tasks.FindTask(created.ID)
	if got.Status != task.StatusCompleted {
		t.Fatalf("status = %s", got.Status)
	}
	if sess.Profiles.Profile().CurrentStreak != 1 {
		t.Fatalf("streak = %d", sess.Profiles.Profile().CurrentStreak)
	}

	out, _, _ = runCommand(t, sess, "/done", nil)
	if !strings.Contains(out, "Nothing queued") {
		t.Fatalf("exhausted /done output = %q", out)
	}
}

func TestHandleCommandProfileSummary(t *testing.T) {
	sess := newTestSession(&stubProvider{})
	sess.Profiles.Load(profile.Profile{
		PeakEnergy:    profile.PeakMorning,
		Tone:          profile.ToneFriendly,
		BlocksOn:      "emails",
		DifficultDays: []string{"2025-03-07", "2025-03-08"},
	})

	out, _, _ := runCommand(t, sess, "/profile", nil)
	if !strings.Contains(out, "difficult days: 2") {
		t.Fatalf("difficult days not rendered as a count: %q", out)
	}
	if !strings.Contains(out, "peak: "+string(profile.PeakMorning)) {
		t.Fatalf("peak missing: %q", out)
	}
}

func TestHandleCommandDeferUnknownTask(t *testing.T) {
	sess := newTestSession(&stubProvider{})
	out, _, _ := runCommand(t, sess, "/defer nope", nil)
	if !strings.Contains(out, "couldn't find") {
		t.Fatalf("output = %q", out)
	}
}

func TestHandleCommandTriggers(t *testing.T) {
	sess := newTestSession(&stubProvider{})

	out, _, _ := runCommand(t, sess, "/triggers on", nil)
	if !strings.Contains(out, "Daily triggers armed: 2") {
		t.Fatalf("on output = %q", out)
	}

	out, _, _ = runCommand(t, sess, "/triggers off", nil)
	if !strings.Contains(out, "cancelled") {
		t.Fatalf("off output = %q", out)
	}
}

func TestHandleCommandVoiceSendsTranscript(t *testing.T) {
	p := &stubProvider{reply: "Bora!", transcript: "quero organizar a casa"}
	sess := newTestSession(p)

	var out strings.Builder
	engine := notify.NewEngine(4)
	defer engine.Stop()
	handled, _ := handleCommand("/voice audio.m4a", sess, voice.NewSession(p, nil, nil), engine, &scriptedInput{}, config.Default(), &out)
	if !handled {
		t.Fatal("not handled")
	}
	if !strings.Contains(out.String(), "quero organizar a casa") || !strings.Contains(out.String(), "Bora!") {
		t.Fatalf("output = %q", out.String())
	}
	if len(sess.Tasks.History()) != 2 {
		t.Fatalf("history = %d", len(sess.Tasks.History()))
	}
}

func TestRunOnboarding(t *testing.T) {
	sess := newTestSession(&stubProvider{})
	reader := &scriptedInput{lines: []string{"1", "abc", "2", "4", "2"}}

	var out strings.Builder
	if err := runOnboarding(sess, reader, &out); err != nil {
		t.Fatalf("runOnboarding: %v", err)
	}

	p := sess.Profiles.Profile()
	if p.PeakEnergy != profile.PeakMorning {
		t.Fatalf("peak = %s", p.PeakEnergy)
	}
	if p.BlocksOn != "finances" {
		t.Fatalf("blocks on = %s", p.BlocksOn)
	}
	if p.Tone != profile.ToneGentle {
		t.Fatalf("tone = %s", p.Tone)
	}
	if p.Notifications != profile.NotifyOnePeak {
		t.Fatalf("notifications = %s", p.Notifications)
	}
	if !sess.Profiles.OnboardingDone() {
		t.Fatal("onboarding not marked done")
	}
	if !strings.Contains(out.String(), "number between 1 and 4") {
		t.Fatalf("invalid answer not reprompted: %q", out.String())
	}
}

func TestRunOnboardingAbortsOnEOF(t *testing.T) {
	sess := newTestSession(&stubProvider{})
	if err := runOnboarding(sess, &scriptedInput{lines: []string{"1"}}, io.Discard); err == nil {
		t.Fatal("expected an error when input runs out")
	}
	if sess.Profiles.OnboardingDone() {
		t.Fatal("partial onboarding must not complete the profile")
	}
}

func TestPrintTaskCardMarkers(t *testing.T) {
	i18n.Init("en")
	var out strings.Builder
	printTaskCard(&out, task.Task{
		ID:    "t1",
		Title: "Limpar a caixa de entrada",
		Steps: []task.MicroStep{
			{ID: "1", Text: "Abrir o e-mail", Minutes: 2, Completed: true},
			{ID: "2", Text: "Arquivar dez mensagens", Minutes: 8},
		},
		Status: task.StatusPending,
	})
	got := out.String()
	if !strings.Contains(got, "✓ Abrir o e-mail") || !strings.Contains(got, "○ Arquivar dez mensagens") {
		t.Fatalf("card = %q", got)
	}
	if !strings.Contains(got, "10 min") {
		t.Fatalf("total missing: %q", got)
	}
}
