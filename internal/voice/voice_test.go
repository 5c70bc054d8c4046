package voice

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nexus/internal/chat"
)

type fakeRecorder struct {
	startErr error
	stopErr  error
	path     string
}

func (r *fakeRecorder) StartCapture(context.Context) error { return r.startErr }
func (r *fakeRecorder) StopCapture(context.Context) (string, error) {
	return r.path, r.stopErr
}

type fakeVoiceProvider struct {
	transcript    string
	transcribeErr error
	speakErr      error
	spokenText    string
}

func (f *fakeVoiceProvider) Chat(context.Context, chat.Request) (chat.Response, error) {
	return chat.Response{}, errors.New("unused")
}
func (f *fakeVoiceProvider) Transcribe(context.Context, string) (string, error) {
	return f.transcript, f.transcribeErr
}
func (f *fakeVoiceProvider) Speak(_ context.Context, text string) (io.ReadCloser, error) {
	f.spokenText = text
	if f.speakErr != nil {
		return nil, f.speakErr
	}
	return io.NopCloser(strings.NewReader("audio")), nil
}
func (f *fakeVoiceProvider) Name() string         { return "fake" }
func (f *fakeVoiceProvider) CurrentModel() string { return "fake" }
func (f *fakeVoiceProvider) SetModel(string) error { return nil }

type fakePlayer struct {
	played bool
	err    error
}

func (p *fakePlayer) Play(_ context.Context, audio io.ReadCloser) error {
	p.played = true
	audio.Close()
	return p.err
}

func tempAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVoiceTurnStates(t *testing.T) {
	rec := &fakeRecorder{path: tempAudio(t)}
	s := NewSession(&fakeVoiceProvider{transcript: "lavar a louça"}, rec, &fakePlayer{})
	s.logOut = io.Discard

	if s.State() != StateIdle {
		t.Fatalf("initial state = %q", s.State())
	}
	if _, ok := s.StartRecording(context.Background()); !ok {
		t.Fatal("start rejected")
	}
	if s.State() != StateRecording {
		t.Fatalf("state after start = %q", s.State())
	}
	if _, ok := s.StartRecording(context.Background()); ok {
		t.Error("second start accepted while recording")
	}

	text, _ := s.StopAndTranscribe(context.Background())
	if text != "lavar a louça" {
		t.Errorf("transcript = %q", text)
	}
	if s.State() != StateIdle {
		t.Errorf("state after transcribe = %q", s.State())
	}
}

func TestStopWithoutRecordingIsNoOp(t *testing.T) {
	s := NewSession(&fakeVoiceProvider{}, &fakeRecorder{}, nil)
	if text, hint := s.StopAndTranscribe(context.Background()); text != "" || hint != "" {
		t.Errorf("got (%q, %q)", text, hint)
	}
}

func TestSilenceYieldsHintNotText(t *testing.T) {
	rec := &fakeRecorder{path: tempAudio(t)}
	s := NewSession(&fakeVoiceProvider{transcript: "   "}, rec, nil)
	s.logOut = io.Discard

	s.StartRecording(context.Background())
	text, hint := s.StopAndTranscribe(context.Background())
	if text != "" {
		t.Errorf("silence produced text %q", text)
	}
	if hint == "" {
		t.Error("silence should produce a hint")
	}
}

func TestTranscribeErrorDegrades(t *testing.T) {
	rec := &fakeRecorder{path: tempAudio(t)}
	s := NewSession(&fakeVoiceProvider{transcribeErr: errors.New("http 500")}, rec, nil)
	s.logOut = io.Discard

	s.StartRecording(context.Background())
	text, hint := s.StopAndTranscribe(context.Background())
	if text != "" || hint == "" {
		t.Errorf("got (%q, %q), want empty text and a hint", text, hint)
	}
	if strings.Contains(hint, "500") {
		t.Errorf("hint leaks transport error: %q", hint)
	}
	if s.State() != StateIdle {
		t.Errorf("state = %q, want idle", s.State())
	}
}

func TestMicDeniedResetsState(t *testing.T) {
	s := NewSession(&fakeVoiceProvider{}, &fakeRecorder{startErr: errors.New("denied")}, nil)
	s.logOut = io.Discard

	hint, ok := s.StartRecording(context.Background())
	if ok || hint == "" {
		t.Errorf("got (%q, %v)", hint, ok)
	}
	if s.State() != StateIdle {
		t.Errorf("state = %q, want idle", s.State())
	}
}

func TestSpeakStripsMarkdown(t *testing.T) {
	p := &fakeVoiceProvider{}
	player := &fakePlayer{}
	s := NewSession(p, nil, player)
	s.logOut = io.Discard

	hint := s.Speak(context.Background(), "**Bora!** Veja `ls`:\n```sh\nls -la\n```\n- passo um")
	if hint != "" {
		t.Errorf("hint = %q", hint)
	}
	if !player.played {
		t.Error("player never ran")
	}
	if strings.ContainsAny(p.spokenText, "*`#") || strings.Contains(p.spokenText, "ls -la") {
		t.Errorf("spoken text keeps markdown: %q", p.spokenText)
	}
}

func TestSpeakSkipsEmptyAfterStrip(t *testing.T) {
	p := &fakeVoiceProvider{}
	s := NewSession(p, nil, &fakePlayer{})

	if hint := s.Speak(context.Background(), "```go\ncode only\n```"); hint != "" {
		t.Errorf("hint = %q", hint)
	}
	if p.spokenText != "" {
		t.Errorf("synthesis ran for empty text: %q", p.spokenText)
	}
}

func TestStripForSpeech(t *testing.T) {
	cases := []struct{ in, want string }{
		{"## Título\nTexto", "Título\nTexto"},
		{"Veja [o link](https://x.dev) aqui", "Veja o link aqui"},
		{"sem marcação", "sem marcação"},
		{"*leve* _ênfase_", "leve ênfase"},
	}
	for _, tc := range cases {
		if got := StripForSpeech(tc.in); got != tc.want {
			t.Errorf("StripForSpeech(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTranscribeFileKeepsFile(t *testing.T) {
	path := tempAudio(t)
	s := NewSession(&fakeVoiceProvider{transcript: "organizar a mesa"}, nil, nil)
	s.logOut = io.Discard

	text, hint := s.TranscribeFile(context.Background(), path)
	if text != "organizar a mesa" || hint != "" {
		t.Errorf("got (%q, %q)", text, hint)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("source file removed: %v", err)
	}
	if s.State() != StateIdle {
		t.Errorf("state = %q, want idle", s.State())
	}
}

func TestTranscribeFileSilence(t *testing.T) {
	s := NewSession(&fakeVoiceProvider{transcript: " "}, nil, nil)
	s.logOut = io.Discard

	text, hint := s.TranscribeFile(context.Background(), tempAudio(t))
	if text != "" || hint == "" {
		t.Errorf("got (%q, %q)", text, hint)
	}
}
