// Package voice 语音轮次的状态机。录音来自外部采集器，转写和播报走补全服务。
// Package voice is the state machine for a voice turn. Capture comes from an
// external recorder, transcription and speech come from the completion
// service.
package voice

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"

	"nexus/internal/i18n"
	"nexus/internal/provider"
)

// State 语音轮次的阶段 / phase of a voice turn
type State string

const (
	StateIdle       State = "idle"
	StateRecording  State = "recording"
	StateProcessing State = "processing"
	StateSpeaking   State = "speaking"
)

// Recorder 外部音频采集器。StartCapture 开始录音，StopCapture 结束并返回
// 音频文件路径。权限被拒等失败通过 error 上报。
// Recorder is the external audio capture device. StartCapture begins
// recording, StopCapture finishes and returns the audio file path. Failures
// such as denied permission surface through the error.
type Recorder interface {
	StartCapture(ctx context.Context) error
	StopCapture(ctx context.Context) (string, error)
}

// Player 播放合成语音流 / plays a synthesized speech stream
type Player interface {
	Play(ctx context.Context, audio io.ReadCloser) error
}

// Session 一次语音会话。错误以用户可见的提示字符串返回而不是 error：
// 语音路径上的失败永远降级为可朗读/可显示的行为，不中断对话。
// Session is one voice conversation. Errors come back as user-visible hint
// strings rather than errors: failures on the voice path always degrade to
// displayable behavior and never abort the conversation.
type Session struct {
	provider provider.Provider
	recorder Recorder
	player   Player
	logOut   io.Writer

	mu    sync.Mutex
	state State
}

func NewSession(p provider.Provider, rec Recorder, play Player) *Session {
	return &Session{
		provider: p,
		recorder: rec,
		player:   play,
		logOut:   os.Stderr,
		state:    StateIdle,
	}
}

// State 当前阶段 / current phase
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// StartRecording 从 idle 进入 recording。已在录音或处理中时拒绝。
// StartRecording moves from idle to recording. Rejected while already
// recording or processing.
func (s *Session) StartRecording(ctx context.Context) (hint string, ok bool) {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return "", false
	}
	s.state = StateRecording
	s.mu.Unlock()

	if s.recorder == nil {
		s.setState(StateIdle)
		return i18n.T("voice.not_supported"), false
	}
	if err := s.recorder.StartCapture(ctx); err != nil {
		fmt.Fprintf(s.logOut, "audio capture failed: %v\n", err)
		s.setState(StateIdle)
		return i18n.T("voice.mic_denied"), false
	}
	return i18n.T("voice.recording"), true
}

// StopAndTranscribe 结束录音并转写。空转写（静音）返回空串加静音提示。
// StopAndTranscribe ends the recording and transcribes it. An empty
// transcription (silence) returns an empty string plus the silence hint.
func (s *Session) StopAndTranscribe(ctx context.Context) (text, hint string) {
	s.mu.Lock()
	if s.state != StateRecording {
		s.mu.Unlock()
		return "", ""
	}
	s.state = StateProcessing
	s.mu.Unlock()
	defer s.setState(StateIdle)

	path, err := s.recorder.StopCapture(ctx)
	if err != nil {
		fmt.Fprintf(s.logOut, "audio capture failed: %v\n", err)
		return "", i18n.T("voice.stt_failed")
	}
	defer os.Remove(path)

	transcript, err := s.provider.Transcribe(ctx, path)
	if err != nil {
		fmt.Fprintf(s.logOut, "transcription failed: %v\n", err)
		return "", i18n.T("voice.stt_failed")
	}
	if strings.TrimSpace(transcript) == "" {
		return "", i18n.T("voice.silence")
	}
	return transcript, i18n.T("voice.processing")
}

// TranscribeFile 转写一个已有的音频文件，不经过采集器，也不删除文件。
// 供从磁盘投递语音的入口使用。
// TranscribeFile transcribes an existing audio file without going through the
// recorder and without deleting the file. Used by entry points that deliver
// voice from disk.
func (s *Session) TranscribeFile(ctx context.Context, path string) (text, hint string) {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return "", ""
	}
	s.state = StateProcessing
	s.mu.Unlock()
	defer s.setState(StateIdle)

	transcript, err := s.provider.Transcribe(ctx, path)
	if err != nil {
		fmt.Fprintf(s.logOut, "transcription failed: %v\n", err)
		return "", i18n.T("voice.stt_failed")
	}
	if strings.TrimSpace(transcript) == "" {
		return "", i18n.T("voice.silence")
	}
	return transcript, ""
}

// Speak 朗读一条回复。合成前剥掉 markdown 痕迹，失败只提示不报错。
// Speak reads a reply aloud. Markdown artifacts are stripped before
// synthesis; failure yields a hint, never an error.
func (s *Session) Speak(ctx context.Context, text string) (hint string) {
	spoken := StripForSpeech(text)
	if spoken == "" {
		return ""
	}

	s.setState(StateSpeaking)
	defer s.setState(StateIdle)

	audio, err := s.provider.Speak(ctx, spoken)
	if err != nil {
		fmt.Fprintf(s.logOut, "speech synthesis failed: %v\n", err)
		return i18n.T("voice.tts_failed")
	}
	if s.player == nil {
		audio.Close()
		return ""
	}
	if err := s.player.Play(ctx, audio); err != nil {
		fmt.Fprintf(s.logOut, "speech playback failed: %v\n", err)
		return i18n.T("voice.tts_failed")
	}
	return ""
}

var (
	codeFence  = regexp.MustCompile("(?s)```.*?```")
	inlineCode = regexp.MustCompile("`([^`]*)`")
	mdHeading  = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	mdEmphasis = regexp.MustCompile(`[*_]{1,3}([^*_]+)[*_]{1,3}`)
	mdBullet   = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	mdLink     = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
)

// StripForSpeech 去掉不适合朗读的 markdown 结构：整块代码直接丢弃，
// 其余标记只留文字。
// StripForSpeech removes markdown structure unsuitable for reading aloud:
// whole code blocks are dropped, other markup keeps only its text.
func StripForSpeech(text string) string {
	out := codeFence.ReplaceAllString(text, "")
	out = inlineCode.ReplaceAllString(out, "$1")
	out = mdLink.ReplaceAllString(out, "$1")
	out = mdHeading.ReplaceAllString(out, "")
	out = mdEmphasis.ReplaceAllString(out, "$1")
	out = mdBullet.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}
