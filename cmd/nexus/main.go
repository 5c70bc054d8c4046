package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"nexus/internal/config"
	"nexus/internal/i18n"
	"nexus/internal/notify"
	"nexus/internal/orchestrator"
	"nexus/internal/profile"
	"nexus/internal/provider"
	"nexus/internal/session"
	"nexus/internal/storage"
	"nexus/internal/task"
	"nexus/internal/tui"
	"nexus/internal/voice"

	"github.com/chzyer/readline"
	"github.com/joho/godotenv"
)

func main() {
	var (
		configPath string
		useTUI     bool
	)
	flag.StringVar(&configPath, "config", "", "Path to config JSON/JSONC")
	flag.BoolVar(&useTUI, "tui", false, "Start the full-screen interface")
	flag.Parse()

	// .env 仅用于本地密钥，缺失不算错误 / .env only carries local secrets
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, i18n.T("error.config", err))
		os.Exit(1)
	}
	i18n.Init(cfg.User.Locale)

	providerClient := provider.NewOpenAIProvider(provider.OpenAIConfig{
		BaseURL:         cfg.Provider.BaseURL,
		APIKey:          cfg.Provider.APIKey,
		Model:           cfg.Provider.Model,
		SpeechModel:     cfg.Voice.SpeechModel,
		SpeechVoice:     cfg.Voice.SpeechVoice,
		SpeechRate:      cfg.Voice.SpeechRate,
		TranscribeModel: cfg.Voice.TranscribeModel,
		TimeoutMS:       cfg.Provider.TimeoutMS,
		MaxRetries:      cfg.Provider.MaxRetries,
	})

	// 镜像打不开时继续纯内存运行 / keep running in memory when the mirror fails
	var mirror storage.Store
	if sqliteStore, err := storage.NewSQLiteStore(cfg.DBPath()); err != nil {
		fmt.Fprintln(os.Stderr, i18n.T("error.mirror", err))
	} else {
		mirror = sqliteStore
		defer sqliteStore.Close()
	}

	profiles := profile.NewStore()
	tasks := task.NewStore()
	orch := orchestrator.New(providerClient, profiles, orchestrator.Options{})
	sess := session.New(cfg.User.ID, tasks, profiles, orch, session.Options{Mirror: mirror})
	sess.Restore()

	voiceSession := voice.NewSession(providerClient, nil, nil)

	inputReader, inputErr := newLineInput(filepath.Join(cfg.Storage.BaseDir, "repl.history"))
	if inputErr != nil {
		fmt.Fprintf(os.Stderr, "line editor unavailable, fallback to basic input: %v\n", inputErr)
	}
	defer inputReader.Close()

	if !sess.Profiles.OnboardingDone() {
		if err := runOnboarding(sess, inputReader, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "onboarding aborted: %v\n", err)
			return
		}
	}

	// 每日触发引擎：到期时生成一条主动消息打到终端。
	// Daily trigger engine: a due trigger produces one proactive message on
	// the terminal.
	engine := notify.NewEngine(cfg.Notifications.EventBuffer)
	engine.Start()
	defer engine.Stop()
	if cfg.Notifications.Enabled {
		engine.Arm(notify.TriggersForProfile(sess.Profiles.Profile()))
	}
	go func() {
		for ev := range engine.C() {
			fmt.Printf("\n%s — %s\n", ev.Trigger.Title, ev.Trigger.Body)
			if msg, ok := sess.ProactiveMessage(context.Background()); ok {
				fmt.Printf("%s\n%s", msg.Content, replPrompt)
			}
		}
	}()

	if useTUI {
		if err := tui.Run(sess); err != nil {
			fmt.Fprintf(os.Stderr, "tui failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println(i18n.T("repl.welcome", "/help"))
	printStatus(os.Stdout, sess)

	for {
		line, err := inputReader.ReadLine(replPrompt)
		if err != nil {
			switch {
			case errors.Is(err, readline.ErrInterrupt):
				fmt.Fprintln(os.Stdout)
				continue
			case errors.Is(err, io.EOF):
				fmt.Fprintln(os.Stderr, "\nexit")
				return
			default:
				fmt.Fprintf(os.Stderr, "read input failed: %v\n", err)
				return
			}
		}
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			handled, shouldExit := handleCommand(input, sess, voiceSession, engine, inputReader, cfg, os.Stdout)
			if handled {
				if shouldExit {
					return
				}
				continue
			}
		}

		runTurn(sess, input, os.Stdout)
	}
}

// runTurn 一轮文字对话：发送、打印回复、展示新产生的任务卡片。
// runTurn is one text turn: send, print the reply, show a freshly created
// task card.
func runTurn(sess *session.Session, input string, out io.Writer) {
	msg, ok := sess.Send(context.Background(), input)
	if !ok {
		return
	}
	fmt.Fprintln(out, msg.Content)
	if msg.Task != nil {
		printTaskCard(out, *msg.Task)
	}
}
