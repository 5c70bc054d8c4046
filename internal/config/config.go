package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type ProviderConfig struct {
	BaseURL    string `json:"base_url"`
	Model      string `json:"model"`
	APIKey     string `json:"api_key"`
	TimeoutMS  int    `json:"timeout_ms"`
	MaxRetries int    `json:"max_retries"`
}

type VoiceConfig struct {
	Enabled         bool    `json:"enabled"`
	SpeechModel     string  `json:"speech_model"`
	SpeechVoice     string  `json:"speech_voice"`
	SpeechRate      float64 `json:"speech_rate"`
	TranscribeModel string  `json:"transcribe_model"`
}

type NotificationConfig struct {
	Enabled     bool `json:"enabled"`
	EventBuffer int  `json:"event_buffer"`
}

type UserConfig struct {
	ID     string `json:"id"`
	Locale string `json:"locale"`
}

type StorageConfig struct {
	BaseDir string `json:"base_dir"`
	DBFile  string `json:"db_file"`
}

type Config struct {
	Provider      ProviderConfig     `json:"provider"`
	Voice         VoiceConfig        `json:"voice"`
	Notifications NotificationConfig `json:"notifications"`
	User          UserConfig         `json:"user"`
	Storage       StorageConfig      `json:"storage"`
}

type fileVoiceConfig struct {
	Enabled         *bool    `json:"enabled"`
	SpeechModel     *string  `json:"speech_model"`
	SpeechVoice     *string  `json:"speech_voice"`
	SpeechRate      *float64 `json:"speech_rate"`
	TranscribeModel *string  `json:"transcribe_model"`
}

type fileNotificationConfig struct {
	Enabled     *bool `json:"enabled"`
	EventBuffer *int  `json:"event_buffer"`
}

type fileConfig struct {
	Provider      *ProviderConfig         `json:"provider"`
	Voice         *fileVoiceConfig        `json:"voice"`
	Notifications *fileNotificationConfig `json:"notifications"`
	User          *UserConfig             `json:"user"`
	Storage       *StorageConfig          `json:"storage"`
}

func Default() Config {
	return Config{
		Provider: ProviderConfig{
			BaseURL:    "https://api.openai.com/v1",
			Model:      "gpt-4o-mini",
			TimeoutMS:  60000,
			MaxRetries: 2,
		},
		Voice: VoiceConfig{
			Enabled:         true,
			SpeechModel:     "tts-1",
			SpeechVoice:     "nova",
			SpeechRate:      0.95,
			TranscribeModel: "whisper-1",
		},
		Notifications: NotificationConfig{
			Enabled:     true,
			EventBuffer: 8,
		},
		User: UserConfig{
			ID: "local",
		},
		Storage: StorageConfig{
			BaseDir: "~/.nexus",
			DBFile:  "nexus.db",
		},
	}
}

// Load 按默认值 → 全局配置 → 项目配置 → 环境变量的顺序叠加。
// Load layers defaults, then global config, then project config, then
// environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	for _, globalPath := range globalConfigPaths() {
		if err := mergeFromFile(&cfg, globalPath); err != nil {
			return Config{}, err
		}
	}

	resolvedPath := strings.TrimSpace(path)
	if envPath := strings.TrimSpace(os.Getenv("NEXUS_CONFIG_PATH")); envPath != "" {
		resolvedPath = envPath
	}
	if resolvedPath == "" {
		resolvedPath = findProjectConfigPath()
	}
	if err := mergeFromFile(&cfg, resolvedPath); err != nil {
		return Config{}, err
	}

	if err := normalize(&cfg); err != nil {
		return Config{}, err
	}
	return applyEnv(cfg)
}

func globalConfigPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(home, ".nexus", "config.json")}
}

func findProjectConfigPath() string {
	candidates := []string{
		"nexus.config.json",
		".nexus/config.json",
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func mergeFromFile(cfg *Config, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	resolved, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("expand config path %q: %w", path, err)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %q: %w", resolved, err)
	}

	cleaned := stripJSONComments(data)
	var fileCfg fileConfig
	if err := json.Unmarshal(cleaned, &fileCfg); err != nil {
		return fmt.Errorf("parse config %q: %w", resolved, err)
	}
	applyFileConfig(cfg, fileCfg)
	return nil
}

func applyFileConfig(cfg *Config, fc fileConfig) {
	if fc.Provider != nil {
		cfg.Provider = mergeProvider(cfg.Provider, *fc.Provider)
	}
	if fc.Voice != nil {
		if fc.Voice.Enabled != nil {
			cfg.Voice.Enabled = *fc.Voice.Enabled
		}
		if fc.Voice.SpeechModel != nil && strings.TrimSpace(*fc.Voice.SpeechModel) != "" {
			cfg.Voice.SpeechModel = *fc.Voice.SpeechModel
		}
		if fc.Voice.SpeechVoice != nil && strings.TrimSpace(*fc.Voice.SpeechVoice) != "" {
			cfg.Voice.SpeechVoice = *fc.Voice.SpeechVoice
		}
		if fc.Voice.SpeechRate != nil && *fc.Voice.SpeechRate > 0 {
			cfg.Voice.SpeechRate = *fc.Voice.SpeechRate
		}
		if fc.Voice.TranscribeModel != nil && strings.TrimSpace(*fc.Voice.TranscribeModel) != "" {
			cfg.Voice.TranscribeModel = *fc.Voice.TranscribeModel
		}
	}
	if fc.Notifications != nil {
		if fc.Notifications.Enabled != nil {
			cfg.Notifications.Enabled = *fc.Notifications.Enabled
		}
		if fc.Notifications.EventBuffer != nil && *fc.Notifications.EventBuffer > 0 {
			cfg.Notifications.EventBuffer = *fc.Notifications.EventBuffer
		}
	}
	if fc.User != nil {
		if strings.TrimSpace(fc.User.ID) != "" {
			cfg.User.ID = fc.User.ID
		}
		if strings.TrimSpace(fc.User.Locale) != "" {
			cfg.User.Locale = fc.User.Locale
		}
	}
	if fc.Storage != nil {
		cfg.Storage = mergeStorage(cfg.Storage, *fc.Storage)
	}
}

func mergeProvider(base ProviderConfig, override ProviderConfig) ProviderConfig {
	if strings.TrimSpace(override.BaseURL) != "" {
		base.BaseURL = override.BaseURL
	}
	if strings.TrimSpace(override.Model) != "" {
		base.Model = override.Model
	}
	if strings.TrimSpace(override.APIKey) != "" {
		base.APIKey = override.APIKey
	}
	if override.TimeoutMS > 0 {
		base.TimeoutMS = override.TimeoutMS
	}
	if override.MaxRetries > 0 {
		base.MaxRetries = override.MaxRetries
	}
	return base
}

func mergeStorage(base StorageConfig, override StorageConfig) StorageConfig {
	if strings.TrimSpace(override.BaseDir) != "" {
		base.BaseDir = override.BaseDir
	}
	if strings.TrimSpace(override.DBFile) != "" {
		base.DBFile = override.DBFile
	}
	return base
}

func normalize(cfg *Config) error {
	def := Default()
	if strings.TrimSpace(cfg.Provider.BaseURL) == "" {
		cfg.Provider.BaseURL = def.Provider.BaseURL
	}
	if strings.TrimSpace(cfg.Provider.Model) == "" {
		cfg.Provider.Model = def.Provider.Model
	}
	if cfg.Provider.TimeoutMS <= 0 {
		cfg.Provider.TimeoutMS = def.Provider.TimeoutMS
	}
	if cfg.Provider.MaxRetries <= 0 {
		cfg.Provider.MaxRetries = def.Provider.MaxRetries
	}

	if strings.TrimSpace(cfg.Voice.SpeechModel) == "" {
		cfg.Voice.SpeechModel = def.Voice.SpeechModel
	}
	if strings.TrimSpace(cfg.Voice.SpeechVoice) == "" {
		cfg.Voice.SpeechVoice = def.Voice.SpeechVoice
	}
	if cfg.Voice.SpeechRate <= 0 {
		cfg.Voice.SpeechRate = def.Voice.SpeechRate
	}
	if strings.TrimSpace(cfg.Voice.TranscribeModel) == "" {
		cfg.Voice.TranscribeModel = def.Voice.TranscribeModel
	}

	if cfg.Notifications.EventBuffer <= 0 {
		cfg.Notifications.EventBuffer = def.Notifications.EventBuffer
	}
	if strings.TrimSpace(cfg.User.ID) == "" {
		cfg.User.ID = def.User.ID
	}

	storageDir, err := expandPath(cfg.Storage.BaseDir)
	if err != nil {
		return err
	}
	cfg.Storage.BaseDir = storageDir
	if strings.TrimSpace(cfg.Storage.DBFile) == "" {
		cfg.Storage.DBFile = def.Storage.DBFile
	}

	return nil
}

func applyEnv(cfg Config) (Config, error) {
	if v := strings.TrimSpace(os.Getenv("NEXUS_BASE_URL")); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("NEXUS_MODEL")); v != "" {
		cfg.Provider.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("NEXUS_API_KEY")); v != "" {
		cfg.Provider.APIKey = v
	} else if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("NEXUS_USER_ID")); v != "" {
		cfg.User.ID = v
	}
	if v := strings.TrimSpace(os.Getenv("NEXUS_DATA_DIR")); v != "" {
		cfg.Storage.BaseDir = v
	}
	if v := strings.TrimSpace(os.Getenv("NEXUS_TIMEOUT_MS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid NEXUS_TIMEOUT_MS: %q", v)
		}
		cfg.Provider.TimeoutMS = n
	}

	return cfg, normalize(&cfg)
}

// DBPath 数据库完整路径 / full database path
func (c Config) DBPath() string {
	return filepath.Join(c.Storage.BaseDir, c.Storage.DBFile)
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		if path == "~" {
			path = home
		} else {
			path = filepath.Join(home, strings.TrimPrefix(path, "~/"))
		}
	}
	return filepath.Abs(path)
}

func stripJSONComments(data []byte) []byte {
	const (
		stateNormal = iota
		stateString
		stateLineComment
		stateBlockComment
	)

	state := stateNormal
	escaped := false
	out := bytes.Buffer{}

	for i := 0; i < len(data); i++ {
		c := data[i]
		next := byte(0)
		if i+1 < len(data) {
			next = data[i+1]
		}

		switch state {
		case stateNormal:
			if c == '"' {
				state = stateString
				out.WriteByte(c)
				continue
			}
			if c == '/' && next == '/' {
				state = stateLineComment
				i++
				continue
			}
			if c == '/' && next == '*' {
				state = stateBlockComment
				i++
				continue
			}
			out.WriteByte(c)
		case stateString:
			out.WriteByte(c)
			if escaped {
				escaped = false
				continue
			}
			if c == '\\' {
				escaped = true
				continue
			}
			if c == '"' {
				state = stateNormal
			}
		case stateLineComment:
			if c == '\n' {
				state = stateNormal
				out.WriteByte(c)
			}
		case stateBlockComment:
			if c == '*' && next == '/' {
				state = stateNormal
				i++
			}
		}
	}

	return out.Bytes()
}
