package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type TelemetryConfig struct {
	LogLevel     string `yaml:"log_level"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	OTLPInsecure bool   `yaml:"otlp_insecure"`
}

type HTTPConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

type Config struct {
	RuntimeName string          `yaml:"runtime_name"`
	Environment string          `yaml:"environment"`
	HTTP        HTTPConfig      `yaml:"http"`
	Telemetry   TelemetryConfig `yaml:"telemetry"`
	Bus         BusConfig       `yaml:"bus"`
	Generator   GeneratorConfig `yaml:"generator"`
	TTS         TTSConfig       `yaml:"tts"`
	Track       TrackConfig     `yaml:"track"`
	History     HistoryConfig   `yaml:"history"`
}

type BusConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Embedded       bool     `yaml:"embedded"`
	Port           int      `yaml:"port"`
	Servers        []string `yaml:"servers"`
	Username       string   `yaml:"username"`
	Password       string   `yaml:"password"`
	Token          string   `yaml:"token"`
	TLSInsecure    bool     `yaml:"tls_insecure"`
	ConnectTimeout int      `yaml:"connect_timeout_ms"`
}

type GeneratorConfig struct {
	Mode          string  `yaml:"mode"` // mock, gemini
	APIKey        string  `yaml:"api_key"`
	Model         string  `yaml:"model"`
	SentenceCount int     `yaml:"sentence_count"`
	Topic         string  `yaml:"topic"`
	Temperature   float64 `yaml:"temperature"`
}

type TTSConfig struct {
	Mode            string            `yaml:"mode"` // mock, google, exec
	Command         string            `yaml:"command"`
	CredentialsFile string            `yaml:"credentials_file"`
	SampleRate      int               `yaml:"sample_rate"`
	Channels        int               `yaml:"channels"`
	Voices          map[string]string `yaml:"voices"`
}

type TrackConfig struct {
	ExamLanguage       string  `yaml:"exam_language"`
	NativeLanguage     string  `yaml:"native_language"`
	ShortPauseMS       int     `yaml:"short_pause_ms"`
	LongPauseMS        int     `yaml:"long_pause_ms"`
	GuideSpeed         float64 `yaml:"guide_speed"`
	TranslationSpeed   float64 `yaml:"translation_speed"`
	FlattenTranslation bool    `yaml:"flatten_translation"`
	Repetitions        int     `yaml:"repetitions"`
}

type HistoryConfig struct {
	Path          string `yaml:"path"`
	RetentionMode string `yaml:"retention_mode"`
	RetentionDays int    `yaml:"retention_days"`
	MaxRuns       int    `yaml:"max_runs"`
	VacuumOnStart bool   `yaml:"vacuum_on_start"`
}

func Default() Config {
	return Config{
		RuntimeName: "drillcast-runtime",
		Environment: "development",
		HTTP: HTTPConfig{
			Bind: "0.0.0.0",
			Port: 8080,
		},
		Telemetry: TelemetryConfig{
			LogLevel:     "info",
			OTLPEndpoint: "",
			OTLPInsecure: true,
		},
		Bus: BusConfig{
			Enabled:        false,
			Embedded:       true,
			Port:           4222,
			Servers:        []string{"nats://localhost:4222"},
			ConnectTimeout: 2000,
		},
		Generator: GeneratorConfig{
			Mode:          "mock",
			Model:         "gemini-2.5-flash",
			SentenceCount: 5,
			Topic:         "workplace and business English",
			Temperature:   0.7,
		},
		TTS: TTSConfig{
			Mode:       "mock",
			SampleRate: 24000,
			Channels:   1,
			Voices:     map[string]string{},
		},
		Track: TrackConfig{
			ExamLanguage:       "en-US",
			NativeLanguage:     "ko-KR",
			ShortPauseMS:       1500,
			LongPauseMS:        2500,
			GuideSpeed:         1.25,
			TranslationSpeed:   1.2,
			FlattenTranslation: true,
			Repetitions:        2,
		},
		History: HistoryConfig{
			Path:          "./data/drillcast-runs.db",
			RetentionMode: "session",
			RetentionDays: 30,
			MaxRuns:       10000,
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.RuntimeName, "DRILLCAST_RUNTIME_NAME")
	overrideString(&cfg.Environment, "DRILLCAST_RUNTIME_ENVIRONMENT")
	overrideString(&cfg.HTTP.Bind, "DRILLCAST_HTTP_BIND")
	overrideInt(&cfg.HTTP.Port, "DRILLCAST_HTTP_PORT")
	overrideString(&cfg.Telemetry.LogLevel, "DRILLCAST_TELEMETRY_LOG_LEVEL")
	overrideString(&cfg.Telemetry.OTLPEndpoint, "DRILLCAST_TELEMETRY_OTLP_ENDPOINT")
	overrideBool(&cfg.Telemetry.OTLPInsecure, "DRILLCAST_TELEMETRY_OTLP_INSECURE")
	overrideBool(&cfg.Bus.Enabled, "DRILLCAST_BUS_ENABLED")
	overrideBool(&cfg.Bus.Embedded, "DRILLCAST_BUS_EMBEDDED")
	overrideInt(&cfg.Bus.Port, "DRILLCAST_BUS_PORT")
	overrideStringSlice(&cfg.Bus.Servers, "DRILLCAST_BUS_SERVERS")
	overrideString(&cfg.Bus.Username, "DRILLCAST_BUS_USERNAME")
	overrideString(&cfg.Bus.Password, "DRILLCAST_BUS_PASSWORD")
	overrideString(&cfg.Bus.Token, "DRILLCAST_BUS_TOKEN")
	overrideBool(&cfg.Bus.TLSInsecure, "DRILLCAST_BUS_TLS_INSECURE")
	overrideInt(&cfg.Bus.ConnectTimeout, "DRILLCAST_BUS_CONNECT_TIMEOUT_MS")
	overrideString(&cfg.Generator.Mode, "DRILLCAST_GENERATOR_MODE")
	overrideString(&cfg.Generator.APIKey, "DRILLCAST_GENERATOR_API_KEY")
	overrideString(&cfg.Generator.Model, "DRILLCAST_GENERATOR_MODEL")
	overrideInt(&cfg.Generator.SentenceCount, "DRILLCAST_GENERATOR_SENTENCE_COUNT")
	overrideString(&cfg.Generator.Topic, "DRILLCAST_GENERATOR_TOPIC")
	overrideFloat(&cfg.Generator.Temperature, "DRILLCAST_GENERATOR_TEMPERATURE")
	overrideString(&cfg.TTS.Mode, "DRILLCAST_TTS_MODE")
	overrideString(&cfg.TTS.Command, "DRILLCAST_TTS_COMMAND")
	overrideString(&cfg.TTS.CredentialsFile, "DRILLCAST_TTS_CREDENTIALS_FILE")
	overrideInt(&cfg.TTS.SampleRate, "DRILLCAST_TTS_SAMPLE_RATE")
	overrideInt(&cfg.TTS.Channels, "DRILLCAST_TTS_CHANNELS")
	overrideString(&cfg.Track.ExamLanguage, "DRILLCAST_TRACK_EXAM_LANGUAGE")
	overrideString(&cfg.Track.NativeLanguage, "DRILLCAST_TRACK_NATIVE_LANGUAGE")
	overrideInt(&cfg.Track.ShortPauseMS, "DRILLCAST_TRACK_SHORT_PAUSE_MS")
	overrideInt(&cfg.Track.LongPauseMS, "DRILLCAST_TRACK_LONG_PAUSE_MS")
	overrideFloat(&cfg.Track.GuideSpeed, "DRILLCAST_TRACK_GUIDE_SPEED")
	overrideFloat(&cfg.Track.TranslationSpeed, "DRILLCAST_TRACK_TRANSLATION_SPEED")
	overrideBool(&cfg.Track.FlattenTranslation, "DRILLCAST_TRACK_FLATTEN_TRANSLATION")
	overrideInt(&cfg.Track.Repetitions, "DRILLCAST_TRACK_REPETITIONS")
	overrideString(&cfg.History.Path, "DRILLCAST_HISTORY_PATH")
	overrideString(&cfg.History.RetentionMode, "DRILLCAST_HISTORY_RETENTION_MODE")
	overrideInt(&cfg.History.RetentionDays, "DRILLCAST_HISTORY_RETENTION_DAYS")
	overrideInt(&cfg.History.MaxRuns, "DRILLCAST_HISTORY_MAX_RUNS")
	overrideBool(&cfg.History.VacuumOnStart, "DRILLCAST_HISTORY_VACUUM_ON_START")

	// GOOGLE_API_KEY is what hosting platforms typically inject as the secret name.
	if cfg.Generator.APIKey == "" {
		overrideString(&cfg.Generator.APIKey, "GOOGLE_API_KEY")
	}
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func overrideStringSlice(target *[]string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		parts := strings.Split(value, ",")
		var trimmed []string
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				trimmed = append(trimmed, s)
			}
		}
		if len(trimmed) > 0 {
			*target = trimmed
		}
	}
}

func overrideFloat(target *float64, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			*target = parsed
		}
	}
}

func validate(cfg Config) error {
	if cfg.RuntimeName == "" {
		return errors.New("runtime_name must not be empty")
	}
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return errors.New("http.port must be between 1 and 65535")
	}
	if cfg.Bus.Enabled {
		if cfg.Bus.Embedded {
			if cfg.Bus.Port <= 0 || cfg.Bus.Port > 65535 {
				return errors.New("bus.port must be between 1 and 65535 when embedded mode is enabled")
			}
		} else if len(cfg.Bus.Servers) == 0 {
			return errors.New("bus.servers must not be empty when embedded mode is disabled")
		}
	}
	switch cfg.Generator.Mode {
	case "mock", "gemini":
	default:
		return errors.New("generator.mode must be one of mock|gemini")
	}
	if cfg.Generator.Mode == "gemini" && cfg.Generator.APIKey == "" {
		return errors.New("generator.api_key must be set when mode=gemini (DRILLCAST_GENERATOR_API_KEY or GOOGLE_API_KEY)")
	}
	if cfg.Generator.Mode == "gemini" && cfg.Generator.Model == "" {
		return errors.New("generator.model must be set when mode=gemini")
	}
	if cfg.Generator.SentenceCount <= 0 {
		return errors.New("generator.sentence_count must be positive")
	}
	switch cfg.TTS.Mode {
	case "mock", "google", "exec":
	default:
		return errors.New("tts.mode must be one of mock|google|exec")
	}
	if cfg.TTS.Mode == "exec" && cfg.TTS.Command == "" {
		return errors.New("tts.command must be set when mode=exec")
	}
	if cfg.TTS.SampleRate <= 0 {
		return errors.New("tts.sample_rate must be positive")
	}
	if cfg.TTS.Channels <= 0 {
		return errors.New("tts.channels must be positive")
	}
	if cfg.Track.ExamLanguage == "" || cfg.Track.NativeLanguage == "" {
		return errors.New("track.exam_language and track.native_language must not be empty")
	}
	if cfg.Track.ShortPauseMS < 0 || cfg.Track.LongPauseMS < 0 {
		return errors.New("track pause durations must be >= 0")
	}
	if cfg.Track.GuideSpeed <= 0 || cfg.Track.TranslationSpeed <= 0 {
		return errors.New("track speed factors must be positive")
	}
	if cfg.Track.Repetitions != 1 && cfg.Track.Repetitions != 2 {
		return errors.New("track.repetitions must be 1 or 2")
	}
	if cfg.History.Path == "" {
		return errors.New("history.path must not be empty")
	}
	switch cfg.History.RetentionMode {
	case "ephemeral", "session", "persistent":
		// ok
	default:
		return errors.New("history.retention_mode must be one of ephemeral|session|persistent")
	}
	if cfg.History.RetentionDays < 0 {
		return errors.New("history.retention_days must be >= 0")
	}
	return nil
}
