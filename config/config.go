package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Mongo     MongoConfig     `yaml:"mongo"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Events    EventsConfig    `yaml:"events"`
	Auth      AuthConfig      `yaml:"auth"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// StorageConfig selects the session/template store. Backend is "mongo" or "memory".
type StorageConfig struct {
	Backend string `yaml:"backend"`
}

type MongoConfig struct {
	URI    string `yaml:"uri"`
	DBName string `yaml:"db_name"`
}

// RetrievalConfig points at the document retrieval backend.
type RetrievalConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// AnalysisConfig 는 분석 백엔드 설정이다.
// Provider 가 "gemini" 이면 genai 로 직접 호출하고, 그 외에는 BaseURL 의 HTTP 서비스를 사용한다.
type AnalysisConfig struct {
	Provider     string        `yaml:"provider"`
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	GeminiModel  string        `yaml:"gemini_model"`
	GeminiAPIKey string        `yaml:"-"`
}

type EventsConfig struct {
	Enabled bool     `yaml:"enabled"`
	Topic   string   `yaml:"topic"`
	Brokers []string `yaml:"brokers"`
	GroupID string   `yaml:"group_id"`
}

// AuthConfig: when disabled the caller identity comes from the X-User-Id header.
type AuthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Secret  string `yaml:"-"`
	Issuer  string `yaml:"issuer"`
}

// Default returns the configuration used when a field is left empty.
func Default() AppConfig {
	return AppConfig{
		Logging: LoggingConfig{Level: "info"},
		Server:  ServerConfig{Addr: ":8080"},
		Storage: StorageConfig{Backend: "mongo"},
		Mongo:   MongoConfig{DBName: "researchchat"},
		Retrieval: RetrievalConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 30 * time.Second,
		},
		Analysis: AnalysisConfig{
			Provider:    "http",
			BaseURL:     "http://localhost:8000",
			Timeout:     120 * time.Second,
			GeminiModel: "gemini-2.5-flash",
		},
		Events: EventsConfig{
			Topic:   "research-chat.events",
			Brokers: []string{"localhost:9092"},
			GroupID: "research-chat-audit",
		},
		Auth: AuthConfig{Issuer: "research-chat"},
	}
}

// Load reads the yaml file at path on top of Default and applies env overrides.
// A missing file is not an error.
func Load(path string) (*AppConfig, error) {
	c := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &c); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	applyEnv(&c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func applyEnv(c *AppConfig) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		c.Mongo.URI = v
	}
	if v := os.Getenv("RETRIEVAL_BASE_URL"); v != "" {
		c.Retrieval.BaseURL = v
	}
	if v := os.Getenv("ANALYSIS_BASE_URL"); v != "" {
		c.Analysis.BaseURL = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Analysis.GeminiAPIKey = v
	}
	if v := os.Getenv("KAFKA_BOOTSTRAP_SERVERS"); v != "" {
		c.Events.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.Secret = v
	}
}

func (c AppConfig) Validate() error {
	switch c.Storage.Backend {
	case "mongo", "memory":
	default:
		return fmt.Errorf("storage.backend: unsupported value %q", c.Storage.Backend)
	}
	switch c.Analysis.Provider {
	case "http", "gemini":
	default:
		return fmt.Errorf("analysis.provider: unsupported value %q", c.Analysis.Provider)
	}
	if c.Auth.Enabled && c.Auth.Secret == "" {
		return fmt.Errorf("auth.enabled requires JWT_SECRET")
	}
	if c.Events.Enabled && len(c.Events.Brokers) == 0 {
		return fmt.Errorf("events.enabled requires at least one broker")
	}
	return nil
}

// LoadApp resolves path (searched upward from the working directory when
// empty), loads the sibling .env file and then the YAML config.
func LoadApp(path string) (*AppConfig, error) {
	if path == "" {
		path = filepath.Join(GetBasePath(), CONFIG_FILE)
	}
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ENV_FILE))
	return Load(path)
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
