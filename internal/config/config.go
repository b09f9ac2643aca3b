package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

type Config struct {
	Server ServerConfig
	LLM    LLMConfig
	OCR    OCRConfig
	Quota  QuotaConfig
	Log    LogConfig
}

type ServerConfig struct {
	Port           string
	Version        string
	Env            string
	AllowedOrigins []string
	UploadLimitMB  int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

type LLMConfig struct {
	Provider       string
	APIKey         string // Groq / OpenAI-compatible key
	BaseURL        string
	Model          string
	Timeout        time.Duration
	GoogleAPIKey   string
	GoogleProject  string
	GoogleLocation string
}

type OCRConfig struct {
	Languages   []string
	PageSegMode int
	DPI         float64
	PageWorkers int
}

type QuotaConfig struct {
	RedisAddr  string
	TokenLimit int
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads the given dotenv files (missing files are reported through warn,
// not as an error) and builds the config from the environment.
func Load(warn func(string), files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && warn != nil {
			warn(fmt.Sprintf("%s not loaded, using system environment variables", f))
		}
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8000"),
			Version:        getEnv("APP_VERSION", "dev"),
			Env:            getEnv("ENV", "development"),
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"), ","),
			UploadLimitMB:  getEnvInt("UPLOAD_LIMIT_MB", 25),
			ReadTimeout:    getEnvDuration("SERVER_READ_TIMEOUT", 2*time.Minute),
			WriteTimeout:   getEnvDuration("SERVER_WRITE_TIMEOUT", 5*time.Minute),
		},
		LLM: LLMConfig{
			Provider:       strings.ToLower(getEnv("LLM_PROVIDER", ProviderGroq)),
			APIKey:         getEnv("GROQ_API_KEY", ""),
			BaseURL:        getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			Timeout:        getEnvDuration("LLM_TIMEOUT", 60*time.Second),
			GoogleAPIKey:   getEnv("GOOGLE_API_KEY", ""),
			GoogleProject:  getEnv("GOOGLE_CLOUD_PROJECT", ""),
			GoogleLocation: getEnv("GOOGLE_CLOUD_LOCATION", "us-central1"),
		},
		OCR: OCRConfig{
			Languages:   splitList(getEnv("OCR_LANGUAGES", "jpn+eng"), "+"),
			PageSegMode: getEnvInt("OCR_PSM", 6),
			DPI:         float64(getEnvInt("OCR_DPI", 300)),
			PageWorkers: getEnvInt("OCR_PAGE_WORKERS", 2),
		},
		Quota: QuotaConfig{
			RedisAddr:  getEnv("REDIS_ADDR", ""),
			TokenLimit: getEnvInt("USER_TOKEN_LIMIT", 0),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	defaultModel := "llama3-70b-8192"
	if cfg.LLM.Provider == ProviderGemini {
		defaultModel = "gemini-2.5-flash"
	}
	cfg.LLM.Model = getEnv("LLM_MODEL", defaultModel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.LLM.Provider {
	case ProviderGroq:
		if c.LLM.APIKey == "" {
			errs = append(errs, errors.New("GROQ_API_KEY env variable is required"))
		}
	case ProviderGemini:
		if c.LLM.GoogleAPIKey == "" && c.LLM.GoogleProject == "" {
			errs = append(errs, errors.New("GOOGLE_API_KEY or GOOGLE_CLOUD_PROJECT is required for the gemini provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LLM_PROVIDER %q", c.LLM.Provider))
	}
	if c.OCR.DPI <= 0 {
		errs = append(errs, errors.New("OCR_DPI must be positive"))
	}
	if c.Server.UploadLimitMB <= 0 {
		errs = append(errs, errors.New("UPLOAD_LIMIT_MB must be positive"))
	}
	return errors.Join(errs...)
}

// QuotaEnabled reports whether a Redis-backed token quota should be wired.
func (c *Config) QuotaEnabled() bool {
	return c.Quota.RedisAddr != "" && c.Quota.TokenLimit > 0
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}

func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
