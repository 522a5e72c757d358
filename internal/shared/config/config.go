package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port               string
	CORSAllowOrigin    []string
	ObjectStoreType    string
	LocalStoreDir      string
	PublicBaseURL      string
	AWSRegion          string
	S3Bucket           string
	S3Prefix           string
	SSEKMSKeyID        string
	CloudinaryName     string
	CloudinaryKey      string
	CloudinarySecret   string
	CloudinaryFolder   string
	LLMProvider        string
	LLMModel           string
	OpenAIAPIKey       string
	GeminiAPIKey       string
	DatabaseURL        string
	DBPool             db.Options
	Env                string
	StripeWebhookKey   string
	RedisAddr          string
	RedisPassword      string
	KafkaBrokers       []string
	ReconcileTopic     string
	EnhanceQueueURL    string
	EnhancePollEvery   time.Duration
	EnhanceMaxPolls    int
	ChromePath         string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string
}

var defaults = map[string]any{
	"PORT":                  "8080",
	"ENV":                   "dev",
	"CORS_ALLOW_ORIGINS":    "http://localhost:5173",
	"OBJECT_STORE":          "local",
	"LOCAL_STORE_DIR":       "./data",
	"PUBLIC_BASE_URL":       "http://localhost:8080",
	"CLOUDINARY_FOLDER":     "resume-images",
	"LLM_PROVIDER":          "openai",
	"RECONCILE_TOPIC":       "billing.reconciliation",
	"ENHANCE_POLL_INTERVAL": "2s",
	"ENHANCE_MAX_POLLS":     30,
}

// Load reads configuration from .env files and environment variables.
func Load() Config {
	// Missing files are expected outside local development.
	for _, path := range []string{".env", "cmd/.env"} {
		_ = godotenv.Load(path)
	}

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()

	env := normalizeEnv(v.GetString("ENV"))
	dbURL := strings.TrimSpace(v.GetString("DATABASE_URL"))
	if env == "production" && dbURL == "" {
		telemetry.Error("config.database_url_missing", map[string]any{"env": env})
	}

	pollEvery := v.GetDuration("ENHANCE_POLL_INTERVAL")
	if pollEvery <= 0 {
		pollEvery = 2 * time.Second
	}
	maxPolls := v.GetInt("ENHANCE_MAX_POLLS")
	if maxPolls <= 0 {
		maxPolls = 30
	}

	return Config{
		Port:               v.GetString("PORT"),
		CORSAllowOrigin:    splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		ObjectStoreType:    normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:      v.GetString("LOCAL_STORE_DIR"),
		PublicBaseURL:      strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),
		AWSRegion:          v.GetString("AWS_REGION"),
		S3Bucket:           v.GetString("S3_BUCKET"),
		S3Prefix:           v.GetString("S3_PREFIX"),
		SSEKMSKeyID:        v.GetString("SSE_KMS_KEY_ID"),
		CloudinaryName:     v.GetString("CLOUDINARY_CLOUD_NAME"),
		CloudinaryKey:      v.GetString("CLOUDINARY_API_KEY"),
		CloudinarySecret:   v.GetString("CLOUDINARY_API_SECRET"),
		CloudinaryFolder:   v.GetString("CLOUDINARY_FOLDER"),
		LLMProvider:        normalizeProvider(v.GetString("LLM_PROVIDER")),
		LLMModel:           v.GetString("LLM_MODEL"),
		OpenAIAPIKey:       v.GetString("OPENAI_API_KEY"),
		GeminiAPIKey:       v.GetString("GEMINI_API_KEY"),
		DatabaseURL:        dbURL,
		DBPool: db.Options{
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: v.GetDuration("DB_CONN_MAX_IDLE_TIME"),
			PingTimeout:     v.GetDuration("DB_PING_TIMEOUT"),
		},
		Env:                env,
		StripeWebhookKey:   v.GetString("STRIPE_WEBHOOK_SECRET"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		KafkaBrokers:       splitAndTrim(v.GetString("KAFKA_BROKERS")),
		ReconcileTopic:     v.GetString("RECONCILE_TOPIC"),
		EnhanceQueueURL:    v.GetString("ENHANCE_QUEUE_URL"),
		EnhancePollEvery:   pollEvery,
		EnhanceMaxPolls:    maxPolls,
		ChromePath:         v.GetString("CHROME_PATH"),
		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),
		UIRedirectURL:      v.GetString("UI_REDIRECT_URL"),
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "cloudinary":
		return "cloudinary"
	default:
		return "local"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	case "gemini", "google":
		return "gemini"
	default:
		return "none"
	}
}
