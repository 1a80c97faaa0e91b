package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Keys     APIKeys
	Ai       AIConfig
	Sms      SmsConfig
	Storage  StorageConfig
	Credits  CreditConfig
	Payment  PaymentConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	AuditLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type JWTConfig struct {
	Secret     string
	ExpiryDays int
}

type APIKeys struct {
	GoogleGemini string
}

type AIConfig struct {
	Model       string // Gemini chat model, e.g. "gemini-2.0-flash"
	VisionModel string // model used for image description
}

type SmsConfig struct {
	Provider   string // "log" ships the code to the app log only
	ApiKey     string
	SenderLine string
	OtpTtlMin  int
}

type StorageConfig struct {
	Driver    string // "s3" or "local"
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	LocalDir  string
}

type CreditConfig struct {
	// Signup grants per service.
	DefaultChat      int
	DefaultEmbedding int
	DefaultPanorama  int
	DefaultEye2D     int
	// Hard cap on messages per session, counted before a new exchange.
	SessionMessageLimit int
	// Max characters accepted for one user message.
	MaxChatLength int
}

type PaymentConfig struct {
	MidtransServerKey string
	MidtransClientKey string
	Production        bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			AuditLogFilePath:   getEnv("AUDIT_LOG_FILE_PATH", "audit.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", ""),
			ExpiryDays: getEnvAsInt("JWT_EXPIRY_DAYS", 30),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Ai: AIConfig{
			Model:       getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			VisionModel: getEnv("GEMINI_VISION_MODEL", "gemini-2.0-flash"),
		},
		Sms: SmsConfig{
			Provider:   getEnv("SMS_PROVIDER", "log"),
			ApiKey:     getEnv("SMS_API_KEY", ""),
			SenderLine: getEnv("SMS_SENDER_LINE", ""),
			OtpTtlMin:  getEnvAsInt("OTP_TTL_MINUTES", 5),
		},
		Storage: StorageConfig{
			Driver:    getEnv("STORAGE_DRIVER", "local"),
			Endpoint:  getEnv("STORAGE_ENDPOINT", ""),
			Region:    getEnv("STORAGE_REGION", "default"),
			Bucket:    getEnv("STORAGE_BUCKET", ""),
			AccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey: getEnv("STORAGE_SECRET_KEY", ""),
			LocalDir:  getEnv("STORAGE_LOCAL_DIR", "./uploads"),
		},
		Credits: CreditConfig{
			DefaultChat:         getEnvAsInt("CREDITS_DEFAULT_CHAT", 40),
			DefaultEmbedding:    getEnvAsInt("CREDITS_DEFAULT_EMBEDDING", 5000),
			DefaultPanorama:     getEnvAsInt("CREDITS_DEFAULT_PANORAMA", 1),
			DefaultEye2D:        getEnvAsInt("CREDITS_DEFAULT_EYE_2D", 0),
			SessionMessageLimit: getEnvAsInt("SESSION_MESSAGE_LIMIT", 13),
			MaxChatLength:       getEnvAsInt("MAX_CHAT_LENGTH", 2000),
		},
		Payment: PaymentConfig{
			MidtransServerKey: getEnv("MIDTRANS_SERVER_KEY", ""),
			MidtransClientKey: getEnv("MIDTRANS_CLIENT_KEY", ""),
			Production:        getEnv("MIDTRANS_ENV", "sandbox") == "production",
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
