// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
	GetAuthDevBypass() bool
	GetEnv() string
}

// AuthServiceConfig provides settings needed by the auth service.
type AuthServiceConfig interface {
	JWTConfig
	GetAccessTokenTTL() time.Duration
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// OpenAIConfig provides settings for the OpenAI chat and embedding APIs.
type OpenAIConfig interface {
	GetOpenAIAPIKey() string
	GetOpenAIModel() string
	GetOpenAITemperature() float32
	GetOpenAIMaxTokens() int
	GetOpenAIEmbeddingModel() string
}

// QdrantConfig provides settings for the Qdrant vector database.
type QdrantConfig interface {
	GetQdrantURL() string
	GetQdrantAPIKey() string
	GetQdrantCollection() string
	IsQdrantEnabled() bool
}

// RetrievalConfig provides tuning knobs for knowledge-base retrieval.
type RetrievalConfig interface {
	GetVectorTopK() int
	GetVectorSimilarityThreshold() float64
	GetChunkSize() int
	GetChunkOverlap() int
}

// PipelineConfig provides tuning knobs for the conversation pipeline.
type PipelineConfig interface {
	GetMaxConversationHistory() int
	GetRetrievalTimeout() time.Duration
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinioBucketProductImages() string
	IsMinIOEnabled() bool
}

// EmailConfig provides settings for SMTP email sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// SchedulerConfig provides settings for the asynq job scheduler.
type SchedulerConfig interface {
	GetRedisURL() string
	GetAsynqQueueName() string
}

// TrainingConfig provides settings for document ingestion.
type TrainingConfig interface {
	GetMaxUploadSize() int64
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                       string
	HTTPAddr                  string
	DatabaseURL               string
	JWTAccessSecret           string
	AccessTokenTTL            time.Duration
	AuthDevBypass             bool
	CORSAllowAll              bool
	CORSOrigins               []string
	CORSAllowCreds            bool
	OpenAIAPIKey              string
	OpenAIModel               string
	OpenAITemperature         float32
	OpenAIMaxTokens           int
	OpenAIEmbeddingModel      string
	QdrantURL                 string
	QdrantAPIKey              string
	QdrantCollection          string
	VectorTopK                int
	VectorSimilarityThreshold float64
	ChunkSize                 int
	ChunkOverlap              int
	MaxConversationHistory    int
	RetrievalTimeout          time.Duration
	MaxUploadSize             int64
	MinIOEndpoint             string
	MinIOAccessKey            string
	MinIOSecretKey            string
	MinIOUseSSL               bool
	MinIOMaxFileSize          int64
	MinioBucketProductImages  string
	EmailEnabled              bool
	SMTPHost                  string
	SMTPPort                  int
	SMTPUsername              string
	SMTPPassword              string
	EmailFromName             string
	EmailFromAddress          string
	RedisURL                  string
	AsynqQueueName            string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }
func (c *Config) GetAuthDevBypass() bool     { return c.AuthDevBypass }
func (c *Config) GetEnv() string             { return c.Env }

// AuthServiceConfig implementation
func (c *Config) GetAccessTokenTTL() time.Duration { return c.AccessTokenTTL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// OpenAIConfig implementation
func (c *Config) GetOpenAIAPIKey() string         { return c.OpenAIAPIKey }
func (c *Config) GetOpenAIModel() string          { return c.OpenAIModel }
func (c *Config) GetOpenAITemperature() float32   { return c.OpenAITemperature }
func (c *Config) GetOpenAIMaxTokens() int         { return c.OpenAIMaxTokens }
func (c *Config) GetOpenAIEmbeddingModel() string { return c.OpenAIEmbeddingModel }

// QdrantConfig implementation
func (c *Config) GetQdrantURL() string        { return c.QdrantURL }
func (c *Config) GetQdrantAPIKey() string     { return c.QdrantAPIKey }
func (c *Config) GetQdrantCollection() string { return c.QdrantCollection }
func (c *Config) IsQdrantEnabled() bool {
	return c.QdrantURL != "" && c.QdrantCollection != ""
}

// RetrievalConfig implementation
func (c *Config) GetVectorTopK() int                    { return c.VectorTopK }
func (c *Config) GetVectorSimilarityThreshold() float64 { return c.VectorSimilarityThreshold }
func (c *Config) GetChunkSize() int                     { return c.ChunkSize }
func (c *Config) GetChunkOverlap() int                  { return c.ChunkOverlap }

// PipelineConfig implementation
func (c *Config) GetMaxConversationHistory() int     { return c.MaxConversationHistory }
func (c *Config) GetRetrievalTimeout() time.Duration { return c.RetrievalTimeout }

// TrainingConfig implementation
func (c *Config) GetMaxUploadSize() int64 { return c.MaxUploadSize }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string            { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string           { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string           { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool                { return c.MinIOUseSSL }
func (c *Config) GetMinIOMaxFileSize() int64          { return c.MinIOMaxFileSize }
func (c *Config) GetMinioBucketProductImages() string { return c.MinioBucketProductImages }
func (c *Config) IsMinIOEnabled() bool                { return c.MinIOEndpoint != "" }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	smtpHost := getEnv("SMTP_HOST", "")
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")

	cfg := &Config{
		Env:                       getEnv("APP_ENV", "development"),
		HTTPAddr:                  getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:               getEnv("DATABASE_URL", ""),
		JWTAccessSecret:           getEnv("JWT_ACCESS_SECRET", ""),
		AccessTokenTTL:            mustDuration(getEnv("JWT_ACCESS_TTL", "30m")),
		AuthDevBypass:             strings.EqualFold(getEnv("AUTH_DEV_BYPASS", "false"), "true"),
		CORSAllowAll:              corsAllowAll,
		CORSOrigins:               corsOrigins,
		CORSAllowCreds:            strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		OpenAIAPIKey:              getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:               getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAITemperature:         mustFloat32(getEnv("OPENAI_TEMPERATURE", "0.7")),
		OpenAIMaxTokens:           mustInt(getEnv("OPENAI_MAX_TOKENS", "120")),
		OpenAIEmbeddingModel:      getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-ada-002"),
		QdrantURL:                 getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantAPIKey:              getEnv("QDRANT_API_KEY", ""),
		QdrantCollection:          getEnv("QDRANT_COLLECTION", "sales_agents"),
		VectorTopK:                mustInt(getEnv("VECTOR_TOP_K", "3")),
		VectorSimilarityThreshold: mustFloat64(getEnv("VECTOR_SIMILARITY_THRESHOLD", "0.7")),
		ChunkSize:                 mustInt(getEnv("CHUNK_SIZE", "1000")),
		ChunkOverlap:              mustInt(getEnv("CHUNK_OVERLAP", "200")),
		MaxConversationHistory:    mustInt(getEnv("MAX_CONVERSATION_HISTORY", "2")),
		RetrievalTimeout:          mustDuration(getEnv("RETRIEVAL_TIMEOUT", "500ms")),
		MaxUploadSize:             mustInt64(getEnv("MAX_UPLOAD_SIZE", "10485760")),
		MinIOEndpoint:             getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:            getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:            getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:               strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOMaxFileSize:          mustInt64(getEnv("MINIO_MAX_FILE_SIZE", "10485760")),
		MinioBucketProductImages:  getEnv("MINIO_BUCKET_PRODUCT_IMAGES", "product-images"),
		EmailEnabled:              emailEnabled && smtpHost != "",
		SMTPHost:                  smtpHost,
		SMTPPort:                  mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:              getEnv("SMTP_USERNAME", ""),
		SMTPPassword:              getEnv("SMTP_PASSWORD", ""),
		EmailFromName:             getEnv("EMAIL_FROM_NAME", "ConvoSell"),
		EmailFromAddress:          getEnv("EMAIL_FROM_ADDRESS", ""),
		RedisURL:                  getEnv("REDIS_URL", ""),
		AsynqQueueName:            getEnv("ASYNQ_QUEUE", "default"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if cfg.AuthDevBypass && !strings.EqualFold(cfg.Env, "development") {
		return nil, fmt.Errorf("AUTH_DEV_BYPASS is only allowed when APP_ENV is development")
	}
	if cfg.EmailEnabled && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat32(value string) float32 {
	result, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return 0
	}
	return float32(result)
}

func mustFloat64(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
