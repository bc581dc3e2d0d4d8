package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Ai        AIConfig
	Retrieval RetrievalConfig
	Keys      APIKeys
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection   string
	MaxIdleConns int
	MaxOpenConns int
}

type AIConfig struct {
	EmbeddingProvider  string // "ollama" or "gemini"
	EmbeddingModel     string // must produce 384-dim vectors to match the schema
	OllamaBaseURL      string
	LLMProvider        string // "ollama", "gemini", "huggingface"
	LLMModel           string
	RerankerBaseURL    string // TEI-compatible /rerank endpoint
	RerankerModel      string
	EmbedBackfillTopic string
}

// RetrievalConfig holds the tuning knobs of the two-stage search and the
// feedback-aware composition.
type RetrievalConfig struct {
	KAnnDefault                   int
	KFinalDefault                 int
	QuerySimilarityThreshold      float64 // feedback reuse needs high confidence
	CollectionSimilarityThreshold float64 // collections are advisory, looser
	MaxSimilarQueries             int
	MaxSimilarCollections         int
	ExcerptWindowChars            int
	SnippetChars                  int
}

type APIKeys struct {
	GoogleGemini string
	HuggingFace  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection:   getEnv("DB_CONNECTION_STRING", ""),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
		},
		Ai: AIConfig{
			EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:     getEnv("EMBEDDING_MODEL", "all-minilm"),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMProvider:        getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:           getEnv("LLM_MODEL", "gemini-2.5-flash"),
			RerankerBaseURL:    getEnv("RERANKER_BASE_URL", "http://localhost:8082"),
			RerankerModel:      getEnv("RERANKER_MODEL", "cross-encoder/ms-marco-MiniLM-L-6-v2"),
			EmbedBackfillTopic: getEnv("EMBED_TRANSCRIPT_TOPIC_NAME", "EMBED_TRANSCRIPT"),
		},
		Retrieval: RetrievalConfig{
			KAnnDefault:                   getEnvAsInt("RETRIEVAL_K_ANN", 50),
			KFinalDefault:                 getEnvAsInt("RETRIEVAL_K_FINAL", 10),
			QuerySimilarityThreshold:      getEnvAsFloat("QUERY_SIMILARITY_THRESHOLD", 0.85),
			CollectionSimilarityThreshold: getEnvAsFloat("COLLECTION_SIMILARITY_THRESHOLD", 0.70),
			MaxSimilarQueries:             getEnvAsInt("MAX_SIMILAR_QUERIES", 5),
			MaxSimilarCollections:         getEnvAsInt("MAX_SIMILAR_COLLECTIONS", 10),
			ExcerptWindowChars:            getEnvAsInt("RERANK_EXCERPT_CHARS", 4000),
			SnippetChars:                  getEnvAsInt("SNIPPET_CHARS", 200),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
