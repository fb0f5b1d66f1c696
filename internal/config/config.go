package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config carries everything the agents and servers need. Components receive
// the sections they use through their constructors; nothing reads the
// environment after Load.
type Config struct {
	Groq         GroqConfig
	Ollama       OllamaConfig
	Serper       SerperConfig
	RedisAddr    string
	DatabaseURL  string
	ChunkSize    int
	ChunkOverlap int
	HTTPAddr     string
}

type GroqConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OllamaConfig struct {
	BaseURL string
	Model   string
}

type SerperConfig struct {
	APIKey  string
	BaseURL string
}

// Load reads the configuration from the environment, applying defaults for
// everything but the API keys.
func Load() Config {
	return Config{
		Groq: GroqConfig{
			APIKey:  os.Getenv("GROQ_API_KEY"),
			Model:   getenv("GROQ_MODEL", "llama-3.1-70b-versatile"),
			BaseURL: getenv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		},
		Ollama: OllamaConfig{
			BaseURL: getenv("OLLAMA_BASE_URL", "http://localhost:11434"),
			Model:   getenv("EMBEDDING_MODEL", "nomic-embed-text"),
		},
		Serper: SerperConfig{
			APIKey:  os.Getenv("SERPER_API_KEY"),
			BaseURL: getenv("SERPER_BASE_URL", "https://google.serper.dev"),
		},
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		DatabaseURL:  databaseURL(),
		ChunkSize:    getenvInt("CHUNK_SIZE", 1000),
		ChunkOverlap: getenvInt("CHUNK_OVERLAP", 200),
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
	}
}

// databaseURL prefers DATABASE_URL and falls back to assembling a connection
// string from the individual DB_* variables.
func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	username := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	name := os.Getenv("DB_NAME")
	if username == "" || password == "" || host == "" || port == "" || name == "" {
		return ""
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		username, password, host, port, name)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
