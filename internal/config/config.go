package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port         int
	NatsURL      string
	NatsToken    string
	DatabaseURL  string
	LogLevel     string
	GroqAPIKey   string
	ChatModel    string
	WhisperModel string
	APIToken     string
}

func Load() Config {
	return Config{
		Port:         envInt("SAGE_PORT", 8760),
		NatsURL:      envStr("NATS_URL", "nats://nats:4222"),
		NatsToken:    envStr("NATS_TOKEN", ""),
		DatabaseURL:  envStr("DATABASE_URL", ""),
		LogLevel:     envStr("LOG_LEVEL", "info"),
		GroqAPIKey:   envStr("GROQ_API_KEY", ""),
		ChatModel:    envStr("SAGE_CHAT_MODEL", "llama-3.3-70b-versatile"),
		WhisperModel: envStr("SAGE_WHISPER_MODEL", "whisper-large-v3"),
		APIToken:     envStr("SAGE_API_TOKEN", ""),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
