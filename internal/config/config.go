package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the client-side configuration, populated from environment
// variables. A .env file is loaded by the entrypoint before Load runs.
type Config struct {
	// BackendBaseURL is the analysis backend, e.g. http://localhost:8080.
	BackendBaseURL string
	// WeatherBaseURL is the optional weather provider; empty disables it.
	WeatherBaseURL string
	// SpeechProvider selects the capture backend: "bridge", "google" or
	// "mock". Empty picks bridge when SpeechBridgeURL is set, mock otherwise.
	SpeechProvider string
	// SpeechBridgeURL is the WebSocket capture bridge for the bridge provider.
	SpeechBridgeURL string
	// SpeechSampleRate and SpeechEncoding describe audio fed to the google
	// provider.
	SpeechSampleRate int
	SpeechEncoding   string
	// Language is the recognition language tag for voice queries.
	Language string
	// RequestTimeout bounds every analysis call.
	RequestTimeout time.Duration
	// ProbeInterval is how often backend reachability is re-checked.
	ProbeInterval time.Duration
	// HistoryLimit caps the local history echo.
	HistoryLimit int
	// JWTSecret verifies the optional user token.
	JWTSecret string
	// UserToken carries the stable user id; empty falls back to guest.
	UserToken string
}

// Load reads the configuration from the environment, applying defaults.
func Load() Config {
	return Config{
		BackendBaseURL:   getEnv("BACKEND_BASE_URL", "http://localhost:8080"),
		WeatherBaseURL:   os.Getenv("WEATHER_BASE_URL"),
		SpeechProvider:   os.Getenv("SPEECH_PROVIDER"),
		SpeechBridgeURL:  os.Getenv("SPEECH_BRIDGE_URL"),
		SpeechSampleRate: getInt("SPEECH_SAMPLE_RATE", 16000),
		SpeechEncoding:   getEnv("SPEECH_ENCODING", "LINEAR16"),
		Language:         getEnv("ASSISTANT_LANGUAGE", "hi-IN"),
		RequestTimeout:   getDuration("REQUEST_TIMEOUT", 30*time.Second),
		ProbeInterval:    getDuration("PROBE_INTERVAL", 15*time.Second),
		HistoryLimit:     getInt("HISTORY_LIMIT", 10),
		JWTSecret:        getEnv("JWT_SECRET", "development-secret"),
		UserToken:        os.Getenv("USER_TOKEN"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
