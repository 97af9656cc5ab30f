package config

import "os"

type Config struct {
	ListenAddr   string
	DBPath       string
	BasePath     string
	LogLevel     string
	LogFormat    string
	LogFile      string
	ClaudeAPIKey string
	ClaudeModel  string
}

func Load() *Config {
	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
		DBPath:     getEnv("DB_PATH", "mapnotes.db"),
		// BasePath prefixes asset and link URLs when the app is served
		// from a subpath (e.g. behind a reverse proxy at /mapnotes/).
		BasePath:     getEnv("BASE_PATH", "/"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		LogFile:      getEnv("LOG_FILE", ""),
		ClaudeAPIKey: getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:  getEnv("CLAUDE_MODEL", "claude-3-5-sonnet-latest"),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
