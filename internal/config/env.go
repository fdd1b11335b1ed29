package config

import (
	"log/slog"

	"github.com/joho/godotenv"
)

// loadEnvFiles loads .env/.env.local before env expansion of the config
// file. Existing process environment variables are not overwritten; a
// missing file is not an error.
func loadEnvFiles() {
	for _, path := range []string{".env", ".env.local"} {
		if err := godotenv.Load(path); err == nil {
			slog.Debug("Loaded environment variables", slog.String("file", path))
		}
	}
}
