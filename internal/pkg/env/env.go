package env

import (
	"os"

	"github.com/joho/godotenv"
)

var Env map[string]string

func GetEnv(key, def string) string {
	if val, ok := Env[key]; ok {
		return val
	}
	// Fallback to OS environment variables (for Docker/tests)
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// SetupEnvFile loads the .env file from the project root. A missing file is
// tolerated so containerized deployments can rely on real env vars alone.
func SetupEnvFile() {
	envFiles := []string{
		".env",
		"../../.env",
	}

	for _, envFile := range envFiles {
		if parsed, err := godotenv.Read(envFile); err == nil {
			Env = parsed
			return
		}
	}
}

func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
