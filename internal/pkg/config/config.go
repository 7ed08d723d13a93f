package config

import (
	"strings"
	"time"

	"github.com/facegate/facegate/internal/pkg/env"
)

// Config holds all process-wide settings. It is resolved once at startup and
// never mutated afterwards; consumers receive it by value.
type Config struct {
	AppHost string
	AppPort string

	JWTSecret     string
	SessionMaxAge time.Duration
	SecureCookies bool

	AIEngineURL string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPSender   string
}

const defaultAIEngineURL = "http://147.93.86.218:8000"

var current Config

// Load resolves the configuration from the environment. Call once in main
// after env.SetupEnvFile.
func Load() Config {
	current = Config{
		AppHost:       env.GetEnv("APP_HOST", "localhost"),
		AppPort:       env.GetEnv("APP_PORT", "4000"),
		JWTSecret:     env.GetEnv("JWT_SECRET", "My_Jwt_Secret"),
		SessionMaxAge: 7 * 24 * time.Hour,
		SecureCookies: !env.IsDev(),
		AIEngineURL:   strings.TrimRight(env.GetEnv("AI_ENGINE_URL", defaultAIEngineURL), "/"),
		SMTPHost:      env.GetEnv("SMTP_HOST", ""),
		SMTPPort:      env.GetEnv("SMTP_PORT", "587"),
		SMTPUsername:  env.GetEnv("SMTP_USERNAME", ""),
		SMTPPassword:  env.GetEnv("SMTP_PASSWORD", ""),
		SMTPSender:    env.GetEnv("SMTP_SENDER", ""),
	}
	return current
}

// Get returns the configuration loaded at startup.
func Get() Config {
	return current
}
