package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

type Config struct {
	MainRoutes string
	AppPort    string

	// SnapshotPath is the file the store is loaded from and written to
	// after every commit.
	SnapshotPath string
	NodeID       int64
	SeedDemo     bool

	// JWTSecret verifies bearer tokens. Empty disables authentication.
	JWTSecret string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	AlertFrom    string
	AlertEmails  []string

	AllowedOrigins map[string]bool
}

// Load membaca file .env lalu environment variable, dengan nilai default
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() *Config {
	return &Config{
		MainRoutes: getEnv("MAIN_ROUTES", "/api/v1"),
		AppPort:    getEnv("APP_PORT", "9000"),

		SnapshotPath: getEnv("SNAPSHOT_PATH", "data/stock.db"),
		NodeID:       int64(getEnvAsInt("NODE_ID", 1)),
		SeedDemo:     getEnvAsBool("SEED_DEMO", false),

		JWTSecret: getEnv("JWT_SECRET", ""),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 465),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		AlertFrom:    getEnv("ALERT_FROM", ""),
		AlertEmails:  getEnvAsList("ALERT_EMAILS"),

		AllowedOrigins: loadAllowedOrigins(),
	}
}

// getEnv membaca environment variable dengan nilai default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt membaca environment variable sebagai integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool membaca environment variable sebagai boolean
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var out []string
	for _, v := range strings.Split(getEnv(key, ""), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// loadAllowedOrigins memuat daftar origin yang diizinkan dari environment variable
func loadAllowedOrigins() map[string]bool {
	origins := getEnvAsList("ALLOWED_ORIGINS")
	if len(origins) == 0 {
		return map[string]bool{
			"http://127.0.0.1:3000": true,
		}
	}

	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		allowed[origin] = true
	}
	return allowed
}

func (c *Config) SetupCORS(app *fiber.App) {
	app.Use(func(ctx *fiber.Ctx) error {
		origin := ctx.Get("Origin")
		if c.AllowedOrigins[origin] {
			ctx.Set("Access-Control-Allow-Origin", origin)
			ctx.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			ctx.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Request-ID")
			ctx.Set("Access-Control-Allow-Credentials", "true")
		}

		// Handle preflight request
		if ctx.Method() == fiber.MethodOptions {
			return ctx.SendStatus(fiber.StatusNoContent)
		}
		return ctx.Next()
	})
}
