package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
// Loaded once in main and passed down - no package pokes at os.Getenv later.
type Config struct {
	DBDSN             string
	BaseURL           string
	JWTSecret         string
	UploadDir         string
	WhatsAppNumber    string // merchant number for the order handoff deep link
	GeminiAPIKey      string
	AllowRegistration bool
	CORSOrigins       []string
}

// Load reads .env (if present) and assembles the config.
// Only the database DSN is mandatory; everything else has a dev default.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}

	cfg := &Config{
		DBDSN:             os.Getenv("DB_DSN"),
		BaseURL:           getEnv("BASE_URL", "http://localhost:8080"),
		JWTSecret:         getEnv("JWT_SECRET", "dev_only_secret_change_me"),
		UploadDir:         getEnv("UPLOAD_DIR", "./uploads"),
		WhatsAppNumber:    getEnv("WHATSAPP_NUMBER", "639000000000"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		AllowRegistration: os.Getenv("ALLOW_REGISTRATION") == "true",
		CORSOrigins:       []string{getEnv("CORS_ORIGIN", "http://localhost:5173")},
	}

	if cfg.DBDSN == "" {
		log.Fatal("❌ Error: DB_DSN not found in .env file. Please configure your database.")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
