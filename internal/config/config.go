package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BaseURL     string
	APIPrefix   string
	HTTPTimeout time.Duration
	UrgentAfter time.Duration
	SessionFile string
	LogLevel    string
	QROutputDir string
}

type StubConfig struct {
	Addr          string
	JWTSecret     string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	BcryptCost    int
	RatePerSecond float64
	RateBurst     int
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment defaults")
	}

	return Config{
		BaseURL:     getEnv("API_BASE_URL", "http://localhost:8080"),
		APIPrefix:   getEnv("API_PREFIX", "/api/v1"),
		HTTPTimeout: time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		UrgentAfter: time.Duration(getEnvInt("URGENT_THRESHOLD_MINUTES", 30)) * time.Minute,
		SessionFile: getEnv("SESSION_FILE", defaultSessionFile()),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		QROutputDir: getEnv("QR_OUTPUT_DIR", "."),
	}
}

func LoadStub() StubConfig {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment defaults")
	}

	return StubConfig{
		Addr:          getEnv("STUB_ADDR", ":8080"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-only-secret"),
		AccessTTL:     time.Duration(getEnvInt("ACCESS_TTL_MIN", 15)) * time.Minute,
		RefreshTTL:    time.Duration(getEnvInt("REFRESH_TTL_DAYS", 7)) * 24 * time.Hour,
		BcryptCost:    getEnvInt("BCRYPT_COST", 10),
		RatePerSecond: getEnvFloat("RATE_PER_SECOND", 50),
		RateBurst:     getEnvInt("RATE_BURST", 100),
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".comanda-session.json"
	}
	return filepath.Join(home, ".comanda", "session.json")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid int for %s: %q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("invalid float for %s: %q, using %g", key, v, fallback)
		return fallback
	}
	return f
}
