package config

import (
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      int
	PublicURL string
	DBDSN     string

	// cookie store key for the organizer workspace token
	SessionSecret string
	CORSOrigins   []string

	// geofence around the classroom
	TargetLatitude  float64
	TargetLongitude float64
	AllowedRadiusKM float64

	QRSize int

	AllocationPort    int
	AllocationCSVPath string
}

// LoadEnv reads .env if there is one. Variables already present in the
// environment win over the file.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("[CONFIG] no .env file found, using environment")
	} else {
		log.Println("[CONFIG] loaded .env")
	}
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:              envInt("PORT", 8501),
		PublicURL:         strings.TrimRight(envStr("PUBLIC_URL", "http://localhost:8501"), "/"),
		DBDSN:             envStr("ATTENDANCE_DB_DSN", "file:attendance?mode=memory&cache=shared"),
		SessionSecret:     envStr("SESSION_SECRET", "qr-attendance-dev-secret"),
		CORSOrigins:       envList("CORS_ORIGINS"),
		TargetLatitude:    envFloat("TARGET_LATITUDE", 18.88132),
		TargetLongitude:   envFloat("TARGET_LONGITUDE", 77.91965),
		AllowedRadiusKM:   envFloat("ALLOWED_RADIUS_KM", 0.5),
		QRSize:            envInt("QR_SIZE", 300),
		AllocationPort:    envInt("ALLOCATION_PORT", 8502),
		AllocationCSVPath: envStr("ALLOCATION_CSV_PATH", "student_college_allocations_system.csv"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.AllocationPort < 1 || c.AllocationPort > 65535 {
		return fmt.Errorf("ALLOCATION_PORT must be between 1 and 65535, got %d", c.AllocationPort)
	}
	if c.PublicURL == "" {
		return fmt.Errorf("PUBLIC_URL must not be empty")
	}
	if c.DBDSN == "" {
		return fmt.Errorf("ATTENDANCE_DB_DSN must not be empty")
	}
	if len(c.SessionSecret) < 16 {
		return fmt.Errorf("SESSION_SECRET must be at least 16 bytes")
	}
	if math.Abs(c.TargetLatitude) > 90 {
		return fmt.Errorf("TARGET_LATITUDE must be within [-90, 90], got %f", c.TargetLatitude)
	}
	if math.Abs(c.TargetLongitude) > 180 {
		return fmt.Errorf("TARGET_LONGITUDE must be within [-180, 180], got %f", c.TargetLongitude)
	}
	if !(c.AllowedRadiusKM > 0) {
		return fmt.Errorf("ALLOWED_RADIUS_KM must be positive, got %f", c.AllowedRadiusKM)
	}
	if c.QRSize < 64 {
		return fmt.Errorf("QR_SIZE must be at least 64, got %d", c.QRSize)
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envList(key string) []string {
	var out []string
	for _, p := range strings.Split(os.Getenv(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
