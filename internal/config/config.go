package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/campus-attendance-go/internal/domain/attendance"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	CORS       CORSConfig
	Attendance AttendanceConfig
	Cache      CacheConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// AttendanceConfig holds the default lateness cutoffs in HH:MM.
type AttendanceConfig struct {
	LateCutoff  string `yaml:"lateCutoff"`
	EarlyCutoff string `yaml:"earlyCutoff"`
}

// CacheConfig sizes the approval resolution cache.
type CacheConfig struct {
	Size          int
	PruneInterval time.Duration
}

// policyFile is the optional YAML document named by POLICY_FILE. Values
// present in it override the environment.
type policyFile struct {
	Attendance AttendanceConfig `yaml:"attendance"`
	Cache      struct {
		Size          *int   `yaml:"size"`
		PruneInterval string `yaml:"pruneInterval"`
	} `yaml:"cache"`
}

// Load reads .env when present, then the environment, then POLICY_FILE.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "campus_attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	config.Attendance = AttendanceConfig{
		LateCutoff:  getEnv("ATTENDANCE_LATE_CUTOFF", "09:00"),
		EarlyCutoff: getEnv("ATTENDANCE_EARLY_CUTOFF", "16:00"),
	}

	// Resolution cache
	cacheSize, err := strconv.Atoi(getEnv("RESOLUTION_CACHE_SIZE", "10000"))
	if err != nil {
		return nil, fmt.Errorf("invalid RESOLUTION_CACHE_SIZE: %w", err)
	}
	pruneInterval, err := time.ParseDuration(getEnv("RESOLUTION_CACHE_PRUNE_INTERVAL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RESOLUTION_CACHE_PRUNE_INTERVAL: %w", err)
	}
	config.Cache = CacheConfig{
		Size:          cacheSize,
		PruneInterval: pruneInterval,
	}

	if path := getEnv("POLICY_FILE", ""); path != "" {
		if err := config.applyPolicyFile(path); err != nil {
			return nil, err
		}
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) applyPolicyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read POLICY_FILE: %w", err)
	}

	var policy policyFile
	if err := yaml.Unmarshal(raw, &policy); err != nil {
		return fmt.Errorf("invalid POLICY_FILE %s: %w", path, err)
	}

	if policy.Attendance.LateCutoff != "" {
		c.Attendance.LateCutoff = policy.Attendance.LateCutoff
	}
	if policy.Attendance.EarlyCutoff != "" {
		c.Attendance.EarlyCutoff = policy.Attendance.EarlyCutoff
	}
	if policy.Cache.Size != nil {
		c.Cache.Size = *policy.Cache.Size
	}
	if policy.Cache.PruneInterval != "" {
		d, err := time.ParseDuration(policy.Cache.PruneInterval)
		if err != nil {
			return fmt.Errorf("invalid cache.pruneInterval in POLICY_FILE: %w", err)
		}
		c.Cache.PruneInterval = d
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := c.AttendanceDefaults(); err != nil {
		return err
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("RESOLUTION_CACHE_SIZE must not be negative")
	}
	return nil
}

// AttendanceDefaults parses the configured cutoffs for the classifier.
func (c *Config) AttendanceDefaults() (attendance.Config, error) {
	late, err := attendance.ParseClockTime(c.Attendance.LateCutoff)
	if err != nil {
		return attendance.Config{}, fmt.Errorf("%w: late cutoff: %v", attendance.ErrInvalidCutoff, err)
	}
	early, err := attendance.ParseClockTime(c.Attendance.EarlyCutoff)
	if err != nil {
		return attendance.Config{}, fmt.Errorf("%w: early cutoff: %v", attendance.ErrInvalidCutoff, err)
	}
	return attendance.Config{LateCutoff: late, EarlyCutoff: early}, nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
