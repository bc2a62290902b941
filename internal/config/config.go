package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Services ServicesConfig
	Measure  MeasureConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string
}

// Enabled reports whether enough is configured to open a pool. The
// measures sink is optional; CSV output is the primary sink.
func (d DatabaseConfig) Enabled() bool {
	return d.DBHost != "" && d.DBName != ""
}

func (d DatabaseConfig) DSN() string {
	sslMode := d.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	port := d.DBPort
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.DBHost, port, d.DBUser, d.DBPassword, d.DBName, sslMode,
	)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

func (r RedisConfig) Addr() string {
	port := r.Port
	if port == "" {
		port = "6379"
	}
	return r.Host + ":" + port
}

// ServicesConfig points at the model-serving sidecars. The embedder is
// mandatory; the recogniser and sentence classifier back the skill and
// industry axes respectively.
type ServicesConfig struct {
	EmbedURL      string
	NERURL        string
	ClassifierURL string
}

type MeasureConfig struct {
	ReferenceDir   string
	GreenModelPath string
	ChunkSize      int
	Workers        int
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	return load(true)
}

// LoadBatch loads config for the batch CLI, which has no HTTP surface and
// so skips the app-level requirements.
func LoadBatch() (Config, error) {
	return load(false)
}

func load(server bool) (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optInt := func(key string, fallback int) int {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return fallback
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return fallback
		}
		return v
	}

	if server {
		cfg.App = AppConfig{
			AppName:     req("APP_NAME"),
			Environment: req("APP_ENV"),
			HTTPPort:    req("HTTP_PORT"),
		}
	} else {
		cfg.App = AppConfig{
			AppName:     opt("APP_NAME"),
			Environment: opt("APP_ENV"),
		}
	}

	cfg.Services = ServicesConfig{
		EmbedURL:      req("EMBED_SERVICE_URL"),
		NERURL:        req("NER_SERVICE_URL"),
		ClassifierURL: req("CLASSIFIER_SERVICE_URL"),
	}

	cfg.Measure = MeasureConfig{
		ReferenceDir:   req("REFERENCE_DIR"),
		GreenModelPath: req("GREEN_MODEL_PATH"),
		ChunkSize:      optInt("MEASURE_CHUNK_SIZE", 500),
		Workers:        optInt("MEASURE_WORKERS", 1),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}
