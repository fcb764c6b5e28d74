package utils

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported storage backends
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	JWT      JWTConfig
	Session  SessionConfig
	OMDb     OMDbConfig
}

type AppConfig struct {
	Name      string
	Port      string
	Debug     bool
	LogPath   string
	ClientURL string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type MongoConfig struct {
	URI      string
	Database string
}

type JWTConfig struct {
	Secret      string
	Issuer      string
	ExpiryHours int
}

type SessionConfig struct {
	CookieName string
	Secure     bool
}

type OMDbConfig struct {
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	Featured []string
}

// TokenTTL returns the lifetime shared by bearer tokens and sessions.
func (c JWTConfig) TokenTTL() time.Duration {
	if c.ExpiryHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.ExpiryHours) * time.Hour
}

// DefaultFeaturedMovies is the curated list served by GET /api/movies/top.
var DefaultFeaturedMovies = []string{
	"tt1375666", // Inception
	"tt0468569", // The Dark Knight
	"tt0816692", // Interstellar
	"tt0133093", // The Matrix
	"tt0111161", // The Shawshank Redemption
	"tt0068646", // The Godfather
	"tt0110912", // Pulp Fiction
	"tt0109830", // Forrest Gump
	"tt0137523", // Fight Club
	"tt0120737", // The Lord of the Rings: The Fellowship of the Ring
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "cinephile")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("CLIENT_URL", "http://localhost:5173")
	viper.SetDefault("DB_DRIVER", DriverMongo)
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB", "cinephile")
	viper.SetDefault("JWT_ISSUER", "cinephile")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("SESSION_COOKIE", "cinephile_session")
	viper.SetDefault("COOKIE_SECURE", false)
	viper.SetDefault("OMDB_BASE_URL", "https://www.omdbapi.com/")
	viper.SetDefault("OMDB_TIMEOUT_SECONDS", 10)
	viper.SetDefault("FEATURED_MOVIES", strings.Join(DefaultFeaturedMovies, ","))

	// .env is optional, plain environment variables are enough in containers
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:      viper.GetString("APP_NAME"),
			Port:      viper.GetString("PORT"),
			Debug:     viper.GetBool("DEBUG"),
			LogPath:   viper.GetString("LOG_PATH"),
			ClientURL: viper.GetString("CLIENT_URL"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(viper.GetString("DB_DRIVER")),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Mongo: MongoConfig{
			URI:      viper.GetString("MONGO_URI"),
			Database: viper.GetString("MONGO_DB"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			Issuer:      viper.GetString("JWT_ISSUER"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		Session: SessionConfig{
			CookieName: viper.GetString("SESSION_COOKIE"),
			Secure:     viper.GetBool("COOKIE_SECURE"),
		},
		OMDb: OMDbConfig{
			BaseURL:  viper.GetString("OMDB_BASE_URL"),
			APIKey:   viper.GetString("OMDB_API_KEY"),
			Timeout:  time.Duration(viper.GetInt("OMDB_TIMEOUT_SECONDS")) * time.Second,
			Featured: splitList(viper.GetString("FEATURED_MOVIES")),
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	switch config.Database.Driver {
	case DriverMongo, DriverPostgres, DriverMemory:
	default:
		return nil, errors.New("DB_DRIVER must be one of mongo, postgres, memory")
	}

	return config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
