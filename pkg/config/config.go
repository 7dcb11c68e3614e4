package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Planner  PlannerConfig
	Reports  ReportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// RoomConfig is one static room registry entry.
type RoomConfig struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Capacity int    `json:"capacity"`
}

// PlannerConfig governs the assignment engine and the sweep cadence.
type PlannerConfig struct {
	BufferMinutes int
	HorizonDays   int
	SweepInterval time.Duration
	DayStartHour  int
	DayEndHour    int
	Rooms         []RoomConfig
}

// ReportsConfig tunes the availability report cache.
type ReportsConfig struct {
	CacheTTL time.Duration
}

// defaultRooms mirrors the office layout the planner was built for; override
// with PLANNER_ROOMS.
var defaultRooms = []RoomConfig{
	{ID: "R1", Name: "Bureau 4", Type: "individual", Capacity: 1},
	{ID: "R2", Name: "Bureau 3", Type: "family", Capacity: 4},
	{ID: "R3", Name: "Bureau 1", Type: "variable", Capacity: 3},
	{ID: "R4", Name: "Bureau 2", Type: "variable", Capacity: 3},
	{ID: "CONF", Name: "Salle Conférence", Type: "conference", Capacity: 8},
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	rooms, err := parseRooms(v.GetString("PLANNER_ROOMS"))
	if err != nil {
		return nil, err
	}
	cfg.Planner = PlannerConfig{
		BufferMinutes: v.GetInt("BUFFER_MINUTES"),
		HorizonDays:   v.GetInt("REOPT_HORIZON_DAYS"),
		SweepInterval: parseDuration(v.GetString("REOPT_INTERVAL"), time.Hour),
		DayStartHour:  v.GetInt("DAY_START_HOUR"),
		DayEndHour:    v.GetInt("DAY_END_HOUR"),
		Rooms:         rooms,
	}
	if cfg.Planner.DayEndHour <= cfg.Planner.DayStartHour {
		return nil, fmt.Errorf("DAY_END_HOUR (%d) must be after DAY_START_HOUR (%d)", cfg.Planner.DayEndHour, cfg.Planner.DayStartHour)
	}

	cfg.Reports = ReportsConfig{
		CacheTTL: parseDuration(v.GetString("REPORTS_CACHE_TTL"), 5*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "room_planner")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("BUFFER_MINUTES", 30)
	v.SetDefault("REOPT_HORIZON_DAYS", 30)
	v.SetDefault("REOPT_INTERVAL", "1h")
	v.SetDefault("DAY_START_HOUR", 8)
	v.SetDefault("DAY_END_HOUR", 20)
	v.SetDefault("PLANNER_ROOMS", "")

	v.SetDefault("REPORTS_CACHE_TTL", "5m")
}

func parseRooms(raw string) ([]RoomConfig, error) {
	if strings.TrimSpace(raw) == "" {
		rooms := make([]RoomConfig, len(defaultRooms))
		copy(rooms, defaultRooms)
		return rooms, nil
	}

	var rooms []RoomConfig
	if err := json.Unmarshal([]byte(raw), &rooms); err != nil {
		return nil, fmt.Errorf("PLANNER_ROOMS is not valid JSON: %w", err)
	}
	if len(rooms) == 0 {
		return nil, errors.New("PLANNER_ROOMS must define at least one room")
	}
	seen := make(map[string]bool, len(rooms))
	for _, room := range rooms {
		if room.ID == "" {
			return nil, errors.New("PLANNER_ROOMS entries require an id")
		}
		if seen[room.ID] {
			return nil, fmt.Errorf("PLANNER_ROOMS contains duplicate room id %q", room.ID)
		}
		seen[room.ID] = true
	}
	return rooms, nil
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
