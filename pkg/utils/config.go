package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Scheduling SchedulingConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host           string
	Port           string
	Name           string
	User           string
	Password       string
	MaxConns       int32
	MigrateOnStart bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SchedulingConfig struct {
	LockTTLMinutes        int
	ReaperIntervalSeconds int
	ReaperLeaseSeconds    int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_MIGRATE_ON_START", true)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("LOCK_TTL_MINUTES", 5)
	viper.SetDefault("REAPER_INTERVAL_SECONDS", 60)
	viper.SetDefault("REAPER_LEASE_SECONDS", 55)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:           viper.GetString("DB_HOST"),
			Port:           viper.GetString("DB_PORT"),
			Name:           viper.GetString("DB_NAME"),
			User:           viper.GetString("DB_USER"),
			Password:       viper.GetString("DB_PASS"),
			MaxConns:       viper.GetInt32("DB_MAX_CONNS"),
			MigrateOnStart: viper.GetBool("DB_MIGRATE_ON_START"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASS"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Scheduling: SchedulingConfig{
			LockTTLMinutes:        viper.GetInt("LOCK_TTL_MINUTES"),
			ReaperIntervalSeconds: viper.GetInt("REAPER_INTERVAL_SECONDS"),
			ReaperLeaseSeconds:    viper.GetInt("REAPER_LEASE_SECONDS"),
		},
	}

	return config, nil
}
