package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/address-tiles/internal/domain"
	"github.com/address-tiles/internal/pkg/validator"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Log      LogConfig
	Worker   WorkerConfig
	Tiles    TilesConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	TilesCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	MaxBatchSize      int
}

// TilesConfig - параметры расчета тайлов
type TilesConfig struct {
	Zoom             domain.ZoomConfig
	BatchConcurrency int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return build(viper.GetViper())
}

// build собирает конфигурацию из viper, подставляя значения по умолчанию
func build(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("API_HOST"),
			Port: v.GetInt("API_PORT"),
			Env:  v.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			TilesCacheTTL: time.Duration(v.GetInt("TILES_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:           v.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     v.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(v.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			MaxBatchSize:      v.GetInt("WORKER_MAX_BATCH_SIZE"),
		},
		Tiles: TilesConfig{
			Zoom: domain.ZoomConfig{
				Point: domain.ZoomRange{
					MinZoom: v.GetInt("TILES_POINT_MIN_ZOOM"),
					MaxZoom: v.GetInt("TILES_POINT_MAX_ZOOM"),
				},
				Street: domain.ZoomRange{
					MinZoom: v.GetInt("TILES_STREET_MIN_ZOOM"),
					MaxZoom: v.GetInt("TILES_STREET_MAX_ZOOM"),
				},
				Trace: domain.FixedZoom{
					Zoom: v.GetInt("TILES_TRACE_ZOOM"),
				},
			},
			BatchConcurrency: v.GetInt("TILES_BATCH_CONCURRENCY"),
		},
	}

	// Ошибка конфигурации уровней - ошибка программиста, падаем сразу
	if err := validator.Validate(cfg.Tiles.Zoom); err != nil {
		return nil, fmt.Errorf("invalid tiles zoom configuration: %w", err)
	}
	if cfg.Tiles.BatchConcurrency < 1 {
		return nil, fmt.Errorf("invalid TILES_BATCH_CONCURRENCY: %d", cfg.Tiles.BatchConcurrency)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	zoom := domain.DefaultZoomConfig()

	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("TILES_CACHE_TTL", 3600)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("WORKER_CONSUMER_GROUP", "tiles-recompute-workers")
	v.SetDefault("WORKER_STREAM_READ_TIMEOUT", 5000)
	v.SetDefault("WORKER_MAX_BATCH_SIZE", 20)
	v.SetDefault("TILES_POINT_MIN_ZOOM", zoom.Point.MinZoom)
	v.SetDefault("TILES_POINT_MAX_ZOOM", zoom.Point.MaxZoom)
	v.SetDefault("TILES_STREET_MIN_ZOOM", zoom.Street.MinZoom)
	v.SetDefault("TILES_STREET_MAX_ZOOM", zoom.Street.MaxZoom)
	v.SetDefault("TILES_TRACE_ZOOM", zoom.Trace.Zoom)
	v.SetDefault("TILES_BATCH_CONCURRENCY", 8)
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
