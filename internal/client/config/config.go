package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all client configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Sync    SyncConfig    `mapstructure:"sync"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds remote document store configuration
type ServerConfig struct {
	URL string `mapstructure:"url"`
}

// StorageConfig selects and locates the local store backend
type StorageConfig struct {
	Backend string `mapstructure:"backend"` // "bolt" или "sqlite"
	Path    string `mapstructure:"path"`    // путь к файлу базы
}

// SyncConfig tunes the sync engine
type SyncConfig struct {
	MaxRetries          int           `mapstructure:"max_retries"`           // потолок попыток на элемент очереди
	ItemDelay           time.Duration `mapstructure:"item_delay"`            // пауза между элементами при drain
	Settle              time.Duration `mapstructure:"settle"`                // окно успокоения после восстановления связи
	PollInterval        time.Duration `mapstructure:"poll_interval"`         // период сверки сырого сигнала связи
	PendingPollInterval time.Duration `mapstructure:"pending_poll_interval"` // период опроса бейджа отложенных операций
	NotifyWindow        time.Duration `mapstructure:"notify_window"`         // окно дедупликации уведомлений
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL: "http://localhost:8080",
		},
		Storage: StorageConfig{
			Backend: "bolt",
			Path:    defaultDBPath(),
		},
		Sync: SyncConfig{
			MaxRetries:          3,
			ItemDelay:           100 * time.Millisecond,
			Settle:              time.Second,
			PollInterval:        5 * time.Second,
			PendingPollInterval: 10 * time.Second,
			NotifyWindow:        30 * time.Second,
		},
		Logging: LoggingConfig{
			File:  "",
			Level: "INFO",
		},
	}
}

// Load reads configuration from the given file, or from the default
// location when path is empty. Отсутствующий файл не является ошибкой:
// возвращаются значения по умолчанию.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir())
	}

	cfg := Default()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// configDir returns the directory searched for config.yaml
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".wrench")
}

func defaultDBPath() string {
	return filepath.Join(configDir(), "wrench.db")
}
