package config

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type BillingConfig struct {
	BaseURL  string
	User     string
	Password string
}

type StorageConfig struct {
	Backend   string // "file" | "redis"
	Path      string
	RedisAddr string
}

type Config struct {
	ServerPort     int
	StreamAddress  string
	ControllerURL  string
	Billing        BillingConfig
	Storage        StorageConfig
	RequestTimeout int // seconds, applied to every backend HTTP request
}

func (c Config) String() string {
	return fmt.Sprintf(
		"ServerPort: %d | StreamAddress: %s | ControllerURL: %s | BillingURL: %s | StorageBackend: %s",
		c.ServerPort,
		c.StreamAddress,
		c.ControllerURL,
		c.Billing.BaseURL,
		c.Storage.Backend,
	)
}

const CONFIG_FILE_PATH = "./config.yaml"

func InitConfig(configFilePath string) (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configFile := CONFIG_FILE_PATH
	if configFilePath != "" {
		configFile = configFilePath
	}

	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configFile)
	}

	v.SetDefault("server.port", 8081)
	v.SetDefault("backend.timeout", 10)
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.path", "./storage")

	config := &Config{
		ServerPort:    v.GetInt("server.port"),
		StreamAddress: v.GetString("stream.address"),
		ControllerURL: v.GetString("controller.url"),
		Billing: BillingConfig{
			BaseURL:  v.GetString("billing.url"),
			User:     v.GetString("billing.user"),
			Password: v.GetString("billing.password"),
		},
		Storage: StorageConfig{
			Backend:   v.GetString("storage.backend"),
			Path:      v.GetString("storage.path"),
			RedisAddr: v.GetString("storage.redis_addr"),
		},
		RequestTimeout: v.GetInt("backend.timeout"),
	}

	return config, nil
}
