package config

import (
	"fmt"
	"time"

	"github.com/dukasoft/shop-services/reconciler/pkg/mq"
	"github.com/dukasoft/shop-services/reconciler/pkg/mysql"
	"github.com/dukasoft/shop-services/reconciler/pkg/pesapal"
	"github.com/spf13/viper"
)

type Config struct {
	API      API            `mapstructure:"api"`
	Database mysql.Config   `mapstructure:"database"`
	Pesapal  pesapal.Config `mapstructure:"pesapal"`
	Client   Client         `mapstructure:"client"`
	Poll     Poll           `mapstructure:"poll"`
	Sweep    Sweep          `mapstructure:"sweep"`
	RabbitMQ mq.Config      `mapstructure:"rabbitmq"`
}

type API struct {
	Port string `mapstructure:"port"`
}

// Client holds the shop frontend the redirect callback sends browsers back to.
type Client struct {
	URL string `mapstructure:"url"`
}

// Poll bounds the synchronous wait in the redirect callback.
type Poll struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	Interval    time.Duration `mapstructure:"interval"`
}

type Sweep struct {
	Interval time.Duration `mapstructure:"interval"`
}

func Load() (cfg *Config, err error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath("./config")

	err = viper.ReadInConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
