// Package config loads engine configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// KafkaConfig holds the connection settings for one topic.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Config holds the full engine service configuration.
type Config struct {
	Pair           string   `envconfig:"PAIR" default:"BTC-USD"`
	LadderStrategy string   `envconfig:"LADDER_STRATEGY" default:"tree"`
	KafkaBrokers   []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	OrderTopic     string   `envconfig:"ORDER_TOPIC" default:"orders"`
	TradeTopic     string   `envconfig:"TRADE_TOPIC" default:"trades"`
	LogLevel       string   `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads configuration from the environment. A .env file is applied
// first when present; missing files are not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// OrderReaderConfig returns the kafka settings for the order topic.
func (c *Config) OrderReaderConfig() KafkaConfig {
	return KafkaConfig{Brokers: c.KafkaBrokers, Topic: c.OrderTopic}
}

// TradePublisherConfig returns the kafka settings for the trade topic.
func (c *Config) TradePublisherConfig() KafkaConfig {
	return KafkaConfig{Brokers: c.KafkaBrokers, Topic: c.TradeTopic}
}
