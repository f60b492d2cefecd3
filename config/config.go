package config

import (
	"fmt"
	"net/url"
	"os"

	"go.yaml.in/yaml/v4"
)

type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Redis      RedisConfig      `yaml:"redis"`
	RailStatus RailStatusConfig `yaml:"railstatus"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

type KafkaConfig struct {
	Host                     string `yaml:"host"`
	Port                     int    `yaml:"port"`
	LookupCompletedTopicName string `yaml:"lookup_completed_topic_name"`
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type RailStatusConfig struct {
	HTTPAddr           string `yaml:"http_addr"`
	HistoryHTTPAddr    string `yaml:"history_http_addr"`
	KafkaConsumerGroup string `yaml:"kafka_consumer_group"`

	// Upstream endpoints. When both are empty the offline fake client is used.
	PNRStatusURL     string `yaml:"pnr_status_url"`
	RunningStatusURL string `yaml:"running_status_url"`
	// 0 means no client-side timeout; only the caller's context ends a request.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`

	PageViewsKey             string `yaml:"page_views_key"`
	ClientRateLimitPerMinute int    `yaml:"client_rate_limit_per_minute"`
	PublishLookupEvents      *bool  `yaml:"publish_lookup_events"`

	// Rate-limit by X-Forwarded-For/X-Real-IP. Only safe behind a trusted proxy.
	TrustProxyHeaders bool `yaml:"trust_proxy_headers"`
}

// PublishEnabled reports whether lookup.completed events should be produced.
// Absent in the file means enabled.
func (c RailStatusConfig) PublishEnabled() bool {
	return c.PublishLookupEvents == nil || *c.PublishLookupEvents
}

// PostgresConnString builds a pgx connection string, defaulting sslmode to disable.
func (c DatabaseConfig) PostgresConnString() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}

func (c KafkaConfig) Brokers() []string {
	return []string{fmt.Sprintf("%s:%d", c.Host, c.Port)}
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return &config, nil
}
