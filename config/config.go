/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT                   = "5001"
	DEFAULT_PAGE_SIZE              = 50
	DEFAULT_ACCOUNT_NUMBER_RETRIES = 5
	DEFAULT_REFERENCE_TTL_SEC      = 86400
	DEFAULT_MONITORING_PORT        = "5004"
	DEFAULT_WEBHOOK_QUEUE          = "purse_webhooks"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"PURSE_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"PURSE_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"PURSE_SERVER_SECRET_KEY"`
	Domain    string `json:"domain" envconfig:"PURSE_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"PURSE_SERVER_SSL_EMAIL"`
	Port      string `json:"port" envconfig:"PURSE_SERVER_PORT"`
}

// RedisConfig is optional. Without it reference claims stay in memory and
// webhooks are not queued.
type RedisConfig struct {
	Dns           string `json:"dns" envconfig:"PURSE_REDIS_DNS"`
	SkipTLSVerify bool   `json:"skip_tls_verify" envconfig:"PURSE_REDIS_SKIP_TLS_VERIFY"`
}

type AccountGenerationHttpService struct {
	Url     string `json:"url"`
	Timeout int    `json:"timeout"`
	Headers struct {
		Authorization string `json:"Authorization"`
	} `json:"headers"`
}

type AccountNumberGenerationConfig struct {
	EnableAutoGeneration bool                         `json:"enable_auto_generation"`
	MaxRetries           int                          `json:"max_retries" envconfig:"PURSE_ACCOUNT_NUMBER_MAX_RETRIES"`
	HttpService          AccountGenerationHttpService `json:"http_service"`
}

type LedgerConfig struct {
	DefaultPageSize int `json:"default_page_size" envconfig:"PURSE_LEDGER_DEFAULT_PAGE_SIZE"`
	ReferenceTTLSec int `json:"reference_ttl_sec" envconfig:"PURSE_LEDGER_REFERENCE_TTL_SEC"`
}

type QueueConfig struct {
	WebhookQueue       string `json:"webhook_queue" envconfig:"PURSE_QUEUE_WEBHOOK"`
	WebhookConcurrency int    `json:"webhook_concurrency" envconfig:"PURSE_QUEUE_WEBHOOK_CONCURRENCY"`
	MaxRetryAttempts   int    `json:"max_retry_attempts" envconfig:"PURSE_QUEUE_MAX_RETRY_ATTEMPTS"`
	MonitoringPort     string `json:"monitoring_port" envconfig:"PURSE_QUEUE_MONITORING_PORT"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"PURSE_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"PURSE_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"PURSE_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type TelemetryConfig struct {
	OtlpEndpoint string `json:"otlp_endpoint" envconfig:"PURSE_TELEMETRY_OTLP_ENDPOINT"`
	Insecure     bool   `json:"insecure" envconfig:"PURSE_TELEMETRY_INSECURE"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url"`
}

type Notification struct {
	Slack   SlackWebhook `json:"slack"`
	Webhook struct {
		Url     string            `json:"url"`
		Headers map[string]string `json:"headers"`
	} `json:"webhook"`
}

type Configuration struct {
	ProjectName             string                        `json:"project_name" envconfig:"PURSE_PROJECT_NAME"`
	EnableTelemetry         bool                          `json:"enable_telemetry" envconfig:"PURSE_ENABLE_TELEMETRY"`
	Server                  ServerConfig                  `json:"server"`
	Redis                   RedisConfig                   `json:"redis"`
	Ledger                  LedgerConfig                  `json:"ledger"`
	Queue                   QueueConfig                   `json:"queue"`
	AccountNumberGeneration AccountNumberGenerationConfig `json:"account_number_generation"`
	Notification            Notification                  `json:"notification"`
	RateLimit               RateLimitConfig               `json:"rate_limit"`
	Telemetry               TelemetryConfig               `json:"telemetry"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("purse", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded. Create a json file called purse.json or set PURSE_* env variables")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Purse Server"
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)
	cnf.Notification.Webhook.Url = strings.TrimSpace(cnf.Notification.Webhook.Url)

	if cnf.Server.Secure && cnf.Server.SecretKey == "" {
		return errors.New("secret key is required when server.secure is enabled")
	}

	if cnf.Notification.Webhook.Url != "" && cnf.Redis.Dns == "" {
		return errors.New("redis DNS is required to deliver webhooks")
	}

	// Set default value for Port if it's empty
	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Ledger.DefaultPageSize <= 0 {
		cnf.Ledger.DefaultPageSize = DEFAULT_PAGE_SIZE
	}

	if cnf.Ledger.ReferenceTTLSec <= 0 {
		cnf.Ledger.ReferenceTTLSec = DEFAULT_REFERENCE_TTL_SEC
	}

	if cnf.AccountNumberGeneration.MaxRetries <= 0 {
		cnf.AccountNumberGeneration.MaxRetries = DEFAULT_ACCOUNT_NUMBER_RETRIES
	}

	if cnf.Queue.WebhookQueue == "" {
		cnf.Queue.WebhookQueue = DEFAULT_WEBHOOK_QUEUE
	}
	if cnf.Queue.WebhookConcurrency <= 0 {
		cnf.Queue.WebhookConcurrency = 2
	}
	if cnf.Queue.MaxRetryAttempts <= 0 {
		cnf.Queue.MaxRetryAttempts = 5
	}
	if cnf.Queue.MonitoringPort == "" {
		cnf.Queue.MonitoringPort = DEFAULT_MONITORING_PORT
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}

	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes. Defaults are
// applied so tests only need to set the fields they care about.
func MockConfig(mockConfig *Configuration) {
	_ = mockConfig.validateAndAddDefaults()
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
