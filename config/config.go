/*
Copyright 2025 Creator Platform Authors.

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
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5001"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"CREATOR_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"CREATOR_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"CREATOR_SERVER_SECRET_KEY"`
	Domain    string `json:"domain" envconfig:"CREATOR_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"CREATOR_SERVER_SSL_EMAIL"`
	Port      string `json:"port" envconfig:"CREATOR_SERVER_PORT"`
	BaseURL   string `json:"base_url" envconfig:"CREATOR_SERVER_BASE_URL"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"CREATOR_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns           string `json:"dns" envconfig:"CREATOR_REDIS_DNS"`
	SkipTLSVerify bool   `json:"skip_tls_verify" envconfig:"CREATOR_REDIS_SKIP_TLS_VERIFY"`
}

type TypeSenseConfig struct {
	Dns string `json:"dns" envconfig:"CREATOR_TYPESENSE_DNS"`
}

// GumroadConfig drives the browser automation. There is no official API
// behind the publish flow, so the knobs here track the target UI instead
// of a versioned contract.
type GumroadConfig struct {
	ProductHost    string `json:"product_host" envconfig:"CREATOR_GUMROAD_PRODUCT_HOST"`
	NewProductURL  string `json:"new_product_url" envconfig:"CREATOR_GUMROAD_NEW_PRODUCT_URL"`
	ChromePath     string `json:"chrome_path" envconfig:"CREATOR_GUMROAD_CHROME_PATH"`
	ProfileDir     string `json:"profile_dir" envconfig:"CREATOR_GUMROAD_PROFILE_DIR"`
	Headless       bool   `json:"headless" envconfig:"CREATOR_GUMROAD_HEADLESS"`
	StepTimeoutSec int    `json:"step_timeout_sec" envconfig:"CREATOR_GUMROAD_STEP_TIMEOUT_SEC"`
}

func (g GumroadConfig) StepTimeout() time.Duration {
	return time.Duration(g.StepTimeoutSec) * time.Second
}

type OpenAIConfig struct {
	ApiKey string `json:"api_key" envconfig:"CREATOR_OPENAI_API_KEY"`
	Model  string `json:"model" envconfig:"CREATOR_OPENAI_MODEL"`
}

type StripeConfig struct {
	SecretKey string `json:"secret_key" envconfig:"CREATOR_STRIPE_SECRET_KEY"`
}

type OfferwallConfig struct {
	CallbackToken string `json:"callback_token" envconfig:"CREATOR_OFFERWALL_CALLBACK_TOKEN"`
}

type QueueConfig struct {
	WebhookQueue string `json:"webhook_queue" envconfig:"CREATOR_QUEUE_WEBHOOK"`
	IndexQueue   string `json:"index_queue" envconfig:"CREATOR_QUEUE_INDEX"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"CREATOR_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"CREATOR_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"CREATOR_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url"`
}

type WebhookConfig struct {
	Url     string            `json:"url" envconfig:"CREATOR_WEBHOOK_URL"`
	Headers map[string]string `json:"headers"`
}

type Notification struct {
	Slack   SlackWebhook  `json:"slack"`
	Webhook WebhookConfig `json:"webhook"`
}

type Configuration struct {
	ProjectName        string           `json:"project_name" envconfig:"CREATOR_PROJECT_NAME"`
	BackupDir          string           `json:"backup_dir" envconfig:"CREATOR_BACKUP_DIR"`
	AwsAccessKeyId     string           `json:"aws_access_key_id"`
	S3Endpoint         string           `json:"s3_endpoint"`
	AwsSecretAccessKey string           `json:"aws_secret_access_key"`
	S3BucketName       string           `json:"s3_bucket_name"`
	S3Region           string           `json:"s3_region"`
	EnableTelemetry    bool             `json:"enable_telemetry" envconfig:"CREATOR_ENABLE_TELEMETRY"`
	Server             ServerConfig     `json:"server"`
	DataSource         DataSourceConfig `json:"data_source"`
	Redis              RedisConfig      `json:"redis"`
	TypeSense          TypeSenseConfig  `json:"typesense"`
	TypeSenseKey       string           `json:"type_sense_key" envconfig:"CREATOR_TYPESENSE_KEY"`
	Gumroad            GumroadConfig    `json:"gumroad"`
	OpenAI             OpenAIConfig     `json:"openai"`
	Stripe             StripeConfig     `json:"stripe"`
	Offerwall          OfferwallConfig  `json:"offerwall"`
	Queue              QueueConfig      `json:"queue"`
	Notification       Notification     `json:"notification"`
	RateLimit          RateLimitConfig  `json:"rate_limit"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("creator", &cnf)
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
		return nil, errors.New("config not loaded from file. Create a json file called creator.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Creator Platform"
	}

	if cnf.TypeSense.Dns == "" {
		cnf.TypeSense.Dns = "http://typesense:8108"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	// Set default value for Port if it's empty
	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Server.BaseURL == "" {
		cnf.Server.BaseURL = "http://localhost:" + cnf.Server.Port
	}

	if cnf.Gumroad.ProductHost == "" {
		cnf.Gumroad.ProductHost = "gumroad.com"
	}
	if cnf.Gumroad.NewProductURL == "" {
		cnf.Gumroad.NewProductURL = "https://gumroad.com/products/new"
	}
	if cnf.Gumroad.StepTimeoutSec == 0 {
		cnf.Gumroad.StepTimeoutSec = 120
	}

	if cnf.OpenAI.Model == "" {
		cnf.OpenAI.Model = "gpt-4"
	}

	if cnf.Queue.WebhookQueue == "" {
		cnf.Queue.WebhookQueue = "new:webhook"
	}
	if cnf.Queue.IndexQueue == "" {
		cnf.Queue.IndexQueue = "new:index"
	}

	// Rate limiting is disabled when both RPS and Burst are nil
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

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
