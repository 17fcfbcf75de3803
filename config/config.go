package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// PublishPolicy lists the optional requirements a course or chapter must meet
// before it can be published. Title is always required.
type PublishPolicy struct {
	RequireDescription      bool `yaml:"requireDescription"`
	RequireImage            bool `yaml:"requireImage"`
	RequirePublishedChapter bool `yaml:"requirePublishedChapter"`
}

// StrictPublishPolicy requires every optional field.
func StrictPublishPolicy() PublishPolicy {
	return PublishPolicy{RequireDescription: true, RequireImage: true, RequirePublishedChapter: true}
}

// NotificationPolicy controls when chapter completions notify the course owner.
type NotificationPolicy struct {
	// NotifyOnRecompletion re-notifies when a chapter is marked incomplete and
	// then complete again. When false each (user, chapter) pair notifies once.
	NotifyOnRecompletion bool
}

// Config holds application configuration
type Config struct {
	Port   string
	AppEnv string

	DBDriver   string
	DBDSN      string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTKey    string
	JWTIssuer string

	StorageDriver  string
	UploadDir      string
	PublicBaseURL  string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	RedisAddr          string
	RedisPassword      string
	RateLimitPerMinute int

	SendgridAPIKey string
	EmailSender    string

	IdentityAPIURL string
	IdentityAPIKey string

	OutboxCron string

	Publish      PublishPolicy
	Notification NotificationPolicy
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg, err := fromViper(v)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	AppConfig = cfg

	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "lms")
	v.SetDefault("JWT_SECRET_KEY", "defaultSecret")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("UPLOAD_DIR", "./public/uploads")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:3000")
	v.SetDefault("MINIO_ENDPOINT", "")
	v.SetDefault("MINIO_ACCESS_KEY", "")
	v.SetDefault("MINIO_SECRET_KEY", "")
	v.SetDefault("MINIO_BUCKET", "lms")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("EMAIL_SENDER", "noreply@localhost")
	v.SetDefault("IDENTITY_API_URL", "")
	v.SetDefault("IDENTITY_API_KEY", "")
	v.SetDefault("OUTBOX_CRON", "@every 1m")
	v.SetDefault("PUBLISH_REQUIRE_DESCRIPTION", false)
	v.SetDefault("PUBLISH_REQUIRE_IMAGE", false)
	v.SetDefault("PUBLISH_REQUIRE_PUBLISHED_CHAPTER", false)
	v.SetDefault("PUBLISH_POLICY_FILE", "")
	v.SetDefault("NOTIFY_ON_RECOMPLETION", false)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:   v.GetString("PORT"),
		AppEnv: strings.ToLower(v.GetString("APP_ENV")),

		DBDriver:   strings.ToLower(v.GetString("DB_DRIVER")),
		DBDSN:      v.GetString("DB_DSN"),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),

		JWTKey:    v.GetString("JWT_SECRET_KEY"),
		JWTIssuer: v.GetString("JWT_ISSUER"),

		StorageDriver:  strings.ToLower(v.GetString("STORAGE_DRIVER")),
		UploadDir:      v.GetString("UPLOAD_DIR"),
		PublicBaseURL:  strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),
		MinioEndpoint:  v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey: v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey: v.GetString("MINIO_SECRET_KEY"),
		MinioBucket:    v.GetString("MINIO_BUCKET"),
		MinioUseSSL:    v.GetBool("MINIO_USE_SSL"),

		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),

		SendgridAPIKey: v.GetString("SENDGRID_API_KEY"),
		EmailSender:    v.GetString("EMAIL_SENDER"),

		IdentityAPIURL: strings.TrimRight(v.GetString("IDENTITY_API_URL"), "/"),
		IdentityAPIKey: v.GetString("IDENTITY_API_KEY"),

		OutboxCron: v.GetString("OUTBOX_CRON"),

		Publish: PublishPolicy{
			RequireDescription:      v.GetBool("PUBLISH_REQUIRE_DESCRIPTION"),
			RequireImage:            v.GetBool("PUBLISH_REQUIRE_IMAGE"),
			RequirePublishedChapter: v.GetBool("PUBLISH_REQUIRE_PUBLISHED_CHAPTER"),
		},
		Notification: NotificationPolicy{
			NotifyOnRecompletion: v.GetBool("NOTIFY_ON_RECOMPLETION"),
		},
	}

	if path := v.GetString("PUBLISH_POLICY_FILE"); path != "" {
		policy, err := LoadPublishPolicyFile(path, cfg.Publish)
		if err != nil {
			return nil, err
		}
		cfg.Publish = policy
	}

	switch cfg.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	switch cfg.StorageDriver {
	case "local", "minio":
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	return cfg, nil
}

// LoadPublishPolicyFile reads a YAML policy document on top of base. Keys
// missing from the file keep their base value.
func LoadPublishPolicyFile(path string, base PublishPolicy) (PublishPolicy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read publish policy %s: %w", path, err)
	}
	policy := base
	if err := yaml.Unmarshal(raw, &policy); err != nil {
		return base, fmt.Errorf("parse publish policy %s: %w", path, err)
	}
	return policy, nil
}
