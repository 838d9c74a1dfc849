package utils

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Cookie     CookieConfig
	Redis      RedisConfig
	Elastic    ElasticConfig
	RabbitMQ   RabbitMQConfig
	Mailgun    MailgunConfig
	Migrations string
}

type AppConfig struct {
	Name        string
	Port        string
	Env         string
	Debug       bool
	LogPath     string
	CORSOrigins []string
	// TrustedProxies are the peers allowed to set X-Forwarded-For.
	TrustedProxies []netip.Prefix
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int32
}

// DSN returns a postgres URL usable by both pgxpool and golang-migrate.
func (c DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// MinSecretLength is the shortest HMAC secret accepted for either token.
const MinSecretLength = 32

// Validate rejects missing, short or shared token secrets.
func (c JWTConfig) Validate() error {
	if len(c.AccessSecret) < MinSecretLength {
		return fmt.Errorf("ACCESS_TOKEN_SECRET must be at least %d bytes", MinSecretLength)
	}
	if len(c.RefreshSecret) < MinSecretLength {
		return fmt.Errorf("REFRESH_TOKEN_SECRET must be at least %d bytes", MinSecretLength)
	}
	if c.AccessSecret == c.RefreshSecret {
		return errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}
	return nil
}

type CookieConfig struct {
	Domain string
	Secure bool
}

type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	RateLimitMax    int
	RateLimitWindow time.Duration
}

type ElasticConfig struct {
	Addresses    []string
	Username     string
	Password     string
	ProductIndex string
}

// Enabled reports whether an Elasticsearch cluster is configured.
func (c ElasticConfig) Enabled() bool {
	return len(c.Addresses) > 0
}

type RabbitMQConfig struct {
	URL        string
	EmailQueue string
}

type MailgunConfig struct {
	Domain string
	APIKey string
	Sender string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "shop-api")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("ACCESS_TOKEN_TTL", "1h")
	viper.SetDefault("REFRESH_TOKEN_TTL", "336h")
	viper.SetDefault("COOKIE_SECURE", false)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RATE_LIMIT_MAX", 20)
	viper.SetDefault("RATE_LIMIT_WINDOW", "1m")
	viper.SetDefault("ES_PRODUCT_INDEX", "products")
	viper.SetDefault("RABBITMQ_EMAIL_QUEUE", "emails")
	viper.SetDefault("MIGRATIONS_DIR", "migrations")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	proxies, err := ParseTrustedProxies(splitList(viper.GetString("TRUSTED_PROXIES")))
	if err != nil {
		return nil, err
	}

	config := &Config{
		App: AppConfig{
			Name:           viper.GetString("APP_NAME"),
			Port:           viper.GetString("PORT"),
			Env:            viper.GetString("APP_ENV"),
			Debug:          viper.GetBool("DEBUG"),
			LogPath:        viper.GetString("LOG_PATH"),
			CORSOrigins:    splitList(viper.GetString("CORS_ORIGINS")),
			TrustedProxies: proxies,
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			AccessSecret:  viper.GetString("ACCESS_TOKEN_SECRET"),
			RefreshSecret: viper.GetString("REFRESH_TOKEN_SECRET"),
			AccessTTL:     viper.GetDuration("ACCESS_TOKEN_TTL"),
			RefreshTTL:    viper.GetDuration("REFRESH_TOKEN_TTL"),
		},
		Cookie: CookieConfig{
			Domain: viper.GetString("COOKIE_DOMAIN"),
			Secure: viper.GetBool("COOKIE_SECURE"),
		},
		Redis: RedisConfig{
			Addr:            viper.GetString("REDIS_ADDR"),
			Password:        viper.GetString("REDIS_PASSWORD"),
			DB:              viper.GetInt("REDIS_DB"),
			RateLimitMax:    viper.GetInt("RATE_LIMIT_MAX"),
			RateLimitWindow: viper.GetDuration("RATE_LIMIT_WINDOW"),
		},
		Elastic: ElasticConfig{
			Addresses:    splitList(viper.GetString("ES_ADDRESSES")),
			Username:     viper.GetString("ES_USERNAME"),
			Password:     viper.GetString("ES_PASSWORD"),
			ProductIndex: viper.GetString("ES_PRODUCT_INDEX"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:        viper.GetString("RABBITMQ_URL"),
			EmailQueue: viper.GetString("RABBITMQ_EMAIL_QUEUE"),
		},
		Mailgun: MailgunConfig{
			Domain: viper.GetString("MAILGUN_DOMAIN"),
			APIKey: viper.GetString("MAILGUN_API_KEY"),
			Sender: viper.GetString("MAILGUN_SENDER"),
		},
		Migrations: viper.GetString("MIGRATIONS_DIR"),
	}

	if err := config.JWT.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ParseTrustedProxies accepts CIDRs and bare addresses.
func ParseTrustedProxies(raw []string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, v := range raw {
		if strings.Contains(v, "/") {
			p, err := netip.ParsePrefix(v)
			if err != nil {
				return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
		}
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
