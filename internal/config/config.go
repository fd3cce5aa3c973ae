package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment variable of the service.
const EnvPrefix = "ROUTES"

// ProviderConfig points at one external provider.
type ProviderConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// KafkaConfig holds the route event stream settings. No brokers disables it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// ServiceConfig holds all configuration for the routes service.
type ServiceConfig struct {
	Port               string
	AppEnv             string
	Directions         ProviderConfig
	Weather            ProviderConfig
	SessionIdleTTL     time.Duration
	CORSAllowedOrigins []string
	KafkaConfig        KafkaConfig
}

// Load reads configuration from an optional .env file and environment variables.
// Provider credentials are required and never have defaults.
func Load() (*ServiceConfig, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("GOOGLE_MAPS_BASE_URL", "https://maps.googleapis.com")
	v.SetDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org")
	v.SetDefault("PROVIDER_TIMEOUT", "10s")
	v.SetDefault("WEATHER_TIMEOUT", "5s")
	v.SetDefault("SESSION_IDLE_TTL", "30m")
	v.SetDefault("KAFKA_TOPIC", "route.events")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("GOOGLE_MAPS_API_KEY", "")
	v.SetDefault("OPENWEATHER_API_KEY", "")

	cfg := &ServiceConfig{
		Port:   servicePort(v.GetString("SERVICE_PORT")),
		AppEnv: v.GetString("APP_ENV"),
		Directions: ProviderConfig{
			BaseURL: v.GetString("GOOGLE_MAPS_BASE_URL"),
			APIKey:  v.GetString("GOOGLE_MAPS_API_KEY"),
			Timeout: v.GetDuration("PROVIDER_TIMEOUT"),
		},
		Weather: ProviderConfig{
			BaseURL: v.GetString("OPENWEATHER_BASE_URL"),
			APIKey:  v.GetString("OPENWEATHER_API_KEY"),
			Timeout: v.GetDuration("WEATHER_TIMEOUT"),
		},
		SessionIdleTTL:     v.GetDuration("SESSION_IDLE_TTL"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		KafkaConfig: KafkaConfig{
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ServiceConfig) validate() error {
	var errs []error
	if c.Directions.APIKey == "" {
		errs = append(errs, fmt.Errorf("%s_GOOGLE_MAPS_API_KEY is required", EnvPrefix))
	}
	if c.Weather.APIKey == "" {
		errs = append(errs, fmt.Errorf("%s_OPENWEATHER_API_KEY is required", EnvPrefix))
	}
	if c.Directions.Timeout <= 0 || c.Weather.Timeout <= 0 {
		errs = append(errs, errors.New("provider timeouts must be positive"))
	}
	if c.SessionIdleTTL <= 0 {
		errs = append(errs, errors.New("session idle TTL must be positive"))
	}
	return errors.Join(errs...)
}

// servicePort turns "8080" into ":8080" and leaves full addresses alone.
func servicePort(port string) string {
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
