package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env      string
	HTTPAddr string

	// UseMocks selects the offline/demo data source for the whole façade.
	UseMocks         bool
	OrdersAPIBaseURL string
	OrdersAPITimeout time.Duration

	// OrderNumberPrefix overrides the channel-derived prefix letter when the
	// caller does not supply one.
	OrderNumberPrefix string

	RabbitMQURL        string
	CorsAllowedOrigins []string
}

func Load() Config {
	cfg := Config{
		Env:                getEnv("APP_ENV", "development"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8091"),
		UseMocks:           getEnvBool("USE_MOCKS", false),
		OrdersAPIBaseURL:   getEnv("ORDERS_API_BASE_URL", ""),
		OrdersAPITimeout:   getEnvDuration("ORDERS_API_TIMEOUT", 10*time.Second),
		OrderNumberPrefix:  getEnv("ORDER_NUMBER_PREFIX", ""),
		RabbitMQURL:        getEnv("RABBITMQ_URL", ""),
		CorsAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}

	// No backend configured means there is nothing the live path could
	// call; run on the demo fixtures instead of failing every request.
	if strings.TrimSpace(cfg.OrdersAPIBaseURL) == "" {
		cfg.UseMocks = true
	}

	return cfg
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func splitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
