package config

import (
	"errors"
	"fmt"
	"github.com/spf13/viper"
	"strings"
	"time"
)

type AppConfig struct {
	AppID               string        `mapstructure:"app_id"`
	HttpAddr            string        `mapstructure:"http_addr"`
	MetricsAddr         string        `mapstructure:"metrics_addr"`
	SessionTTL          time.Duration `mapstructure:"session_ttl"`
	SignInRatePerSecond float64       `mapstructure:"sign_in_rate_per_second"`
}

func (config AppConfig) validate() error {

	var missingFields []string

	if config.AppID == "" {
		missingFields = append(missingFields, "app_id")
	}

	if config.HttpAddr == "" {
		missingFields = append(missingFields, "http_addr")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required variables: %s", strings.Join(missingFields, ", "))
	}

	if config.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be greater than zero")
	}

	if config.SignInRatePerSecond <= 0 {
		return fmt.Errorf("sign_in_rate_per_second must be greater than zero")
	}

	return nil
}

func (config AppConfig) bindEnvironmentVariables(v *viper.Viper) error {
	var errs []error

	bindings := map[string]string{
		"app.app_id":                  "APP_ID",
		"app.http_addr":               "HTTP_ADDR",
		"app.metrics_addr":            "METRICS_ADDR",
		"app.session_ttl":             "SESSION_TTL",
		"app.sign_in_rate_per_second": "SIGN_IN_RATE_PER_SECOND",
	}

	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}
