package config

import (
	"fmt"
	"github.com/spf13/viper"
)

// NotifyConfig is optional: with an empty token no notifications are sent.
type NotifyConfig struct {
	TelegramToken string `mapstructure:"telegram_token"`
	AdminChatID   int64  `mapstructure:"admin_chat_id"`
}

func (config NotifyConfig) Enabled() bool {
	return config.TelegramToken != ""
}

func (config NotifyConfig) validate() error {
	if config.Enabled() && config.AdminChatID == 0 {
		return fmt.Errorf("missing variable: admin_chat_id")
	}
	return nil
}

func (config NotifyConfig) bindEnvironmentVariables(v *viper.Viper) error {
	if err := v.BindEnv("notify.telegram_token", "TELEGRAM_TOKEN"); err != nil {
		return err
	}
	return v.BindEnv("notify.admin_chat_id", "ADMIN_CHAT_ID")
}
