package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// GatewayConfig points at the LLM completion/vision gateway.
type GatewayConfig struct {
	BaseURL     string
	APIKey      string // may be empty; requests then fail with a generic 500
	ChatModel   string
	VisionModel string
}

// DeliverabilityConfig points at the optional email/phone validation API.
type DeliverabilityConfig struct {
	BaseURL string
	APIKey  string
}

// MailConfig points at the transactional email API.
type MailConfig struct {
	BaseURL string
	APIKey  string
	From    string
}

// AlertConfig enables the optional ops review channel.
type AlertConfig struct {
	BotToken  string
	ChannelID int64
}

// Config holds all configuration for the application.
type Config struct {
	AppEnv         string
	ServerPort     string
	Gateway        GatewayConfig
	Deliverability DeliverabilityConfig
	Mail           MailConfig
	Alerts         AlertConfig
}

// Load loads configuration from the environment, with .env support for
// local development.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	bindings := map[string]string{
		"app.env":                 "APP_ENV",
		"server.port":             "SERVER_PORT",
		"gateway.base_url":        "AI_GATEWAY_BASE_URL",
		"gateway.api_key":         "AI_GATEWAY_API_KEY",
		"gateway.chat_model":      "AI_CHAT_MODEL",
		"gateway.vision_model":    "AI_VISION_MODEL",
		"deliverability.base_url": "DELIVERABILITY_BASE_URL",
		"deliverability.api_key":  "DELIVERABILITY_API_KEY",
		"mail.base_url":           "MAIL_BASE_URL",
		"mail.api_key":            "MAIL_API_KEY",
		"mail.from":               "MAIL_FROM",
		"alerts.bot_token":        "ALERT_BOT_TOKEN",
		"alerts.channel_id":       "ALERT_CHANNEL_ID",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("could not bind %s: %w", key, err)
		}
	}

	viper.SetDefault("app.env", "dev")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("gateway.base_url", "https://api.a4f.co/v1")
	viper.SetDefault("gateway.chat_model", "provider-3/gpt-4o-mini")
	viper.SetDefault("gateway.vision_model", "provider-3/gpt-4o")
	viper.SetDefault("mail.base_url", "https://api.resend.com")
	viper.SetDefault("mail.from", "Artha Bank <onboarding@mail.arthabank.in>")

	cfg := Config{
		AppEnv:     viper.GetString("app.env"),
		ServerPort: viper.GetString("server.port"),
		Gateway: GatewayConfig{
			BaseURL:     viper.GetString("gateway.base_url"),
			APIKey:      viper.GetString("gateway.api_key"),
			ChatModel:   viper.GetString("gateway.chat_model"),
			VisionModel: viper.GetString("gateway.vision_model"),
		},
		Deliverability: DeliverabilityConfig{
			BaseURL: viper.GetString("deliverability.base_url"),
			APIKey:  viper.GetString("deliverability.api_key"),
		},
		Mail: MailConfig{
			BaseURL: viper.GetString("mail.base_url"),
			APIKey:  viper.GetString("mail.api_key"),
			From:    viper.GetString("mail.from"),
		},
		Alerts: AlertConfig{
			BotToken:  viper.GetString("alerts.bot_token"),
			ChannelID: viper.GetInt64("alerts.channel_id"),
		},
	}

	if cfg.Alerts.BotToken != "" && cfg.Alerts.ChannelID == 0 {
		return nil, fmt.Errorf("ALERT_BOT_TOKEN is set but ALERT_CHANNEL_ID is missing")
	}

	return &cfg, nil
}

// GatewayConfigured reports whether the required gateway secret is
// present. When it is not, request handling degrades to a generic 500
// rather than failing at startup.
func (c *Config) GatewayConfigured() bool {
	return c.Gateway.APIKey != ""
}
