// Package config is responsible for initializing the application's
// configuration. It uses Viper to read settings from a config file and
// environment variables, providing a unified configuration system.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/JakeFAU/forum-harvester/internal/logging"
)

// InitConfig initializes the application's configuration using Viper.
// It sets up default values, defines configuration search paths, and
// enables environment variables. Call once at application startup.
func InitConfig() {
	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/forum-harvester/")
	viper.AddConfigPath("$HOME/.forum-harvester")

	const defaultUA = "forum-harvester/1.0 (+https://github.com/JakeFAU/forum-harvester)"
	viper.SetDefault("harvester.user_agent", defaultUA)
	viper.SetDefault("harvester.site", "https://stackoverflow.com")
	viper.SetDefault("harvester.tag", "")
	viper.SetDefault("harvester.page_size", 50)
	viper.SetDefault("harvester.seed_url", "")
	viper.SetDefault("harvester.request_timeout", "15s")
	viper.SetDefault("harvester.rate_limit_per_domain", 1)
	viper.SetDefault("harvester.allowed_domains", []string{})
	viper.SetDefault("harvester.max_fetch_retries", 3)

	viper.SetDefault("server.enabled", false)
	viper.SetDefault("server.port", 8080)

	viper.SetDefault("logging.development", true)

	viper.SetDefault("storage.provider", "local")
	viper.SetDefault("storage.local_dir", "data/pages")
	viper.SetDefault("storage.gcs_bucket", "")

	viper.SetDefault("database.provider", "noop")
	viper.SetDefault("database.dsn", "")

	viper.SetDefault("queue.provider", "noop")
	viper.SetDefault("queue.project_id", "")
	viper.SetDefault("queue.topic_name", "")

	viper.SetEnvPrefix("HARVESTER") // e.g., HARVESTER_DATABASE_DSN=...
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logging.L.Warn("Config file not found; using defaults and environment variables.")
		} else {
			logging.L.Error("Error reading config file", zap.Error(err))
		}
	} else {
		logging.L.Info("Using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}
