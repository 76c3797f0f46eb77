package main

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log    LogConfig
	Server ServerConfig
	Agent  AgentConfig
}

type ServerConfig struct {
	Url string `mapstructure:"url"`
}

type AgentConfig struct {
	Entrypoint string `mapstructure:"entrypoint"`
	Token      string `mapstructure:"token"`
	IntervalS  int    `mapstructure:"interval_s"`
}

var config Config

func InitConfig() {
	_ = godotenv.Load()

	viper.SetConfigName("application")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./cmd/entryhub-agent")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Placeholder defaults; deployments must override them.
	viper.SetDefault("server.url", "http://10.10.12.70:8080")
	viper.SetDefault("agent.entrypoint", "CHANGE_ME_entrypoint")
	viper.SetDefault("agent.token", "CHANGE_ME_token")
	viper.SetDefault("agent.interval_s", 30)

	_ = viper.BindEnv("server.url", "SERVER_URL")
	_ = viper.BindEnv("agent.entrypoint", "ENTRYPOINT")
	_ = viper.BindEnv("agent.token", "TOKEN")
	_ = viper.BindEnv("agent.interval_s", "INTERVAL_S")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(err)
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		panic(err)
	}

	initLogger(config.Log.Level)
}
