package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	httpapi "github.com/koronatech/entryhub/internal/api/http"
	"github.com/koronatech/entryhub/internal/auth"
	"github.com/koronatech/entryhub/internal/db"
)

const ModeDevelopment = "development"

type Config struct {
	Mode     string
	Log      LogConfig
	Http     httpapi.Config
	Database db.Config
	Registry RegistryConfig
	Relay    RelayConfig
	Auth     AuthConfig
}

type RegistryConfig struct {
	RosterFile   string `mapstructure:"roster_file"`
	OnlineGraceS int    `mapstructure:"online_grace_s"`
	ScannerLog   string `mapstructure:"scanner_log"`
}

type RelayConfig struct {
	TimeoutS int `mapstructure:"timeout_s"`
}

type AuthConfig struct {
	Jwt           auth.JWTConfig `mapstructure:"jwt"`
	AdminUsername string         `mapstructure:"admin_username"`
	AdminPassword string         `mapstructure:"admin_password"`
}

var config Config

func InitConfig() {
	_ = godotenv.Load()

	viper.SetConfigName("application")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./cmd/entryhub-server")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("mode", ModeDevelopment)
	viper.SetDefault("http.port", 8080)
	viper.SetDefault("database.driver", "memory")
	viper.SetDefault("registry.roster_file", "devices.json")
	viper.SetDefault("registry.online_grace_s", 120)
	viper.SetDefault("registry.scanner_log", "/var/log/korona/scanner.log")
	viper.SetDefault("relay.timeout_s", 8)
	viper.SetDefault("auth.jwt.secret", "changeme")
	viper.SetDefault("auth.jwt.ttl", 24*time.Hour)
	viper.SetDefault("auth.admin_username", "admin")
	viper.SetDefault("auth.admin_password", "changeme")

	_ = viper.BindEnv("database.url", "HEARTBEAT_DB")
	_ = viper.BindEnv("registry.roster_file", "DEVICES_FILE")
	_ = viper.BindEnv("registry.online_grace_s", "ONLINE_GRACE_S")

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

	if err := validateConfig(config); err != nil {
		panic(err)
	}

	// Pretty print config as JSON (only at DEBUG level)
	if strings.ToUpper(config.Log.Level) == LOG_LEVEL_DEBUG {
		configJSON, err := json.MarshalIndent(config, "", "  ")
		if err == nil {
			fmt.Println("Config loaded:")
			fmt.Println(string(configJSON))
		}
	}
}

// validateConfig refuses to start outside development mode with the
// shipped placeholder credentials still in place.
func validateConfig(c Config) error {
	if c.Mode == ModeDevelopment {
		return nil
	}
	if c.Auth.Jwt.Secret == "" || c.Auth.Jwt.Secret == "changeme" {
		return fmt.Errorf("auth.jwt.secret holds a placeholder value; set a real secret in %s mode", c.Mode)
	}
	if c.Auth.AdminPassword == "" || c.Auth.AdminPassword == "changeme" {
		return fmt.Errorf("auth.admin_password holds a placeholder value; set a real password in %s mode", c.Mode)
	}
	if c.Database.Driver == "postgres" && c.Database.Url == "" {
		return fmt.Errorf("database.url is required with the postgres driver")
	}
	return nil
}
