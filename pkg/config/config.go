package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "TODO_BANK"

// PlaceholderSecret 是範例配置檔中的簽名密鑰，正式環境必須替換
const PlaceholderSecret = "change_me"

// Config 包含應用程序的所有配置

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Log     LogConfig
	Auth    AuthConfig
	Ledger  LedgerConfig
}

// ServerConfig 包含 HTTP 服務器配置
type ServerConfig struct {
	Address         string
	Mode            string
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StorageConfig 選擇儲存後端，Driver 為 memory、postgres 或 sqlite
type StorageConfig struct {
	Driver   string
	Host     string
	User     string
	Password string
	Name     string
	Port     int
	SSLMode  string `mapstructure:"ssl_mode"`
	TimeZone string `mapstructure:"time_zone"`
	Path     string
}

type LogConfig struct {
	Level       string
	Development bool
}

// AuthConfig 包含用戶 token 的簽名配置，TokenTTL 為 0 表示不過期
type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type LedgerConfig struct {
	Timezone string
}

// Location 回傳帳本時區，依日期查詢流水時以此劃分日界
func (c LedgerConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":3333")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.host", "localhost")
	v.SetDefault("storage.user", "postgres")
	v.SetDefault("storage.password", "")
	v.SetDefault("storage.name", "todo_bank")
	v.SetDefault("storage.port", 5432)
	v.SetDefault("storage.ssl_mode", "disable")
	v.SetDefault("storage.time_zone", "UTC")
	v.SetDefault("storage.path", "todo_bank.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	// auth.secret 沒有預設值，必須由配置檔或環境變數提供
	v.SetDefault("auth.token_ttl", "240h")

	v.SetDefault("ledger.timezone", "UTC")
}

// Load 載入配置。path 為空時搜尋預設位置，找不到配置檔不算錯誤，
// 預設值與環境變數仍然生效
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// 沒有預設值的鍵需要明確綁定，Unmarshal 才會讀到環境變數
	if err := v.BindEnv("auth.secret"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./pkg/config")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate 檢查配置是否可用
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory", "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Auth.Secret == "" {
		return fmt.Errorf("auth.secret must not be empty (set it in the config file or %s_AUTH_SECRET)", envPrefix)
	}

	if c.Auth.TokenTTL < 0 {
		return errors.New("auth.token_ttl must not be negative")
	}

	if _, err := c.Ledger.Location(); err != nil {
		return fmt.Errorf("invalid ledger timezone %q: %w", c.Ledger.Timezone, err)
	}

	return nil
}

// UsesPlaceholderSecret 回報是否仍在使用範例密鑰
func (c *Config) UsesPlaceholderSecret() bool {
	return c.Auth.Secret == PlaceholderSecret
}

// PostgresDSN 產生 postgres driver 的連線字串
func (c StorageConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone)
}
