package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

const configFilePathENV = "CONFIG_FILE"

// Config — вся конфигурация процесса. Читается один раз на старте,
// дальше только передаётся по ссылке.
type Config struct {
	Telegram struct {
		Token string `mapstructure:"token"`
		// User — username оператора; сообщения от остальных игнорируем
		User string `mapstructure:"user"`
	} `mapstructure:"telegram"`

	MetaAPI struct {
		Token     string `mapstructure:"token"`
		AccountID string `mapstructure:"account_id"`
		BaseURL   string `mapstructure:"base_url"`
		WSURL     string `mapstructure:"ws_url"`
	} `mapstructure:"metaapi"`

	// RiskFraction — доля депозита под риском на сделку, (0, 1].
	// Фиксируется на деплой, сигналом не переопределяется.
	RiskFraction float64 `mapstructure:"risk_fraction"`

	// InstrumentsFile — опциональный yaml с дополнительными символами
	// (symbol: pip_size) поверх встроенного списка.
	InstrumentsFile string `mapstructure:"instruments_file"`

	ConfirmTTL    time.Duration `mapstructure:"confirm_ttl"`
	DeployTimeout time.Duration `mapstructure:"deploy_timeout"`
	SyncTimeout   time.Duration `mapstructure:"sync_timeout"`

	Health struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"health"`

	Jaeger struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
	} `mapstructure:"jaeger"`
}

func NewConfig() (*Config, error) {
	v := viper.New()

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	v.SetConfigFile("configs/" + configFileName)

	v.SetDefault("metaapi.base_url", "https://mt-client-api-v1.agiliumtrade.agiliumtrade.ai")
	v.SetDefault("metaapi.ws_url", "wss://mt-client-api-v1.agiliumtrade.agiliumtrade.ai/ws")
	v.SetDefault("confirm_ttl", "5m")
	v.SetDefault("deploy_timeout", "3m")
	v.SetDefault("sync_timeout", "2m")
	v.SetDefault("health.port", 8443)

	// env-имена исторические, чтобы деплой не переписывать
	_ = v.BindEnv("telegram.token", "TOKEN")
	_ = v.BindEnv("telegram.user", "TELEGRAM_USER")
	_ = v.BindEnv("metaapi.token", "API_KEY")
	_ = v.BindEnv("metaapi.account_id", "ACCOUNT_ID")
	_ = v.BindEnv("risk_fraction", "RISK_FACTOR")
	_ = v.BindEnv("health.port", "PORT")

	if err := v.ReadInConfig(); err != nil {
		// файл опционален: всё можно задать через env
		if _, statErr := os.Stat("configs/" + configFileName); statErr == nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Telegram.Token == "" {
		return nil, fmt.Errorf("telegram token is required (env TOKEN)")
	}
	if cfg.MetaAPI.Token == "" || cfg.MetaAPI.AccountID == "" {
		return nil, fmt.Errorf("broker credentials are required (env API_KEY, ACCOUNT_ID)")
	}
	if cfg.RiskFraction <= 0 || cfg.RiskFraction > 1 {
		return nil, fmt.Errorf("risk_fraction must be in (0, 1], got %v", cfg.RiskFraction)
	}

	return cfg, nil
}
