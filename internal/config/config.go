package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App       App       `mapstructure:",squash"`
	Server    Server    `mapstructure:",squash"`
	Database  Database  `mapstructure:",squash"`
	Meta      Meta      `mapstructure:",squash"`
	Telegram  Telegram  `mapstructure:",squash"`
	Alerts    Alerts    `mapstructure:",squash"`
	Report    Report    `mapstructure:",squash"`
	Sync      Sync      `mapstructure:",squash"`
	Cache     Cache     `mapstructure:",squash"`
	Scheduler Scheduler `mapstructure:",squash"`
	Auth      Auth      `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Meta struct {
	BaseURL     string `mapstructure:"meta_base_url"`
	URL         string `mapstructure:"-"`
	Version     string `mapstructure:"meta_version"`
	AccessToken string `mapstructure:"meta_access_token"`
	AppID       string `mapstructure:"meta_app_id"`
	AppSecret   string `mapstructure:"meta_app_secret"`
	AccountID   string `mapstructure:"meta_account_id"`
	MaxRetries  int    `mapstructure:"meta_max_retries"`
	RetryDelay  int    `mapstructure:"meta_retry_delay_seconds"`
	PageSize    int    `mapstructure:"meta_page_size"`
}

type Telegram struct {
	BaseURL          string `mapstructure:"telegram_base_url"`
	BotToken         string `mapstructure:"telegram_bot_token"`
	ChatID           string `mapstructure:"telegram_chat_id"`
	MaxMessageLength int    `mapstructure:"telegram_max_message_length"`
	MaxRetries       int    `mapstructure:"telegram_max_retries"`
	RetryDelay       int    `mapstructure:"telegram_retry_delay_seconds"`
}

// Alerts define os limiares aplicados sobre as métricas agregadas
type Alerts struct {
	HighCPC               string  `mapstructure:"alert_high_cpc"`
	LowCTR                float64 `mapstructure:"alert_low_ctr"`
	BudgetDepletedPercent float64 `mapstructure:"alert_budget_depleted_percent"`
	MinImpressions        int     `mapstructure:"alert_min_impressions"`
	MinClicks             int     `mapstructure:"alert_min_clicks"`
}

// HighCPCValue converte o limiar de CPC alto para decimal
func (a Alerts) HighCPCValue() decimal.Decimal {
	value, err := decimal.NewFromString(a.HighCPC)
	if err != nil {
		logrus.WithError(err).Warnf("Valor inválido para ALERT_HIGH_CPC: %s, usando 2.00", a.HighCPC)
		return decimal.NewFromFloat(2.00)
	}
	return value
}

type Report struct {
	StartDate    string `mapstructure:"report_start_date"`
	EndDate      string `mapstructure:"report_end_date"`
	LookbackDays int    `mapstructure:"report_lookback_days"`
	OutputDir    string `mapstructure:"report_output_dir"`
	RankMetric   string `mapstructure:"report_rank_metric"`
	EntityLimit  int    `mapstructure:"report_entity_limit"`
}

type Sync struct {
	MalformedTolerance float64 `mapstructure:"sync_malformed_tolerance"`
	RunTimeoutMinutes  int     `mapstructure:"sync_run_timeout_minutes"`
	RequestDelaySecs   int     `mapstructure:"sync_request_delay_seconds"`
	RetentionDays      int     `mapstructure:"sync_retention_days"`
}

// RunTimeout retorna o tempo máximo de vida de um checkpoint IN_PROGRESS
func (s Sync) RunTimeout() time.Duration {
	return time.Duration(s.RunTimeoutMinutes) * time.Minute
}

type Cache struct {
	Enabled    bool   `mapstructure:"cache_enabled"`
	Directory  string `mapstructure:"cache_directory"`
	TTLSeconds int    `mapstructure:"cache_ttl_seconds"`
}

func (c Cache) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

type Scheduler struct {
	DailyCron         string `mapstructure:"daily_report_cron"`
	DailyEnabled      bool   `mapstructure:"daily_report_enabled"`
	WeeklyCron        string `mapstructure:"weekly_report_cron"`
	WeeklyEnabled     bool   `mapstructure:"weekly_report_enabled"`
	SpendCheckCron    string `mapstructure:"spend_check_cron"`
	SpendCheckEnabled bool   `mapstructure:"spend_check_enabled"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/ads_reporter")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_VERSION", "v22.0")
	viper.SetDefault("META_APP_ID", "")
	viper.SetDefault("META_APP_SECRET", "")
	viper.SetDefault("META_ACCESS_TOKEN", "")
	viper.SetDefault("META_ACCOUNT_ID", "")
	viper.SetDefault("META_MAX_RETRIES", 3)
	viper.SetDefault("META_RETRY_DELAY_SECONDS", 5)
	viper.SetDefault("META_PAGE_SIZE", 100)

	viper.SetDefault("TELEGRAM_BASE_URL", "https://api.telegram.org")
	viper.SetDefault("TELEGRAM_BOT_TOKEN", "")
	viper.SetDefault("TELEGRAM_CHAT_ID", "")
	viper.SetDefault("TELEGRAM_MAX_MESSAGE_LENGTH", 4096)
	viper.SetDefault("TELEGRAM_MAX_RETRIES", 3)
	viper.SetDefault("TELEGRAM_RETRY_DELAY_SECONDS", 2)

	// Limiares de alerta sobre as métricas agregadas
	viper.SetDefault("ALERT_HIGH_CPC", "2.00")              // CPC acima disso gera alerta
	viper.SetDefault("ALERT_LOW_CTR", 0.50)                 // CTR abaixo disso gera alerta
	viper.SetDefault("ALERT_BUDGET_DEPLETED_PERCENT", 90.0) // % do orçamento consumido
	viper.SetDefault("ALERT_MIN_IMPRESSIONS", 100)          // Volume mínimo para avaliar CTR
	viper.SetDefault("ALERT_MIN_CLICKS", 10)                // Volume mínimo para avaliar CPC

	viper.SetDefault("REPORT_START_DATE", "")
	viper.SetDefault("REPORT_END_DATE", "")
	viper.SetDefault("REPORT_LOOKBACK_DAYS", 0)
	viper.SetDefault("REPORT_OUTPUT_DIR", "reports")
	viper.SetDefault("REPORT_RANK_METRIC", "spend")
	viper.SetDefault("REPORT_ENTITY_LIMIT", 10)

	viper.SetDefault("SYNC_MALFORMED_TOLERANCE", 0.10) // Fração tolerada de registros malformados
	viper.SetDefault("SYNC_RUN_TIMEOUT_MINUTES", 30)
	viper.SetDefault("SYNC_REQUEST_DELAY_SECONDS", 1)
	viper.SetDefault("SYNC_RETENTION_DAYS", 0) // 0 desabilita o expurgo de métricas antigas

	viper.SetDefault("CACHE_ENABLED", false)
	viper.SetDefault("CACHE_DIRECTORY", ".cache")
	viper.SetDefault("CACHE_TTL_SECONDS", 3600)

	// Agendadores de relatórios (modo servidor)
	viper.SetDefault("DAILY_REPORT_CRON", "0 8 * * *")  // Todos os dias às 8h
	viper.SetDefault("DAILY_REPORT_ENABLED", false)
	viper.SetDefault("WEEKLY_REPORT_CRON", "0 9 * * 1") // Segunda-feira às 9h
	viper.SetDefault("WEEKLY_REPORT_ENABLED", false)
	viper.SetDefault("SPEND_CHECK_CRON", "0 * * * *")   // A cada hora
	viper.SetDefault("SPEND_CHECK_ENABLED", false)

	viper.SetDefault("AUTH_SECRET", "")

	viper.SetDefault("LOG_LEVEL", "info")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env): ", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Meta.URL = fmt.Sprintf("%s/%s", config.Meta.BaseURL, config.Meta.Version)

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Validate verifica uma única vez, na inicialização, os campos obrigatórios
func (c *Config) Validate() error {
	if c.Meta.AccessToken == "" {
		return fmt.Errorf("META_ACCESS_TOKEN não configurado")
	}

	if c.Meta.AccountID == "" {
		return fmt.Errorf("META_ACCOUNT_ID não configurado")
	}

	if c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN não configurado")
	}

	if c.Telegram.ChatID == "" {
		return fmt.Errorf("TELEGRAM_CHAT_ID não configurado")
	}

	if c.Sync.MalformedTolerance < 0 || c.Sync.MalformedTolerance > 1 {
		return fmt.Errorf("SYNC_MALFORMED_TOLERANCE deve estar entre 0 e 1: %f", c.Sync.MalformedTolerance)
	}

	if c.Telegram.MaxMessageLength <= 0 {
		return fmt.Errorf("TELEGRAM_MAX_MESSAGE_LENGTH deve ser positivo: %d", c.Telegram.MaxMessageLength)
	}

	if c.Report.StartDate != "" {
		if _, err := time.Parse(time.DateOnly, c.Report.StartDate); err != nil {
			return fmt.Errorf("REPORT_START_DATE inválido: %w", err)
		}
	}

	if c.Report.EndDate != "" {
		if _, err := time.Parse(time.DateOnly, c.Report.EndDate); err != nil {
			return fmt.Errorf("REPORT_END_DATE inválido: %w", err)
		}
	}

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual: ", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Debug("Arquivo .env carregado de: ", location)
			return
		}
	}
}
