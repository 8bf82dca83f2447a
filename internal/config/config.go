package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Uploads  UploadsConfig
	Document DocumentConfig
	Company  CompanyConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

type UploadsConfig struct {
	Dir string
}

type DocumentConfig struct {
	TxTimeout        time.Duration
	MaxRetryAttempts int
}

// CompanyConfig is the issuer block printed on document previews.
type CompanyConfig struct {
	Name         string
	Address      string
	Phone        string
	Email        string
	FiscalNumber string
	BankName     string
	BankRIB      string
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "comptoir")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_NAME", "comptoir")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("UPLOADS_DIR", "uploads")
	viper.SetDefault("DOC_TX_TIMEOUT", "5s")
	viper.SetDefault("DOC_MAX_RETRY_ATTEMPTS", 3)
	viper.SetDefault("COMPANY_NAME", "")
	viper.SetDefault("COMPANY_ADDRESS", "")
	viper.SetDefault("COMPANY_PHONE", "")
	viper.SetDefault("COMPANY_EMAIL", "")
	viper.SetDefault("COMPANY_FISCAL_NUMBER", "")
	viper.SetDefault("COMPANY_BANK_NAME", "")
	viper.SetDefault("COMPANY_BANK_RIB", "")

	connMaxLifetime, err := time.ParseDuration(viper.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, err
	}

	txTimeout, err := time.ParseDuration(viper.GetString("DOC_TX_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Name:            viper.GetString("DB_NAME"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Uploads: UploadsConfig{
			Dir: viper.GetString("UPLOADS_DIR"),
		},
		Document: DocumentConfig{
			TxTimeout:        txTimeout,
			MaxRetryAttempts: viper.GetInt("DOC_MAX_RETRY_ATTEMPTS"),
		},
		Company: CompanyConfig{
			Name:         viper.GetString("COMPANY_NAME"),
			Address:      viper.GetString("COMPANY_ADDRESS"),
			Phone:        viper.GetString("COMPANY_PHONE"),
			Email:        viper.GetString("COMPANY_EMAIL"),
			FiscalNumber: viper.GetString("COMPANY_FISCAL_NUMBER"),
			BankName:     viper.GetString("COMPANY_BANK_NAME"),
			BankRIB:      viper.GetString("COMPANY_BANK_RIB"),
		},
	}

	return cfg, nil
}
