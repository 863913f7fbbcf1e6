// Package config - configuração estática da aplicação carregada de arquivo
// .env e variáveis de ambiente.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"

	"lavapop_analytics/internal/logger"
)

// Configuration reúne toda a configuração estática do servidor e do
// importador. Thresholds de negócio ficam aqui para nenhum literal viver
// no código dos engines.
type Configuration struct {
	Address string `env:"ADDRESS" envDefault:":8080"`

	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`
	MongoDB_DBName        string `env:"MONGODB_DBNAME" envDefault:"lavapop"`

	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`

	RateLimit_Enabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimit_Max     int  `env:"RATE_LIMIT_MAX" envDefault:"100"`
	RateLimit_Window  int  `env:"RATE_LIMIT_WINDOW" envDefault:"60"` // segundos

	// Parque de máquinas da loja, para o cálculo de utilização
	Washers    int `env:"STORE_WASHERS" envDefault:"3"`
	Dryers     int `env:"STORE_DRYERS" envDefault:"5"`
	CycleHours int `env:"STORE_CYCLE_HOURS" envDefault:"1"`

	// Réguas de classificação de risco (dias)
	NewCustomerDays int `env:"RISK_NEW_CUSTOMER_DAYS" envDefault:"7"`
	HealthyDays     int `env:"RISK_HEALTHY_DAYS" envDefault:"30"`
	MonitorDays     int `env:"RISK_MONITOR_DAYS" envDefault:"60"`
	AtRiskDays      int `env:"RISK_AT_RISK_DAYS" envDefault:"90"`
	ChurningDays    int `env:"RISK_CHURNING_DAYS" envDefault:"180"`
	TopAtRiskLimit  int `env:"RISK_TOP_AT_RISK_LIMIT" envDefault:"10"`
	AcquisitionDays int `env:"RISK_ACQUISITION_DAYS" envDefault:"30"`

	// Campanhas
	CampaignMinRecencyDays int `env:"CAMPAIGN_MIN_RECENCY_DAYS" envDefault:"1"`

	// Importador
	ImportBatchSize int `env:"IMPORT_BATCH_SIZE" envDefault:"100"`

	Log logger.LogConfig
}

// getEnvPath procura config/env/<GO_ENV>.env subindo a partir do diretório
// atual.
func getEnvPath() string {
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" {
		goEnv = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", goEnv))
		}
		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			return ""
		}
		currentDir = parent
	}
}

// NewConfig carrega o arquivo .env do ambiente (se existir) e faz o parse
// das variáveis. Retorna erro quando alguma variável obrigatória falta.
func NewConfig() (*Configuration, error) {
	if envPath := getEnvPath(); envPath != "" {
		// Arquivo ausente não é fatal: as variáveis podem vir do ambiente
		_ = godotenv.Load(envPath)
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("erro ao fazer parse da configuração: %w", err)
	}
	if err := env.Parse(&cfg.Log); err != nil {
		return nil, fmt.Errorf("erro ao fazer parse da configuração de log: %w", err)
	}
	return &cfg, nil
}
