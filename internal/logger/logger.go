// Package logger - logging estruturado da aplicação sobre logrus, com
// rotação de arquivo via lumberjack. Loggers nomeados (app, import, error)
// compartilham a mesma configuração e são criados sob demanda.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig é a configuração do sistema de logging, carregada pela camada
// de config (env vars LOG_*).
type LogConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`      // trace, debug, info, warn, error
	Format     string `env:"LOG_FORMAT" envDefault:"text"`     // json, text
	Output     string `env:"LOG_OUTPUT" envDefault:"both"`     // file, stdout, both
	LogPath    string `env:"LOG_PATH" envDefault:"./logs"`
	MaxSize    int    `env:"LOG_MAX_SIZE" envDefault:"100"`    // MB por arquivo
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"7"`   // arquivos antigos mantidos
	MaxAge     int    `env:"LOG_MAX_AGE" envDefault:"14"`      // dias
	Compress   bool   `env:"LOG_COMPRESS" envDefault:"true"`
}

// DefaultConfig retorna a configuração padrão.
func DefaultConfig() *LogConfig {
	return &LogConfig{
		Level:      "info",
		Format:     "text",
		Output:     "both",
		LogPath:    "./logs",
		MaxSize:    100,
		MaxBackups: 7,
		MaxAge:     14,
		Compress:   true,
	}
}

var (
	loggers   = make(map[string]*logrus.Logger)
	loggersMu sync.Mutex
	config    *LogConfig
)

// Init registra a configuração e garante o diretório de logs. Chamar antes
// de qualquer GetLogger; sem Init, vale DefaultConfig.
func Init(cfg *LogConfig) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	config = cfg
	if cfg.Output == "stdout" {
		return nil
	}
	return os.MkdirAll(cfg.LogPath, 0o755)
}

// GetLogger retorna o logger nomeado, criando na primeira chamada.
func GetLogger(name string) *logrus.Logger {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if config == nil {
		config = DefaultConfig()
		_ = os.MkdirAll(config.LogPath, 0o755)
	}
	if l, ok := loggers[name]; ok {
		return l
	}
	l := newLogger(name)
	loggers[name] = l
	return l
}

// GetAppLogger é o logger principal do servidor.
func GetAppLogger() *logrus.Logger { return GetLogger("app") }

// GetImportLogger registra o pipeline de importação de CSV.
func GetImportLogger() *logrus.Logger { return GetLogger("import") }

// GetErrorLogger concentra erros de qualquer camada.
func GetErrorLogger() *logrus.Logger { return GetLogger("error") }

func newLogger(name string) *logrus.Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if config.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
		})
	}

	var writers []io.Writer
	if config.Output == "file" || config.Output == "both" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   filepath.Join(config.LogPath, name+".log"),
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
		})
	}
	if config.Output == "stdout" || config.Output == "both" {
		writers = append(writers, os.Stdout)
	}
	if len(writers) > 0 {
		l.SetOutput(io.MultiWriter(writers...))
	}

	return l
}
