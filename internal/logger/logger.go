package logger

import (
	"github.com/maxaizer/hiring-board/internal/config"
	"github.com/maxaizer/hiring-board/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"io"
	"os"
	"path/filepath"
)

const ErrorTypeField = "error_type"

const (
	ErrorTypeDb    = "db"
	ErrorTypeAuth  = "auth"
	ErrorTypeTgApi = "tg_api"
	ErrorTypeHttp  = "http"
)

var logFile *os.File

// errorCounterHook counts error entries by their error_type field.
type errorCounterHook struct {
	counter *prometheus.CounterVec
}

func (h errorCounterHook) Fire(entry *log.Entry) error {
	errorType, ok := entry.Data[ErrorTypeField].(string)
	if !ok {
		errorType = "unknown"
	}

	h.counter.WithLabelValues(errorType).Inc()
	return nil
}

func (h errorCounterHook) Levels() []log.Level {
	return log.AllLevels[:log.ErrorLevel+1]
}

func Setup(cfg config.LoggerConfig) {

	if err := os.MkdirAll(filepath.Dir(cfg.OutputFile), 0755); err != nil {
		log.Fatalf("Failed to create log directory: %v", err)
	}

	var err error
	logFile, err = os.OpenFile(cfg.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(multiWriter)

	customFormatter := &log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000 -0700",
	}
	log.SetFormatter(customFormatter)
	log.AddHook(errorCounterHook{counter: metrics.ErrorsCounter})
	log.SetLevel(level(cfg.LogLevel))
}

func level(value config.LogLevel) log.Level {
	switch value {
	case config.LevelInfo:
		return log.InfoLevel
	case config.LevelDebug:
		return log.DebugLevel
	case config.LevelWarning:
		return log.WarnLevel
	case config.LevelError:
		return log.ErrorLevel
	case config.LevelFatal:
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

func Cleanup() {
	if logFile != nil {
		_ = logFile.Close()
	}
}
