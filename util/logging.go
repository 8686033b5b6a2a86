package util

import (
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ConfigureLogging applies level, format and output settings to the standard logrus logger.
func ConfigureLogging(conf LogConfig) {
	level, err := log.ParseLevel(conf.Level)
	if err != nil {
		log.WithError(err).Warnf("unknown log level %q, falling back to info", conf.Level)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	switch strings.ToLower(conf.Format) {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	log.SetOutput(logOutput(conf))
}

func logOutput(conf LogConfig) io.Writer {
	if conf.File == "" {
		return os.Stderr
	}

	return io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   conf.File,
		MaxSize:    conf.MaxSizeMB,
		MaxBackups: conf.MaxBackups,
		Compress:   true,
	})
}
