// Package logger configures the process-wide logrus logger for the server and the CLI.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"alcyxob/donation-share/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
)

// Init applies cfg to the standard logrus logger.
// Unknown levels fall back to info.
func Init(cfg config.LogConfig) {
	Configure(logrus.StandardLogger(), cfg, os.Stderr)
}

// Configure applies cfg to l, writing to out and, when cfg.File is set, to a rotating file.
func Configure(l *logrus.Logger, cfg config.LogConfig, out io.Writer) {
	level, err := logrus.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if cfg.JSON {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	}

	if cfg.File == "" {
		l.SetOutput(out)
		return
	}
	l.SetOutput(io.MultiWriter(out, &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}))
}

// RequestLogger writes one line per request: method, status, latency, client and path.
// 5xx responses log at error level, 4xx at warn, the rest at debug.
func RequestLogger(l *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		entry := l.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"status":  status,
			"latency": time.Since(start).String(),
			"client":  c.ClientIP(),
			"path":    path,
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Debug("request served")
		}
	}
}
