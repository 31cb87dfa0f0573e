package initializers

import (
	log "github.com/sirupsen/logrus"

	"bbs-backend/fiberlog"
)

func jsonFormatter() *log.JSONFormatter {
	return &log.JSONFormatter{
		FieldMap: log.FieldMap{
			log.FieldKeyTime: "@timestamp",
			log.FieldKeyMsg:  "message",
		},
	}
}

// InitLogger sets the global logger to level and returns the request logger config.
// Request logs stay at debug so bodies are kept whatever the global level is.
func InitLogger(level string) *fiberlog.Config {
	log.SetFormatter(jsonFormatter())
	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
		defer log.WithField("level", level).Warn("unknown log level, using info")
	}
	log.SetLevel(parsed)

	requestLogger := log.New()
	requestLogger.SetFormatter(jsonFormatter())
	requestLogger.SetLevel(log.DebugLevel)
	return &fiberlog.Config{
		Logger: requestLogger,
		Tags: []string{
			fiberlog.TagMethod,
			fiberlog.TagPath,
			fiberlog.TagQuery,
			fiberlog.TagStatus,
			fiberlog.TagLatency,
			fiberlog.TagBody,
			fiberlog.TagResBody,
			fiberlog.RequestID,
		},
	}
}
