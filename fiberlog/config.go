package fiberlog

import "github.com/sirupsen/logrus"

// Config is config for middleware
type Config struct {
	// Logger is the request logger, the global logrus logger when nil
	Logger *logrus.Logger
	// Tags are the fields logged for every request
	Tags []string
}

// ConfigDefault is the default config
var ConfigDefault = Config{
	Tags: []string{
		TagStatus,
		TagLatency,
		TagMethod,
		TagPath,
		RequestID,
	},
}
