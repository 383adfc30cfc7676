package logger

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// Setup configures the package-level logrus logger. Log lines go to stderr so
// that stdout carries only script results.
func Setup(level string, format string, reportCaller bool) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	log.SetOutput(os.Stderr)
	log.SetReportCaller(reportCaller)
	switch format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
