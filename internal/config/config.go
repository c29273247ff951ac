package config

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// DefaultEventDuration is the length of the calendar block created for a task.
// Tasks have no end time, so a fixed window keeps events visible.
const DefaultEventDuration = 30 * time.Minute

var (
	logger          = logrus.New()
	defaultTimezone = time.UTC
)

func Init() {
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	defaultTimezone = time.UTC
	if name := os.Getenv("DEFAULT_TIMEZONE"); name != "" {
		loc, err := time.LoadLocation(name)
		if err != nil {
			logger.WithError(err).Warnf("Invalid DEFAULT_TIMEZONE %q, using UTC", name)
		} else {
			defaultTimezone = loc
		}
	}
}

// WithContext returns a request-scoped log entry carrying the chi request id.
func WithContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(logger)
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		entry = entry.WithField("request_id", reqID)
	}
	return entry
}

func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithError(err).Error("Failed to encode JSON response")
	}
}

// DefaultTimezone returns the timezone used when a task does not declare one,
// resolved once from DEFAULT_TIMEZONE in Init. UTC when unset or invalid.
func DefaultTimezone() *time.Location {
	return defaultTimezone
}
