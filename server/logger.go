package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	apperrors "petitionserver/server/errors"
	"petitionserver/server/middleware"
)

// Logger global structured logger
var Logger *slog.Logger

func init() {
	opts := &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
	}
	Logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
	slog.SetDefault(Logger)
}

// LogError logs an error with request context
func LogError(ctx context.Context, err error, msg string, attrs ...any) {
	reqID := middleware.GetRequestID(ctx)
	attrs = append(attrs, "error", err, "request_id", reqID)
	Logger.Error(msg, attrs...)
}

// LogWarn logs a warning
func LogWarn(ctx context.Context, msg string, attrs ...any) {
	reqID := middleware.GetRequestID(ctx)
	attrs = append(attrs, "request_id", reqID)
	Logger.Warn(msg, attrs...)
}

// LogInfo logs an informational message
func LogInfo(ctx context.Context, msg string, attrs ...any) {
	reqID := middleware.GetRequestID(ctx)
	attrs = append(attrs, "request_id", reqID)
	Logger.Info(msg, attrs...)
}

// LogHTTPError logs an HTTP error with full request context
func LogHTTPError(r *http.Request, err error, statusCode int) {
	reqID := middleware.GetRequestID(r.Context())

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		Logger.Error("HTTP error",
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", statusCode,
			"error", appErr.Err,
			"user_message", appErr.Message,
			"context", appErr.Context,
			"request_id", reqID,
		)
		return
	}

	Logger.Error("HTTP error",
		"method", r.Method,
		"path", r.URL.Path,
		"status_code", statusCode,
		"error", err,
		"request_id", reqID,
	)
}
