package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"yatra-app-go/internal/config"
	"yatra-app-go/pkg/logger"
)

const (
	readHeaderTimeout = 5 * time.Second
	maxHeaderBytes    = 64 << 10
)

// New builds the API server. Body reads and handler writes are bounded by the
// configured timeouts; uploads are capped separately by the import handler.
func New(cfg config.Config, handler http.Handler, log logger.Logger) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
		ErrorLog:          log.With("component", "http").Std(slog.LevelWarn),
	}
}
