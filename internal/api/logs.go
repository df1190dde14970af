package api

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/cadenza/cadenza/internal/logger"
)

// LogsProvider provides access to log data. The application logger
// satisfies it when streaming is enabled.
type LogsProvider interface {
	GetRecentLogs() []logger.LogEntry
	GetLogFilePath() string
}

// SetLogsProvider attaches the source for the log endpoints. The routes
// are registered up front; until a provider is set they serve empty
// results.
func (s *Server) SetLogsProvider(provider LogsProvider) {
	s.logsProvider = provider
}

// getRecentLogs returns recent log entries from the ring buffer.
// GET /api/v1/logs
func (s *Server) getRecentLogs(c echo.Context) error {
	logs := []logger.LogEntry{}
	if s.logsProvider != nil {
		if recent := s.logsProvider.GetRecentLogs(); recent != nil {
			logs = recent
		}
	}
	return c.JSON(http.StatusOK, logs)
}

// downloadLogFile serves the current log file for download.
// GET /api/v1/logs/download
func (s *Server) downloadLogFile(c echo.Context) error {
	if s.logsProvider == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no log file configured")
	}

	logPath := s.logsProvider.GetLogFilePath()
	if logPath == "" {
		return echo.NewHTTPError(http.StatusNotFound, "no log file configured")
	}

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		return echo.NewHTTPError(http.StatusNotFound, "log file not found")
	}

	return c.Attachment(logPath, "cadenza.log")
}
