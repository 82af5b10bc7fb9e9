package config

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// LogWriter receives application and GORM logs, duplicated to stdout and the
// API log file once InitLogging has run.
var LogWriter io.Writer = os.Stdout

// LogFilePath returns where the API process writes its log file. The
// refresh-statuses tool appends to the same file so one tail covers both.
func LogFilePath() string {
	return filepath.Join("logs", "cms-api.log")
}

// InitLogging opens the log file and points the standard logger at it.
func InitLogging() (*os.File, io.Writer) {
	logPath := filepath.Dir(LogFilePath())
	if err := os.MkdirAll(logPath, os.ModePerm); err != nil {
		log.Printf("Warning: Failed to create logs directory: %v", err)
	}

	logFile, err := os.OpenFile(LogFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("Warning: Failed to open log file: %v", err)
		LogWriter = os.Stdout
		log.SetOutput(LogWriter)
		return nil, LogWriter
	}

	LogWriter = io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(LogWriter)
	return logFile, LogWriter
}
