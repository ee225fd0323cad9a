package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	err := Init(Config{
		Debug:     false,
		ConfigDir: configDir,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}

	if Logger == nil {
		t.Error("Logger is nil after initialization")
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")

	if _, err := os.Stat(filepath.Join(logDir, "habitline.log")); err != nil {
		t.Errorf("log file not written: %v", err)
	}
}

func TestInitAssignsSessionID(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{Debug: true, ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}
	first := SessionID
	if _, err := uuid.Parse(first); err != nil {
		t.Errorf("SessionID %q is not a uuid: %v", first, err)
	}

	if err := Init(Config{Debug: true, ConfigDir: configDir}); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	if SessionID == first {
		t.Error("each Init should start a new session")
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}
