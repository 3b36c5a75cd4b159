package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Logger is global since we will need it everywhere
var Logger *slog.Logger

// DefaultEngines is the compare engine list used when PDF_ENGINES is unset.
// fitz is left out since it needs MuPDF at build time.
const DefaultEngines = "pdfium,wasm,text,pdfcpu"

// Config contains all of the smoke-test settings
type Config struct {
	LibraryPath         string   // explicit pdfium shared library
	BaseDir             string   // base directory for library derivation
	Engines             []string // engines used by compare
	WasmInstanceTimeout time.Duration
	LogLevel            slog.Level
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intVal
}

// getEnvList splits a comma-separated environment variable, dropping empty items
func getEnvList(key, defaultValue string) []string {
	return SplitList(getEnv(key, defaultValue))
}

// SplitList splits a comma separated list, trimming items and dropping
// empty ones
func SplitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Setup loads configuration and returns Config and Logger
func Setup() (Config, *slog.Logger) {
	// Load .env files (silently ignore if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("godfium.env")

	logger, level := setupLogging()
	Logger = logger

	cfg := Config{LogLevel: level}

	cfg.LibraryPath = getEnv("PDFIUM_LIBRARY_PATH", "")
	if cfg.LibraryPath != "" {
		if abs, err := filepath.Abs(cfg.LibraryPath); err == nil && filepath.Base(cfg.LibraryPath) != cfg.LibraryPath {
			cfg.LibraryPath = abs
		}
	}

	if baseDir := getEnv("PDFIUM_BASE_DIR", ""); baseDir != "" {
		baseDirAbs, err := filepath.Abs(filepath.ToSlash(baseDir))
		if err != nil {
			logger.Error("Failed creating absolute path for pdfium base directory", "path", baseDir, "error", err)
			baseDirAbs = baseDir
		}
		cfg.BaseDir = baseDirAbs
	}

	cfg.Engines = getEnvList("PDF_ENGINES", DefaultEngines)
	cfg.WasmInstanceTimeout = time.Duration(getEnvInt("WASM_INSTANCE_TIMEOUT", 30)) * time.Second

	logger.Debug("Configuration loaded",
		"libraryPath", cfg.LibraryPath,
		"baseDir", cfg.BaseDir,
		"engines", strings.Join(cfg.Engines, ","),
		"wasmTimeout", cfg.WasmInstanceTimeout)

	return cfg, logger
}

// parseLevel maps a LOG_LEVEL value to a slog level, defaulting to info
func parseLevel(logLevel string) slog.Level {
	switch strings.ToLower(logLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupLogging configures the application logger. Output goes to stderr by
// default so it never mixes with the tool's results on stdout.
func setupLogging() (*slog.Logger, slog.Level) {
	level := parseLevel(getEnv("LOG_LEVEL", "info"))
	handlerOptions := &slog.HandlerOptions{Level: level}

	var logWriter io.Writer
	switch getEnv("LOG_OUTPUT", "stderr") {
	case "stdout":
		logWriter = os.Stdout
	case "file":
		logPath, err := filepath.Abs(filepath.ToSlash(getEnv("LOG_FILE", "godfium.log")))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating log file path: %v\n", err)
			logWriter = os.Stderr
			break
		}
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			logWriter = os.Stderr
			break
		}
		logWriter = logFile
	default:
		logWriter = os.Stderr
	}

	handler := slog.NewTextHandler(logWriter, handlerOptions)
	return slog.New(handler), level
}
