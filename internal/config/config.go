package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"pdfkeyword/internal/logger"
)

const (
	DefaultDPI              = 300
	DefaultLanguage         = "por"
	DefaultFallbackLanguage = "eng"
	DefaultContextLines     = 2
	DefaultMaxPixels        = 25_000_000
	DefaultImagesDir        = "extracted_images/pages"
	DefaultEngine           = "tesseract"
)

type Config struct {
	// OCR Configuration
	Engine           string
	Language         string
	FallbackLanguage string
	DPI              int
	MaxPixels        int
	TesseractPath    string
	TessdataPrefix   string

	// Search Configuration
	ContextLines int
	ImagesDir    string

	// Google Cloud Configuration
	GoogleCredentials            string
	GoogleApplicationCredentials string
	GoogleCloudProject           string
	GoogleCloudLocation          string
	DocumentAIProcessorID        string

	// Google Sheets Configuration
	GoogleSheetURL       string
	GoogleSheetWorksheet string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		Engine:                       strings.ToLower(getEnv("OCR_ENGINE", DefaultEngine)),
		Language:                     getEnv("OCR_LANGUAGE", DefaultLanguage),
		FallbackLanguage:             getEnv("OCR_FALLBACK_LANGUAGE", DefaultFallbackLanguage),
		TesseractPath:                getEnv("TESSERACT_PATH", ""),
		TessdataPrefix:               getEnv("TESSDATA_PREFIX", ""),
		ImagesDir:                    getEnv("IMAGES_DIR", DefaultImagesDir),
		GoogleCredentials:            getEnv("GOOGLE_CREDENTIALS", ""),
		GoogleCloudProject:           getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation:          getEnv("GOOGLE_CLOUD_LOCATION", "us"),
		GoogleApplicationCredentials: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		DocumentAIProcessorID:        getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
		GoogleSheetURL:               getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetWorksheet:         getEnv("GOOGLE_SHEET_WORKSHEET", "Matches"),
		LogLevel:                     getEnv("LOG_LEVEL", "info"),
		LogFormat:                    getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:                getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:                    getEnv("LOG_OUTPUT", "stderr"),
	}

	var err error
	if config.DPI, err = getEnvInt("OCR_DPI", DefaultDPI); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if config.MaxPixels, err = getEnvInt("OCR_MAX_PIXELS", DefaultMaxPixels); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if config.ContextLines, err = getEnvInt("CONTEXT_LINES", DefaultContextLines); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Default returns the configuration used when the environment cannot be
// loaded. It never touches the environment.
func Default() *Config {
	return &Config{
		Engine:               DefaultEngine,
		Language:             DefaultLanguage,
		FallbackLanguage:     DefaultFallbackLanguage,
		DPI:                  DefaultDPI,
		MaxPixels:            DefaultMaxPixels,
		ContextLines:         DefaultContextLines,
		ImagesDir:            DefaultImagesDir,
		GoogleCloudLocation:  "us",
		GoogleSheetWorksheet: "Matches",
		LogLevel:             "info",
		LogFormat:            "console",
		LogTimeFormat:        "2006-01-02T15:04:05Z07:00",
		LogOutput:            "stderr",
	}
}

func (c *Config) validate() error {
	if c.DPI <= 0 {
		return fmt.Errorf("OCR_DPI must be positive, got %d", c.DPI)
	}
	if c.MaxPixels <= 0 {
		return fmt.Errorf("OCR_MAX_PIXELS must be positive, got %d", c.MaxPixels)
	}
	if c.ContextLines < 0 {
		return fmt.Errorf("CONTEXT_LINES must not be negative, got %d", c.ContextLines)
	}
	if c.Language == "" {
		return fmt.Errorf("OCR_LANGUAGE must not be empty")
	}
	switch c.Engine {
	case "tesseract", "gosseract", "vision", "documentai":
	default:
		return fmt.Errorf("OCR_ENGINE must be one of tesseract, gosseract, vision, documentai; got %q", c.Engine)
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	// Allow 25_000_000 style values.
	n, err := strconv.Atoi(strings.ReplaceAll(value, "_", ""))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return n, nil
}
