package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	DBHost string `json:"db_host" validate:"required"`
	DBPort string `json:"db_port" validate:"required"`
	DBName string `json:"db_name" validate:"required"`
	DBUser string `json:"db_user" validate:"required"`
	DBPwd  string `json:"db_pwd"`

	EnableLogging bool   `json:"enable_logging"`
	LogFile       string `json:"log_file" validate:"required"`

	ExportDir string `json:"export_dir" validate:"required"`

	// ConverterTool points at an external csv-to-xlsx utility. Empty selects
	// the in-process converter.
	ConverterTool string `json:"converter_tool"`
}

// LoadConfig reads the .env file (or the given files) and the process
// environment. A missing or unparsable file is fatal to the caller.
func LoadConfig(filenames ...string) (*Config, error) {
	if err := godotenv.Load(filenames...); err != nil {
		return nil, fmt.Errorf("failed to load configuration file: %w", err)
	}

	cfg := &Config{
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBName:        getEnv("DB_NAME", ""),
		DBUser:        getEnv("DB_USER", ""),
		DBPwd:         getEnv("DB_PWD", ""),
		EnableLogging: getEnvBool("ENABLE_LOGGING", true),
		LogFile:       getEnv("LOG_FILE", "labexport.log"),
		ExportDir:     getEnv("EXPORT_DIR", "exports"),
		ConverterTool: getEnv("CONVERTER_TOOL", ""),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvBool is tolerant of the string and numeric encodings seen in
// existing deployments ("1", "yes", "True", ...). Unrecognized values fall
// back to the default.
func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}
