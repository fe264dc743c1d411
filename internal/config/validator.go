package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	validate := validator.New()

	// Register custom validation for LogLevel
	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		level := strings.ToLower(fl.Field().String())
		switch level {
		case "", "debug", "info", "warn", "error", "fatal", "panic": // Allow empty for omitempty
			return true
		default:
			return false
		}
	})

	// Register custom validation for LogFormat
	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		format := strings.ToLower(fl.Field().String())
		switch format {
		case "", "console", "text", "json": // Allow empty for omitempty
			return true
		default:
			return false
		}
	})

	if err := validate.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			messages := make([]string, 0, len(validationErrors))
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("field '%s' failed on '%s'", fieldErr.Namespace(), fieldErr.Tag()))
			}
			return fmt.Errorf("config validation failed: %s", strings.Join(messages, "; "))
		}
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}
