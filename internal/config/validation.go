package config

import (
	"strings"

	ferrors "git.home.luguber.info/inful/docsync/internal/foundation/errors"
)

// ValidateConfig validates the complete configuration structure.
func ValidateConfig(cfg *Config) error {
	return newConfigurationValidator(cfg).validate()
}

// configurationValidator coordinates validation across all configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validatePaths(); err != nil {
		return err
	}
	if err := cv.validateNormalize(); err != nil {
		return err
	}
	if err := cv.validateWatch(); err != nil {
		return err
	}
	return cv.validateLogging()
}

func (cv *configurationValidator) validatePaths() error {
	_, err := cv.config.Paths.Resolve()
	return err
}

func (cv *configurationValidator) validateNormalize() error {
	title := cv.config.Normalize.DefaultTitle
	if strings.TrimSpace(title) == "" {
		return ferrors.ConfigError("normalize.default_title must not be empty").Build()
	}
	if strings.ContainsAny(title, "\r\n") {
		return ferrors.ConfigError("normalize.default_title must be a single line").Build()
	}
	return nil
}

func (cv *configurationValidator) validateWatch() error {
	if cv.config.Watch.Debounce < 0 {
		return ferrors.ConfigError("watch.debounce must not be negative").
			WithContext("debounce", cv.config.Watch.Debounce.String()).
			Build()
	}
	return nil
}

func (cv *configurationValidator) validateLogging() error {
	if _, err := logLevelNormalizer.NormalizeWithError(cv.config.Logging.Level); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid logging.level").
			WithContext("valid", logLevelNormalizer.ValidKeys()).
			Fatal().
			Build()
	}
	if _, err := logFormatNormalizer.NormalizeWithError(cv.config.Logging.Format); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid logging.format").
			WithContext("valid", logFormatNormalizer.ValidKeys()).
			Fatal().
			Build()
	}
	return nil
}
