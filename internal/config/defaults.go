package config

import "git.home.luguber.info/inful/docsync/internal/normalize"

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// PathsDefaultApplier handles path defaults.
type PathsDefaultApplier struct{}

func (p *PathsDefaultApplier) Domain() string { return "paths" }

func (p *PathsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Paths.Source == "" {
		cfg.Paths.Source = DefaultSource
	}
	if cfg.Paths.Destination == "" {
		cfg.Paths.Destination = DefaultDestination
	}
	// An explicit destination without a clear root clears only the destination.
	if cfg.Paths.ClearRoot == "" {
		if cfg.Paths.Destination == DefaultDestination {
			cfg.Paths.ClearRoot = DefaultClearRoot
		} else {
			cfg.Paths.ClearRoot = cfg.Paths.Destination
		}
	}
	return nil
}

// NormalizeDefaultApplier handles normalization defaults.
type NormalizeDefaultApplier struct{}

func (n *NormalizeDefaultApplier) Domain() string { return "normalize" }

func (n *NormalizeDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Normalize.DefaultTitle == "" {
		cfg.Normalize.DefaultTitle = normalize.DefaultTitle
	}
	return nil
}

// WatchDefaultApplier handles watch mode defaults.
type WatchDefaultApplier struct{}

func (w *WatchDefaultApplier) Domain() string { return "watch" }

func (w *WatchDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = DefaultDebounce
	}
	return nil
}

// LoggingDefaultApplier handles logging defaults.
type LoggingDefaultApplier struct{}

func (l *LoggingDefaultApplier) Domain() string { return "logging" }

func (l *LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = string(LogLevelInfo)
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = string(LogFormatText)
	}
	return nil
}

var defaultAppliers = []DefaultApplier{
	&PathsDefaultApplier{},
	&NormalizeDefaultApplier{},
	&WatchDefaultApplier{},
	&LoggingDefaultApplier{},
}

func applyDefaults(cfg *Config) error {
	for _, applier := range defaultAppliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}
