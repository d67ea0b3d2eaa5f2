package config

import "path/filepath"

// Overrides carries command-line values that take precedence over the file.
// Empty fields leave the loaded value untouched.
type Overrides struct {
	Source       string
	Destination  string
	ClearRoot    string
	DefaultTitle string
	UnicodeNFC   bool
	LogLevel     string
}

// Apply merges o into the configuration and revalidates it.
//
// When only the destination is overridden and it falls outside the configured
// clear root, the clear root follows the destination.
func (c *Config) Apply(o Overrides) error {
	if o.Source != "" {
		c.Paths.Source = o.Source
	}
	if o.Destination != "" {
		c.Paths.Destination = o.Destination
		if o.ClearRoot == "" && !pathWithin(c.Paths.ClearRoot, o.Destination) {
			c.Paths.ClearRoot = o.Destination
		}
	}
	if o.ClearRoot != "" {
		c.Paths.ClearRoot = o.ClearRoot
	}
	if o.DefaultTitle != "" {
		c.Normalize.DefaultTitle = o.DefaultTitle
	}
	if o.UnicodeNFC {
		c.Normalize.UnicodeNFC = true
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	return ValidateConfig(c)
}

func pathWithin(parent, path string) bool {
	absParent, err := filepath.Abs(parent)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return IsWithin(absParent, absPath)
}
