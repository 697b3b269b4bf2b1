package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDataset(); err != nil {
		return err
	}
	if err := c.validateClassifier(); err != nil {
		return err
	}
	if err := c.validateGenres(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDataset() error {
	if c.Dataset.SplitProbability < 0 || c.Dataset.SplitProbability > 1 {
		return errors.New("dataset.split_probability must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateClassifier() error {
	if c.Classifier.K < 1 {
		return errors.New("classifier.k must be positive")
	}
	if c.Classifier.Workers < 0 {
		return errors.New("classifier.workers must be >= 0")
	}
	return nil
}

func (c *Config) validateGenres() error {
	if c.Genres.MaxGenres < 1 {
		return errors.New("genres.max_genres must be positive")
	}
	seen := make(map[string]struct{}, len(c.Genres.Names))
	for _, name := range c.Genres.Names {
		if _, ok := seen[name]; ok {
			return fmt.Errorf("genres.names contains duplicate %q", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
