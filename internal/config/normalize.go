package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeDataset(); err != nil {
		return err
	}
	if err := c.normalizeGenres(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDataset() error {
	if value, ok := os.LookupEnv("TIMBRE_DATASET"); ok && strings.TrimSpace(value) != "" {
		c.Dataset.Path = strings.TrimSpace(value)
	}
	c.Dataset.Path = strings.TrimSpace(c.Dataset.Path)
	if c.Dataset.Path == "" {
		c.Dataset.Path = filepath.Join(c.Paths.DataDir, defaultDatasetFile)
	}
	var err error
	if c.Dataset.Path, err = expandPath(c.Dataset.Path); err != nil {
		return fmt.Errorf("dataset.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeGenres() error {
	names := make([]string, 0, len(c.Genres.Names))
	for _, name := range c.Genres.Names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	c.Genres.Names = names
	c.Genres.SourceDir = strings.TrimSpace(c.Genres.SourceDir)
	if c.Genres.SourceDir != "" {
		var err error
		if c.Genres.SourceDir, err = expandPath(c.Genres.SourceDir); err != nil {
			return fmt.Errorf("genres.source_dir: %w", err)
		}
	}
	if c.Genres.MaxGenres == 0 {
		c.Genres.MaxGenres = defaultMaxGenres
	}
	return nil
}

func (c *Config) normalizeHistory() error {
	c.History.Path = strings.TrimSpace(c.History.Path)
	if c.History.Path == "" {
		c.History.Path = filepath.Join(c.Paths.DataDir, defaultHistoryFile)
	}
	var err error
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
