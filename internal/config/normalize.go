package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAudio()
	if err := c.normalizeSeparator(); err != nil {
		return err
	}
	if err := c.normalizeDownload(); err != nil {
		return err
	}
	c.normalizePublish()
	if err := c.normalizeMetrics(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.Catalog) == "" {
		c.Paths.Catalog = defaultCatalog
	}
	if c.Paths.Catalog, err = expandPath(c.Paths.Catalog); err != nil {
		return fmt.Errorf("paths.catalog: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SegmentsDir) == "" {
		c.Paths.SegmentsDir = defaultSegmentsDir
	}
	if c.Paths.SegmentsDir, err = expandPath(c.Paths.SegmentsDir); err != nil {
		return fmt.Errorf("paths.segments_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAudio() {
	c.Audio.SubtitleEncoding = strings.ToLower(strings.TrimSpace(c.Audio.SubtitleEncoding))
	if c.Audio.SubtitleEncoding == "" {
		c.Audio.SubtitleEncoding = defaultSubtitleEncoding
	}
}

func (c *Config) normalizeSeparator() error {
	c.Separator.Binary = strings.TrimSpace(c.Separator.Binary)
	if c.Separator.Binary == "" {
		c.Separator.Binary = defaultSeparatorBinary
	}
	c.Separator.Model = strings.TrimSpace(c.Separator.Model)
	if c.Separator.Model == "" {
		c.Separator.Model = defaultSeparatorModel
	}
	c.Separator.SingleStem = strings.TrimSpace(c.Separator.SingleStem)
	c.Separator.StemMarker = strings.TrimSpace(c.Separator.StemMarker)
	if c.Separator.StemMarker == "" {
		c.Separator.StemMarker = defaultStemMarker
	}
	var err error
	if c.Separator.ModelDir, err = expandPath(strings.TrimSpace(c.Separator.ModelDir)); err != nil {
		return fmt.Errorf("separator.model_dir: %w", err)
	}
	args := make([]string, 0, len(c.Separator.ExtraArgs))
	for _, arg := range c.Separator.ExtraArgs {
		if arg = strings.TrimSpace(arg); arg != "" {
			args = append(args, arg)
		}
	}
	c.Separator.ExtraArgs = args
	return nil
}

func (c *Config) normalizeDownload() error {
	c.Download.Binary = strings.TrimSpace(c.Download.Binary)
	if c.Download.Binary == "" {
		c.Download.Binary = defaultDownloadBinary
	}
	c.Download.Format = strings.TrimSpace(c.Download.Format)
	if c.Download.Format == "" {
		c.Download.Format = defaultDownloadFormat
	}
	var err error
	if c.Download.CookiesFile, err = expandPath(strings.TrimSpace(c.Download.CookiesFile)); err != nil {
		return fmt.Errorf("download.cookies_file: %w", err)
	}
	return nil
}

func (c *Config) normalizePublish() {
	c.Publish.Bucket = strings.TrimSpace(c.Publish.Bucket)
	c.Publish.Prefix = strings.Trim(strings.TrimSpace(c.Publish.Prefix), "/")
	c.Publish.Region = strings.TrimSpace(c.Publish.Region)
	if c.Publish.Region == "" {
		if value, ok := os.LookupEnv("AWS_REGION"); ok {
			c.Publish.Region = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeMetrics() error {
	var err error
	if c.Metrics.TextfilePath, err = expandPath(strings.TrimSpace(c.Metrics.TextfilePath)); err != nil {
		return fmt.Errorf("metrics.textfile_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		if value, ok := os.LookupEnv("TEASERS_LOG_LEVEL"); ok {
			c.Logging.Level = strings.ToLower(strings.TrimSpace(value))
		}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
