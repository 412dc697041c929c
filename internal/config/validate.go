package config

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validatePublish(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == c.Paths.SegmentsDir {
		return errors.New("paths.data_dir and paths.segments_dir must differ")
	}
	if strings.TrimSpace(c.Paths.Catalog) == "" {
		return errors.New("paths.catalog must be set")
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.TargetSampleRate < 0 || c.Audio.TargetSampleRate > maxTargetSampleRate {
		return fmt.Errorf("audio.target_sample_rate must be between 0 and %d", maxTargetSampleRate)
	}
	if _, err := htmlindex.Get(c.Audio.SubtitleEncoding); err != nil {
		return fmt.Errorf("audio.subtitle_encoding: unknown encoding %q", c.Audio.SubtitleEncoding)
	}
	return nil
}

func (c *Config) validatePublish() error {
	if !c.Publish.Enabled {
		return nil
	}
	if c.Publish.Bucket == "" {
		return errors.New("publish.bucket must be set when publish.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q (use debug, info, warn or error)", c.Logging.Level)
	}
}
