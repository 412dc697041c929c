package main

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"teasers/internal/config"
	"teasers/internal/isolation"
	"teasers/internal/logging"
	"teasers/internal/publishing"
	"teasers/internal/services/s3store"
	"teasers/internal/services/separator"
	"teasers/internal/services/ytdlp"
)

// downloader is the subset of ytdlp.Service the download command needs.
type downloader interface {
	Download(ctx context.Context, req ytdlp.Request) (ytdlp.Result, error)
}

// runtimeDeps builds the external collaborators. Tests replace them with
// fakes.
type runtimeDeps struct {
	separator   func(*config.Config) isolation.Separator
	downloader  func(*config.Config) downloader
	objectStore func(context.Context, *config.Config) (publishing.ObjectStore, error)
}

func defaultDeps() runtimeDeps {
	return runtimeDeps{
		separator: func(cfg *config.Config) isolation.Separator {
			return separator.NewService(separator.Config{
				Binary:     cfg.Separator.Binary,
				Model:      cfg.Separator.Model,
				ModelDir:   cfg.Separator.ModelDir,
				SingleStem: cfg.Separator.SingleStem,
				StemMarker: cfg.Separator.StemMarker,
				ExtraArgs:  cfg.Separator.ExtraArgs,
			})
		},
		downloader: func(cfg *config.Config) downloader {
			return ytdlp.NewService(ytdlp.Config{
				Binary:      cfg.Download.Binary,
				Format:      cfg.Download.Format,
				CookiesFile: cfg.Download.CookiesFile,
			})
		},
		objectStore: func(ctx context.Context, cfg *config.Config) (publishing.ObjectStore, error) {
			return s3store.New(ctx, cfg.Publish.Bucket, cfg.Publish.Region)
		},
	}
}

type commandContext struct {
	configFlag *string
	deps       runtimeDeps

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, deps runtimeDeps) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		deps:       deps,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// logger builds the command logger with console output on the command's
// stdout and the JSON copy in the log directory.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, io.Closer, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	return logging.New(logging.Options{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		Console:  cmd.OutOrStdout(),
		FilePath: cfg.LogPath(),
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
