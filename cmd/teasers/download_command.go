package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"teasers/internal/catalog"
	"teasers/internal/config"
	"teasers/internal/fileutil"
	"teasers/internal/logging"
	"teasers/internal/services"
	"teasers/internal/services/ytdlp"
)

// downloadScratchDir holds yt-dlp output until it is moved into place.
const downloadScratchDir = ".download"

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var subtitles bool

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Fetch the audio (and optionally subtitles) for every catalog entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, closer, err := ctx.logger(cmd)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer closer.Close()

			entries, err := catalog.Load(cfg.Paths.Catalog)
			if err != nil {
				return err
			}
			withSubs := subtitles || cfg.Download.Subtitles
			client := ctx.deps.downloader(cfg)

			fetched := 0
			for _, entry := range entries {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				entryLogger := logging.WithContext(services.WithEntry(cmd.Context(), entry.Filename), logger)
				if err := downloadEntry(cmd, cfg, client, entryLogger, entry, withSubs); err != nil {
					logging.ErrorWithContext(entryLogger, "download failed", "download_failed",
						logging.String(logging.FieldErrorKind, services.Kind(err)),
						logging.String(logging.FieldErrorHint, "run yt-dlp by hand on the entry url"),
						logging.String("url", entry.URL),
						logging.Error(err),
					)
					continue
				}
				fetched++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %d of %d entries\n", fetched, len(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&subtitles, "subtitles", false, "Also download subtitles (converted to VTT)")
	return cmd
}

func downloadEntry(cmd *cobra.Command, cfg *config.Config, client downloader, logger *slog.Logger, entry catalog.Entry, withSubs bool) error {
	audioTarget := cfg.DataPath(entry.AudioFilename)
	if _, err := os.Stat(audioTarget); err == nil {
		logger.Info("audio already present", logging.String("path", audioTarget))
		return nil
	}

	scratch := filepath.Join(cfg.Paths.DataDir, downloadScratchDir, entry.Filename)
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return services.Wrap(services.ErrFilesystemWrite, "download", "create scratch dir", scratch, err)
	}
	defer os.RemoveAll(scratch)

	result, err := client.Download(cmd.Context(), ytdlp.Request{URL: entry.URL, Subtitles: withSubs, Dir: scratch})
	if err != nil {
		if errors.Is(err, ytdlp.ErrNoSubtitles) {
			return services.Wrap(services.ErrNotFound, "download", "subtitles", entry.URL, err)
		}
		return services.Wrap(services.ErrExternalTool, "download", "yt-dlp", entry.URL, err)
	}
	logging.LogMatchingKeys(logger, "download metadata", result.Info, "subtitle", "language")

	if err := fileutil.MoveFile(result.AudioPath, audioTarget); err != nil {
		return services.Wrap(services.ErrFilesystemWrite, "download", "move audio", audioTarget, err)
	}
	logger.Info("audio downloaded", logging.String("path", audioTarget))

	if !withSubs || len(result.SubtitlePaths) == 0 {
		return nil
	}
	source, lang, ok := result.Subtitle(entry.SubsLangCode)
	if !ok {
		return services.Wrap(services.ErrNotFound, "download", "subtitles",
			fmt.Sprintf("no %q subtitles among %v", entry.SubsLangCode, result.Languages), nil)
	}
	subsTarget := cfg.DataPath(entry.SubtitleFilename())
	if err := fileutil.MoveFile(source, subsTarget); err != nil {
		return services.Wrap(services.ErrFilesystemWrite, "download", "move subtitles", subsTarget, err)
	}
	logger.Info("subtitles downloaded",
		logging.String("path", subsTarget),
		logging.String("language", lang),
		logging.Int("available", len(result.SubtitlePaths)),
	)
	return nil
}
