package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"teasers/internal/config"
	"teasers/internal/deps"
)

// MinFreeBytes is the free-space threshold below which the segments
// filesystem is reported as low.
const MinFreeBytes = 1 << 30

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace reports whether the filesystem holding path has at least
// minBytes available to unprivileged users.
func CheckFreeSpace(name, path string, minBytes uint64) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	detail := fmt.Sprintf("%s (%s free)", path, formatBytes(free))
	if free < minBytes {
		return Result{Name: name, Detail: detail + " below " + formatBytes(minBytes)}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckSystemDeps evaluates the external executables for the given config.
// withDownload adds yt-dlp and ffmpeg as hard requirements; otherwise they
// are reported as optional.
func CheckSystemDeps(cfg *config.Config, withDownload bool) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "audio-separator",
			Command:     cfg.Separator.Binary,
			Description: "Required for vocal isolation",
		},
		{
			Name:        "yt-dlp",
			Command:     cfg.Download.Binary,
			Description: "Required by the download command",
			Optional:    !withDownload,
		},
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Used by yt-dlp to extract WAV audio and convert subtitles",
			Optional:    !withDownload,
		},
	}
	return deps.CheckBinaries(requirements)
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
