package stage

import (
	"errors"
	"io/fs"
	"os"

	"teasers/internal/services"
)

// RequireFile returns services.ErrEntryIO unless path names a regular file.
func RequireFile(stageName, label, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return services.Wrap(services.ErrEntryIO, stageName, "locate "+label, path+" does not exist", err)
		}
		return services.Wrap(services.ErrEntryIO, stageName, "stat "+label, path, err)
	}
	if info.IsDir() {
		return services.Wrap(services.ErrEntryIO, stageName, "locate "+label, path+" is a directory", nil)
	}
	return nil
}
