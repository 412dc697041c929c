package workflow

import (
	"fmt"
	"os"
)

// IsolationStatus reports whether an entry still needs vocal isolation.
type IsolationStatus int

const (
	// NotStarted means no vocals file exists yet.
	NotStarted IsolationStatus = iota
	// Complete means the vocals file exists. The isolation stage installs it
	// by rename, so a present file is always a finished one.
	Complete
)

func (s IsolationStatus) String() string {
	switch s {
	case Complete:
		return "complete"
	default:
		return "not_started"
	}
}

// IsolationState inspects vocalsPath. A directory at that path is an error
// rather than a completed isolation.
func IsolationState(vocalsPath string) (IsolationStatus, error) {
	info, err := os.Stat(vocalsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return NotStarted, nil
		}
		return NotStarted, fmt.Errorf("stat vocals: %w", err)
	}
	if info.IsDir() {
		return NotStarted, fmt.Errorf("vocals path %s is a directory", vocalsPath)
	}
	return Complete, nil
}
