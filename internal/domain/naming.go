package domain

import (
	"fmt"
	"path/filepath"
)

// ItemLogPath returns the path to the log file of a single item.
func ItemLogPath(dataDir string, itemID int) string {
	return filepath.Join(dataDir, "logs", fmt.Sprintf("item-%d.log", itemID))
}

// GlobalLogPath returns the path to the global log file.
func GlobalLogPath(dataDir string) string {
	return filepath.Join(dataDir, "logs", "schedule.log")
}

// BoardRef returns the git reference name holding the board snapshot.
func BoardRef(namespace string) string {
	return "refs/" + namespace + "/board"
}
