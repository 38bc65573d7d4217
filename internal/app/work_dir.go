package app

import (
	"os"
	"path/filepath"
)

func ensureWorkDir(appRoot string) (string, error) {
	workDir := filepath.Join(appRoot, "work")
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", err
	}
	return workDir, nil
}

// tuiLogPath keeps the terminal viewer's log out of the alternate screen.
func tuiLogPath(appRoot string) (string, error) {
	workDir, err := ensureWorkDir(appRoot)
	if err != nil {
		return "", err
	}
	return filepath.Join(workDir, "drop_viewer.log"), nil
}
