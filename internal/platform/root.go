package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirName is the data directory looked up by FindRoot and created by default.
const DirName = ".notelin"

// FindRoot recursively looks upwards for a directory containing DirName and
// returns the absolute path of that data directory.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasDir(dir, DirName) {
			return filepath.Join(dir, DirName), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

// DefaultDataDir returns the nearest DirName above the working directory, or
// DirName in the user's home directory when there is none.
func DefaultDataDir() string {
	if wd, err := os.Getwd(); err == nil {
		if root, err := FindRoot(wd); err == nil {
			return root
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DirName
	}
	return filepath.Join(home, DirName)
}

func hasDir(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && info.IsDir()
}
