package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// ProjectDir marks a directory whose notes live next to it, the way a
// .git directory marks a repository.
const ProjectDir = ".talktyper"

// FindRoot looks upwards from startDir for a directory containing ProjectDir
// and returns its absolute path.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasDir(dir, ProjectDir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no %s directory above %s", ProjectDir, abs)
}

// DefaultPath is where notes live when no path is configured: the nearest
// project directory, else the user config directory, else ./.talktyper.
func DefaultPath() string {
	if wd, err := os.Getwd(); err == nil {
		if root, err := FindRoot(wd); err == nil {
			return filepath.Join(root, ProjectDir)
		}
	}
	if cfg, err := os.UserConfigDir(); err == nil {
		return filepath.Join(cfg, "talktyper")
	}
	return ProjectDir
}

func hasDir(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && info.IsDir()
}
