package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// DevDir is the directory under the system temp dir that holds sandboxed
// histories of development runs.
const DevDir = "talktyper-dev"

// IsDevRun checks if the current process is running via `go run` or `go test`.
// It relies on the fact that these commands build binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	tempDir := os.TempDir()
	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(tempDir)) {
		return true
	}

	if strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe") {
		return true
	}

	return false
}

// ResolvePath determines the actual storage path based on safety rules.
// When forceTemp is set, the path is re-rooted into a temporary directory so
// a development run never writes the user's real history.
func ResolvePath(userPath string, forceTemp bool) string {
	if !forceTemp {
		if userPath == "" {
			return "."
		}
		return userPath
	}

	// Paths already inside the temp dir (t.TempDir()) are trusted as is.
	cleanUserPath := filepath.Clean(userPath)
	rel, err := filepath.Rel(os.TempDir(), cleanUserPath)
	if err == nil && !strings.HasPrefix(rel, "..") && filepath.IsAbs(cleanUserPath) {
		return cleanUserPath
	}

	subName := filepath.Base(cleanUserPath)
	if userPath == "" || subName == "." || subName == string(os.PathSeparator) {
		subName = "default"
	}

	return filepath.Join(os.TempDir(), DevDir, subName)
}
