package utils

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/geocine/canvasdocs/internal/models"
)

// WriteFile writes content to a file, creating parent directories if needed.
// Existing files are overwritten.
func WriteFile(path string, content []byte) error {
	if parent := filepath.Dir(path); parent != "." {
		if err := CreateDirAll(parent); err != nil {
			return err
		}
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return &models.FilesystemError{Op: "write", Path: path, Err: err}
	}

	return nil
}

// WriteStream writes whatever fill produces to path. Data goes to a temporary
// sibling first so an interrupted download never leaves a partial file at path.
func WriteStream(path string, fill func(w io.Writer) error) error {
	if err := CreateDirAll(filepath.Dir(path)); err != nil {
		return err
	}

	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return &models.FilesystemError{Op: "create", Path: tmp, Err: err}
	}

	if err := fill(fileWriter{f}); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return &models.FilesystemError{Op: "close", Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		return &models.FilesystemError{Op: "rename", Path: tmp, Err: err}
	}
	return nil
}

// fileWriter reports failed writes as filesystem errors so callers can tell
// a full disk from a failed download
type fileWriter struct {
	f *os.File
}

func (w fileWriter) Write(p []byte) (int, error) {
	n, err := w.f.Write(p)
	if err != nil {
		return n, &models.FilesystemError{Op: "write", Path: w.f.Name(), Err: err}
	}
	return n, nil
}

// CreateDirAll creates a directory with better error messages
func CreateDirAll(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return &models.FilesystemError{Op: "create directory", Path: path, Err: err}
	}
	return nil
}

// DirExists checks if a directory exists
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// PathToRoot calculates relative path from the given path back to root
// E.g., "some/relative/path" -> "../../"
func PathToRoot(path string) string {
	dir := filepath.Dir(filepath.FromSlash(path))
	if dir == "." {
		return ""
	}

	depth := 0
	for dir != "." && dir != "" && dir != string(filepath.Separator) {
		depth++
		dir = filepath.Dir(dir)
	}

	return strings.Repeat("../", depth)
}

// RemoveDirContents removes all contents of a directory but not the directory itself
func RemoveDirContents(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return &models.FilesystemError{Op: "read directory", Path: dir, Err: err}
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return &models.FilesystemError{Op: "remove", Path: path, Err: err}
		}
	}

	return nil
}
