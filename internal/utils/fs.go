package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// FileExists simply checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates directory if it doesn't exist
func EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, 0755)
}

// ResetDir recursively removes dirPath if present and recreates it empty.
// Used before every index build so no stale bucket survives.
func ResetDir(dirPath string) error {
	if dirPath == "" || filepath.Clean(dirPath) == "/" {
		return fmt.Errorf("refusing to reset %q", dirPath)
	}
	if err := os.RemoveAll(dirPath); err != nil {
		return fmt.Errorf("failed to remove %s: %w", dirPath, err)
	}
	if err := EnsureDir(dirPath); err != nil {
		return fmt.Errorf("failed to create %s: %w", dirPath, err)
	}
	log.Debugf("Reset directory %s", dirPath)
	return nil
}

// DirSize returns the total size in bytes of regular files under dirPath.
func DirSize(dirPath string) (int64, error) {
	var total int64
	err := filepath.WalkDir(dirPath, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			total += info.Size()
		}
		return nil
	})
	return total, err
}

// SaveTOMLFile saves a struct to a TOML file
func SaveTOMLFile(data interface{}, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		log.Errorf("Failed to create file: %v", err)
		return err
	}
	defer file.Close()
	encoder := toml.NewEncoder(file)
	return encoder.Encode(data)
}

// GetAbsolutePath returns the absolute path of a file
func GetAbsolutePath(path string) string {
	if path == "" {
		return "unknown"
	}

	if !filepath.IsAbs(path) {
		if absPath, err := filepath.Abs(path); err == nil {
			return absPath
		}
	}
	return path
}
