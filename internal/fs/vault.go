// Package fs prepares the vault: the per-user directory holding svist's
// config.yaml and log file.
package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// LogFileName is the session log inside the vault.
const LogFileName = "svist.log"

var ErrNotDir = errors.New("vault path is not a directory")

// EnsureVault creates the vault directory if needed and checks that it is
// a writable directory.
//
// Example:
//
//	if err := fs.EnsureVault(cfg.VaultPath); err != nil {
//	    return err
//	}
func EnsureVault(path string) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("failed to create vault directory: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("failed to check vault directory: %w", err)
	case !info.IsDir():
		return fmt.Errorf("%w: %s", ErrNotDir, path)
	case info.Mode().Perm()&0200 == 0:
		return fmt.Errorf("insufficient permissions to write to vault directory: %s", path)
	}
	return nil
}

// LogPath returns the log file location for vault.
func LogPath(vault string) string {
	return filepath.Join(vault, LogFileName)
}

// EnsureFile creates an empty file at path, and its parent directories,
// unless a regular file is already there.
func EnsureFile(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", path)
		}
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error checking file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create parent directories: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	return f.Close()
}
