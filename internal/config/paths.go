package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains the resolved file system locations used by the application
type Paths struct {
	BaseDir   string
	DataFile  string
	ExportDir string
	LogFile   string
}

// ResolvePaths resolves the configured paths against baseDir.
// Absolute paths are kept as they are. An empty baseDir means the working directory.
func (c *Config) ResolvePaths(baseDir string) (*Paths, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}

	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	return &Paths{
		BaseDir:   baseDir,
		DataFile:  resolve(c.Dataset.File),
		ExportDir: resolve(c.Export.Dir),
		LogFile:   resolve(c.Logging.FilePath),
	}, nil
}

// EnsureDirectories creates the export and log directories
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.ExportDir}
	if p.LogFile != "" {
		dirs = append(dirs, filepath.Dir(p.LogFile))
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists reports whether path exists and is a regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
