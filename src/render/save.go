package render

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultOutputFile is written in the working directory unless overridden.
const DefaultOutputFile = "trajectory_plot.png"

// Save writes png to path, replacing any existing file. The bytes go to a temp file in the
// same directory first, so readers never observe a half-written image.
func Save(path string, png []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".trajplot-*.png")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename
	if _, err := tmp.Write(png); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
