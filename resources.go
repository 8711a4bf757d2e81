package hailoinfra

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// DefaultResourcePath is where models and media live unless overridden.
const DefaultResourcePath = "/usr/local/hailo/resources"

// standardResourceDirs is the canonical layout under the resource root.
var standardResourceDirs = []string{
	"models/hailo8",
	"models/hailo8l",
	"models/hailo10",
	"videos",
	"photos",
	"gifs",
}

// CreateStandardResourceDirs creates the default folder layout under base.
// Existing directories are left alone; the call is idempotent.
func CreateStandardResourceDirs(fsys afero.Fs, base string) error {
	for _, sub := range standardResourceDirs {
		dir := filepath.Join(base, sub)
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("hailoinfra: create resource dir %s: %w", dir, err)
		}
	}
	return nil
}

// ModelsDir returns the model directory for an accelerator variant.
func ModelsDir(base string, arch HailoArch) string {
	return filepath.Join(base, "models", arch.String())
}

// VideosDir returns the sample-video directory under base.
func VideosDir(base string) string {
	return filepath.Join(base, "videos")
}
