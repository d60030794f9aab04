package persist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Dir names output files as <prefix><n>.<ext> inside Path, picking the first n
// that does not exist yet.
type Dir struct {
	Path   string
	Prefix string
}

// Next returns the first unused file name for ext.
func (d Dir) Next(ext string) (string, error) {
	prefix := d.Prefix
	if prefix == "" {
		prefix = "grid"
	}
	for n := 0; ; n++ {
		name := filepath.Join(d.Path, fmt.Sprintf("%s%d.%s", prefix, n, ext))
		_, err := os.Stat(name)
		if errors.Is(err, fs.ErrNotExist) {
			return name, nil
		}
		if err != nil {
			return "", err
		}
	}
}

// Create makes the directory if needed and opens the next unused file for ext.
func (d Dir) Create(ext string) (*os.File, error) {
	if d.Path != "" {
		if err := os.MkdirAll(d.Path, 0o755); err != nil {
			return nil, err
		}
	}
	name, err := d.Next(ext)
	if err != nil {
		return nil, err
	}
	return os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
}
