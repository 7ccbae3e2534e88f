package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Disk reads images below a root directory.
type Disk struct {
	Root string
}

// NewDisk returns a source reading from root.
func NewDisk(root string) *Disk {
	return &Disk{Root: root}
}

// Read returns the content of root/identifier.
func (d *Disk) Read(identifier string) ([]byte, time.Time, error) {
	filename := filepath.Join(d.Root, filepath.Clean("/"+identifier))

	stat, err := os.Stat(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, time.Time{}, fmt.Errorf("%w: %#v", ErrNotFound, identifier)
		}
		return nil, time.Time{}, err
	}
	if stat.IsDir() {
		return nil, time.Time{}, fmt.Errorf("%w: %#v is a directory", ErrNotFound, identifier)
	}

	body, err := os.ReadFile(filename)
	if err != nil {
		return nil, time.Time{}, err
	}
	return body, stat.ModTime(), nil
}
