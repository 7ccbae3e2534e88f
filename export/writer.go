package export

import (
	"archive/zip"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// Writer stores the files of a static tile set.
type Writer interface {
	Write(name string, body []byte) error
	Close() error
}

// DirWriter writes the files below a root directory.
type DirWriter struct {
	Root string
}

// Write creates name and its parent directories.
func (d *DirWriter) Write(name string, body []byte) error {
	filename := filepath.Join(d.Root, filepath.FromSlash(path.Clean("/"+name)))
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filename, body, 0o644)
}

// Close does nothing.
func (d *DirWriter) Close() error {
	return nil
}

// ZipWriter writes the files into a zip archive. JPEG tiles are stored as is,
// everything else is deflated.
type ZipWriter struct {
	mu  sync.Mutex
	zip *zip.Writer
}

// NewZipWriter starts an archive on w.
func NewZipWriter(w io.Writer) *ZipWriter {
	return &ZipWriter{zip: zip.NewWriter(w)}
}

// Write appends one file to the archive.
func (z *ZipWriter) Write(name string, body []byte) error {
	header := &zip.FileHeader{
		Name:   strings.TrimPrefix(path.Clean("/"+name), "/"),
		Method: zip.Deflate,
	}
	if strings.HasSuffix(name, ".jpg") {
		header.Method = zip.Store
	}

	z.mu.Lock()
	defer z.mu.Unlock()

	f, err := z.zip.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = f.Write(body)
	return err
}

// Close writes the central directory. It does not close the underlying
// writer.
func (z *ZipWriter) Close() error {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.zip.Close()
}
