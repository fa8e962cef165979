// Package logutil routes the standard logger to stderr or a size-rotated file.
package logutil

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const (
	maxSizeBytes = 10 * 1024 * 1024 // 10 MB
	maxArchives  = 3
)

// Setup points the standard logger at path, rotating it at 10 MB and
// keeping three archives (path.1 newest). An empty path logs to stderr.
// The returned closer releases the file.
func Setup(path string) (io.Closer, error) {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if path == "" {
		log.SetOutput(os.Stderr)
		return io.NopCloser(nil), nil
	}
	w, err := Open(path, maxSizeBytes, maxArchives)
	if err != nil {
		return nil, err
	}
	log.SetOutput(w)
	return w, nil
}

// RotatingWriter appends to a file and rotates it once a write would take
// it past MaxSize.
type RotatingWriter struct {
	mu       sync.Mutex
	path     string
	maxSize  int64
	archives int
	f        *os.File
}

// Open creates the directory for path and opens it for appending, rotating
// first if the existing file is already over maxSize.
func Open(path string, maxSize int64, archives int) (*RotatingWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	w := &RotatingWriter{path: path, maxSize: maxSize, archives: archives}
	if st, err := os.Stat(path); err == nil && st.Size() > maxSize {
		w.rotate()
	}
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *RotatingWriter) open() error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	w.f = f
	return nil
}

func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return 0, os.ErrClosed
	}
	if st, err := w.f.Stat(); err == nil && st.Size() > 0 && st.Size()+int64(len(p)) > w.maxSize {
		_ = w.f.Close()
		w.rotate()
		if err := w.open(); err != nil {
			w.f = nil
			return 0, err
		}
	}
	return w.f.Write(p)
}

// Close closes the current file.
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}

// rotate shifts path.N to path.N+1, dropping the oldest, and moves path to path.1.
func (w *RotatingWriter) rotate() {
	_ = os.Remove(w.archiveName(w.archives))
	for i := w.archives - 1; i >= 1; i-- {
		_ = os.Rename(w.archiveName(i), w.archiveName(i+1))
	}
	_ = os.Rename(w.path, w.archiveName(1))
}

func (w *RotatingWriter) archiveName(n int) string {
	return fmt.Sprintf("%s.%d", w.path, n)
}
