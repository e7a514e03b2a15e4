// Package upload stores client-submitted files under collision-free generated
// names. Each write goes directly to its final path, so a crash never leaves a
// half-renamed temp file behind.
package upload

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"path"
	"path/filepath"
	"time"
)

var (
	// ErrTooLarge is returned when an upload exceeds the configured size cap.
	ErrTooLarge = errors.New("file exceeds maximum upload size")
)

// randRange bounds the random filename component. Combined with the
// millisecond timestamp it makes concurrent same-millisecond uploads target
// distinct paths without any locking.
var randRange = big.NewInt(1_000_000_000)

// Store writes uploaded files to a directory with a per-file size cap.
type Store struct {
	dir      string
	maxBytes int64
}

// NewStore creates the upload directory if needed and returns a Store.
func NewStore(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

// Dir returns the directory files are stored under.
func (s *Store) Dir() string {
	return s.dir
}

// Save streams src to a freshly generated filename and returns that name.
// Only the extension of originalName is used; the client-supplied name never
// becomes part of the stored path. Oversize uploads return ErrTooLarge and
// leave nothing on disk.
func (s *Store) Save(src io.Reader, originalName string) (string, error) {
	name, f, err := s.create(originalName)
	if err != nil {
		return "", err
	}

	// Read one byte past the cap so an at-limit file still succeeds.
	n, err := io.Copy(f, io.LimitReader(src, s.maxBytes+1))
	if err == nil && n > s.maxBytes {
		err = ErrTooLarge
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		os.Remove(filepath.Join(s.dir, name))
		return "", err
	}

	return name, nil
}

// create opens a new file under a generated name, retrying on the off chance
// the name already exists.
func (s *Store) create(originalName string) (string, *os.File, error) {
	for {
		name, err := generateName(originalName)
		if err != nil {
			return "", nil, err
		}

		f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			if errors.Is(err, os.ErrExist) {
				continue
			}
			return "", nil, fmt.Errorf("creating upload file: %w", err)
		}
		return name, f, nil
	}
}

// generateName builds "<unix-millis>-<random>[.ext]" from the original name.
func generateName(originalName string) (string, error) {
	n, err := rand.Int(rand.Reader, randRange)
	if err != nil {
		return "", err
	}
	ext := filepath.Ext(filepath.Base(originalName))
	return fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), n, ext), nil
}

// PublicPath maps a stored filename to the path it is served under. This is
// the value persisted on posts, never a filesystem-absolute path.
func PublicPath(name string) string {
	return path.Join("/uploads", name)
}
