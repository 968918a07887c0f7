package upload

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Store manages upload persistence on the local filesystem.
//
// Each upload is identified by its original filename. Saving a file whose
// name already exists replaces the previous content. The filesystem serializes
// concurrent writes to the same name at the OS level; no additional locking
// is performed.
type Store struct {
	dir     string
	maxSize int64
	allowed map[string]struct{}
	logger  *slog.Logger
}

// New creates a new Store instance.
//
// Parameters:
//   - dir: upload directory (created lazily on first save)
//   - maxSize: maximum accepted file size in bytes
//   - extensions: allowed filename suffixes, lowercase with leading dot
//   - logger: logger for debugging (nil = use default)
func New(dir string, maxSize int64, extensions []string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = struct{}{}
	}

	return &Store{
		dir:     dir,
		maxSize: maxSize,
		allowed: allowed,
		logger:  logger,
	}
}

// Dir returns the configured upload directory.
func (s *Store) Dir() string { return s.dir }

// Save validates and persists a single upload.
//
// Policy errors (check with errors.Is):
//   - ErrInvalidFilename: unsafe filename (traversal, NUL, over-long)
//   - ErrTooLarge: size exceeds the configured maximum
//   - ErrTypeNotAllowed: extension not in the allowed set
//
// Filesystem errors are wrapped with ErrDirCreate or ErrWriteFile. The upload
// directory is created if missing. An existing file with the same name is
// overwritten.
func (s *Store) Save(filename string, size int64, src io.Reader) (*File, error) {
	if err := ValidateFilename(filename); err != nil {
		return nil, err
	}

	if size > s.maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrTooLarge, size, s.maxSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := s.allowed[ext]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrTypeNotAllowed, ext)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirCreate, err)
	}

	path := filepath.Join(s.dir, filename)
	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteFile, err)
	}

	written, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// Remove the partial file so it never shows up in listings.
		_ = os.Remove(path)
		return nil, fmt.Errorf("%w: %v", ErrWriteFile, err)
	}

	s.logger.Debug("saved upload", "filename", filename, "size", written)

	return &File{Name: filename, Size: written, Path: path}, nil
}

// List enumerates non-directory entries in the upload directory.
//
// Returns an empty (never nil) slice for an empty directory. Unlike Save,
// List does not create the directory: a missing directory is an error.
func (s *Store) List() ([]File, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading upload directory %s: %w", s.dir, err)
	}

	files := make([]File, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// Entry disappeared between ReadDir and Info; skip it.
			continue
		}
		files = append(files, File{
			Name: e.Name(),
			Size: info.Size(),
			Path: filepath.Join(s.dir, e.Name()),
		})
	}

	return files, nil
}
