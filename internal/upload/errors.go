package upload

import "errors"

var (
	// ErrInvalidFilename is returned when the filename contains invalid
	// characters or fails security validation.
	ErrInvalidFilename = errors.New("invalid filename")

	// ErrTooLarge is returned when the file exceeds the configured size limit.
	ErrTooLarge = errors.New("file too large")

	// ErrTypeNotAllowed is returned when the filename extension is not in the
	// allowed set.
	ErrTypeNotAllowed = errors.New("file type not allowed")

	// ErrDirCreate is returned when the upload directory cannot be created.
	ErrDirCreate = errors.New("upload directory unavailable")

	// ErrWriteFile is returned when the file content cannot be written.
	ErrWriteFile = errors.New("write failed")
)

// ValidateFilename checks if the filename is safe to use as an on-disk name.
// Returns ErrInvalidFilename if validation fails.
//
// Validation rules:
//   - Must not be empty
//   - Must not exceed 255 characters
//   - Must not contain path separators (/, \)
//   - Must not contain null bytes
//   - Must not be "." or ".." (path traversal)
func ValidateFilename(name string) error {
	if name == "" {
		return ErrInvalidFilename
	}
	if len(name) > 255 {
		return ErrInvalidFilename
	}
	// Prevent path traversal
	for _, c := range name {
		if c == '/' || c == '\\' || c == '\x00' {
			return ErrInvalidFilename
		}
	}
	if name == "." || name == ".." {
		return ErrInvalidFilename
	}
	return nil
}
