// Package upload implements the document intake store for the StackGuide
// backend.
//
// Accepted files are written under a configured directory using the original
// filename as the storage key; the directory listing is the single source of
// truth for what has been uploaded. There is no metadata database and no
// versioning: uploading a file with an existing name overwrites it (last
// writer wins).
package upload

// File describes one stored upload.
//
// Zero values:
//   - Name: "" (invalid, required)
//   - Size: 0 (empty file, allowed)
//   - Path: "" (set by the store on save)
type File struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Path string `json:"-"`
}
