package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tableside/tableside/internal/imagestore"
)

// saveUpload stores the optional image from the multipart field "picture".
// It returns the stored filename, or "" when no file was submitted. An
// unsupported format is reported as a field error message rather than an
// internal error.
func saveUpload(r *http.Request, images *imagestore.Store, kind imagestore.Kind, maxSize int64) (filename, fieldError string, err error) {
	if err := r.ParseMultipartForm(maxSize); err != nil {
		// Non-multipart submissions carry no picture at all.
		if errors.Is(err, http.ErrNotMultipart) {
			if err := r.ParseForm(); err != nil {
				return "", "", fmt.Errorf("parse form: %w", err)
			}
			return "", "", nil
		}
		return "", "The file could not be uploaded, it may be too large", nil
	}

	file, header, err := r.FormFile("picture")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", "", nil
		}
		return "", "", fmt.Errorf("read upload: %w", err)
	}
	defer file.Close()

	name, err := images.Save(file, header.Filename, kind)
	if err != nil {
		if errors.Is(err, imagestore.ErrUnsupportedFormat) {
			return "", "Only jpg, jpeg, png and gif images are allowed", nil
		}
		return "", "", fmt.Errorf("save upload: %w", err)
	}

	return name, "", nil
}

// discardUpload removes an image that was stored for a submission which was
// then rejected, so re-rendered forms leave no orphaned files behind.
// Removal failures are swallowed like other cleanup of already-written files.
func discardUpload(images *imagestore.Store, kind imagestore.Kind, filename string) {
	if filename == "" {
		return
	}
	_ = images.Remove(kind, filename)
}
