// Package imagestore persists uploaded images under type-specific folders.
// Uploads get a collision-resistant filename and are resized so their
// longest dimension fits within a fixed bound, preserving aspect ratio.
package imagestore

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/tableside/tableside/internal/model"
)

// maxBound is the longest allowed dimension of a stored image.
const maxBound = 350

// Kind selects the target folder for an upload.
type Kind string

const (
	KindProfile    Kind = "profile"
	KindRestaurant Kind = "restaurant_image"
	KindItem       Kind = "item"
)

// Placeholder returns the default filename for this kind. Placeholders
// always resolve and are never deleted.
func (k Kind) Placeholder() string {
	switch k {
	case KindProfile:
		return model.DefaultUserImage
	case KindRestaurant:
		return model.DefaultRestaurantImage
	case KindItem:
		return model.DefaultMenuItemImage
	}
	return ""
}

// ErrUnsupportedFormat is returned for uploads with a disallowed extension.
var ErrUnsupportedFormat = errors.New("unsupported image format")

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// Store writes uploaded images under a root directory.
type Store struct {
	root string
}

// New creates a Store rooted at dir.
func New(dir string) *Store {
	return &Store{root: dir}
}

// EnsureDefaults creates the kind folders and generates the placeholder
// images if they are absent, so the defaults always resolve.
func (s *Store) EnsureDefaults() error {
	for _, kind := range []Kind{KindProfile, KindRestaurant, KindItem} {
		dir := filepath.Join(s.root, string(kind))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s folder: %w", kind, err)
		}

		path := filepath.Join(dir, kind.Placeholder())
		if _, err := os.Stat(path); err == nil {
			continue
		}

		placeholder := imaging.New(maxBound, maxBound, color.NRGBA{R: 0xe9, G: 0xec, B: 0xef, A: 0xff})
		if err := imaging.Save(placeholder, path); err != nil {
			return fmt.Errorf("write %s placeholder: %w", kind, err)
		}
	}
	return nil
}

// Save resizes an uploaded image to fit within the bound and writes it
// under the kind's folder. Returns the generated filename: a random hex
// segment with the upload's original extension.
func (s *Store) Save(upload io.Reader, originalName string, kind Kind) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedFormat
	}

	img, err := imaging.Decode(upload, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	// Fit never upscales; smaller images pass through untouched.
	img = imaging.Fit(img, maxBound, maxBound, imaging.Lanczos)

	segment := make([]byte, 8)
	if _, err := rand.Read(segment); err != nil {
		return "", fmt.Errorf("generate filename: %w", err)
	}
	filename := hex.EncodeToString(segment) + ext

	if err := imaging.Save(img, filepath.Join(s.root, string(kind), filename)); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}

	return filename, nil
}

// Remove deletes a previously stored image. Removing the placeholder or an
// already-missing file is a no-op, not an error.
func (s *Store) Remove(kind Kind, filename string) error {
	if filename == "" || filename == kind.Placeholder() {
		return nil
	}

	err := os.Remove(filepath.Join(s.root, string(kind), filename))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

// Path returns the filesystem path of a stored image.
func (s *Store) Path(kind Kind, filename string) string {
	return filepath.Join(s.root, string(kind), filename)
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}
