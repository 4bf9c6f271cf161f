package imagestore

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/disintegration/imaging"
)

var filenamePattern = regexp.MustCompile(`^[a-f0-9]{16}\.[a-z]+$`)

func encodeTestPNG(t *testing.T, width, height int) *bytes.Buffer {
	t.Helper()

	img := imaging.New(width, height, color.NRGBA{R: 0x80, A: 0xff})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return &buf
}

func TestStore_Save_ResizesLargeImages(t *testing.T) {
	store := New(t.TempDir())
	if err := store.EnsureDefaults(); err != nil {
		t.Fatalf("EnsureDefaults: %v", err)
	}

	filename, err := store.Save(encodeTestPNG(t, 700, 350), "photo.png", KindRestaurant)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if !filenamePattern.MatchString(filename) {
		t.Errorf("expected random hex filename, got %q", filename)
	}
	if filepath.Ext(filename) != ".png" {
		t.Errorf("expected original extension preserved, got %q", filename)
	}

	saved, err := imaging.Open(store.Path(KindRestaurant, filename))
	if err != nil {
		t.Fatalf("open saved image: %v", err)
	}

	bounds := saved.Bounds()
	if bounds.Dx() != 350 || bounds.Dy() != 175 {
		t.Errorf("expected 350x175 after fit, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestStore_Save_KeepsSmallImages(t *testing.T) {
	store := New(t.TempDir())
	if err := store.EnsureDefaults(); err != nil {
		t.Fatalf("EnsureDefaults: %v", err)
	}

	filename, err := store.Save(encodeTestPNG(t, 100, 80), "small.png", KindItem)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	saved, err := imaging.Open(store.Path(KindItem, filename))
	if err != nil {
		t.Fatalf("open saved image: %v", err)
	}

	bounds := saved.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 80 {
		t.Errorf("expected small image untouched, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestStore_Save_RejectsUnsupportedExtension(t *testing.T) {
	store := New(t.TempDir())

	if _, err := store.Save(encodeTestPNG(t, 10, 10), "evil.svg", KindProfile); err != ErrUnsupportedFormat {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestStore_Save_UniqueFilenames(t *testing.T) {
	store := New(t.TempDir())
	if err := store.EnsureDefaults(); err != nil {
		t.Fatalf("EnsureDefaults: %v", err)
	}

	first, err := store.Save(encodeTestPNG(t, 10, 10), "a.png", KindProfile)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, err := store.Save(encodeTestPNG(t, 10, 10), "a.png", KindProfile)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if first == second {
		t.Errorf("expected distinct filenames, both were %q", first)
	}
}

func TestStore_Remove(t *testing.T) {
	store := New(t.TempDir())
	if err := store.EnsureDefaults(); err != nil {
		t.Fatalf("EnsureDefaults: %v", err)
	}

	filename, err := store.Save(encodeTestPNG(t, 10, 10), "a.png", KindProfile)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.Remove(KindProfile, filename); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(store.Path(KindProfile, filename)); !os.IsNotExist(err) {
		t.Error("expected image to be deleted")
	}

	// Removing an absent file is a no-op
	if err := store.Remove(KindProfile, filename); err != nil {
		t.Errorf("expected nil for missing file, got %v", err)
	}

	// The placeholder is never deleted
	if err := store.Remove(KindProfile, KindProfile.Placeholder()); err != nil {
		t.Fatalf("Remove placeholder: %v", err)
	}
	if _, err := os.Stat(store.Path(KindProfile, KindProfile.Placeholder())); err != nil {
		t.Error("placeholder must survive Remove")
	}
}

func TestStore_EnsureDefaults(t *testing.T) {
	store := New(t.TempDir())
	if err := store.EnsureDefaults(); err != nil {
		t.Fatalf("EnsureDefaults: %v", err)
	}

	for _, kind := range []Kind{KindProfile, KindRestaurant, KindItem} {
		path := store.Path(kind, kind.Placeholder())
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected placeholder for %s at %s: %v", kind, path, err)
		}
	}

	// Idempotent
	if err := store.EnsureDefaults(); err != nil {
		t.Fatalf("EnsureDefaults second run: %v", err)
	}
}
