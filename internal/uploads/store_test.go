package uploads

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

var testNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func newTestStore(t *testing.T, maxBytes int64) (*Store, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewStore(dir, "/uploads", maxBytes, clockwork.NewFakeClockAt(testNow))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store, dir
}

func TestSaveNamesFilesByTimestamp(t *testing.T) {
	store, dir := newTestStore(t, 1024*1024)
	data := pngBytes(t)

	first, err := store.Save(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	want := "/uploads/1772357400000.png"
	if first != want {
		t.Fatalf("expected %s, got %s", want, first)
	}
	stored, err := os.ReadFile(filepath.Join(dir, "1772357400000.png"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if !bytes.Equal(stored, data) {
		t.Fatalf("stored bytes differ")
	}

	second, err := store.Save(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("save second: %v", err)
	}
	if second != "/uploads/1772357400001.png" {
		t.Fatalf("expected next millisecond name, got %s", second)
	}
}

func TestSaveRejectsUnsupportedTypes(t *testing.T) {
	store, _ := newTestStore(t, 1024)

	tests := []struct {
		name string
		data []byte
	}{
		{"text", []byte("hello, this is not an image")},
		{"pdf", []byte("%PDF-1.4\n%...")},
		{"empty", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Save(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrUnsupportedType) {
				t.Fatalf("expected ErrUnsupportedType, got %v", err)
			}
		})
	}
}

func TestSaveRejectsLargeFiles(t *testing.T) {
	data := pngBytes(t)
	store, dir := newTestStore(t, int64(len(data)-1))

	if _, err := store.Save(bytes.NewReader(data)); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected nothing written, found %d files", len(entries))
	}
}

func TestTooLargeMessage(t *testing.T) {
	store, _ := newTestStore(t, 5*1024*1024)
	if got := store.TooLargeMessage(); got != "File size must be less than 5MB" {
		t.Fatalf("unexpected message: %s", got)
	}
}
