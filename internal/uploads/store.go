// Package uploads stores admin-uploaded images on local disk.
package uploads

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/jonboulle/clockwork"
)

const sniffLen = 512

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("file too large")
)

// Extensions by detected content type.
var allowedTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
}

type Store struct {
	dir      string
	prefix   string
	maxBytes int64
	clock    clockwork.Clock
}

// NewStore creates dir if needed. Files are served under prefix.
func NewStore(dir, prefix string, maxBytes int64, clock clockwork.Clock) (*Store, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, prefix: prefix, maxBytes: maxBytes, clock: clock}, nil
}

func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// TooLargeMessage is the user-facing size error.
func (s *Store) TooLargeMessage() string {
	switch {
	case s.maxBytes >= 1<<20:
		return fmt.Sprintf("File size must be less than %dMB", s.maxBytes>>20)
	case s.maxBytes >= 1<<10:
		return fmt.Sprintf("File size must be less than %dKB", s.maxBytes>>10)
	}
	return fmt.Sprintf("File size must be less than %d bytes", s.maxBytes)
}

// Save validates and writes an image, returning its public URL. The type is
// detected from the content, not the client's header or filename. Files are
// named <unix millis>.<ext>; a taken name moves to the next millisecond.
func (s *Store) Save(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrTooLarge
	}

	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	ext, ok := allowedTypes[http.DetectContentType(head)]
	if !ok {
		return "", ErrUnsupportedType
	}

	stamp := s.clock.Now().UnixMilli()
	for attempt := 0; attempt < 1000; attempt++ {
		name := strconv.FormatInt(stamp+int64(attempt), 10) + "." + ext
		f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			if errors.Is(err, os.ErrExist) {
				continue
			}
			return "", fmt.Errorf("create upload: %w", err)
		}
		if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
			f.Close()
			os.Remove(f.Name())
			return "", fmt.Errorf("write upload: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close upload: %w", err)
		}
		return path.Join(s.prefix, name), nil
	}
	return "", fmt.Errorf("no free upload name near %d", stamp)
}
