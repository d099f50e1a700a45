package upload

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/gif"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/codr1/Clubhouse/internal/uploads"
)

func setupUpload(t *testing.T, maxBytes int64) {
	t.Helper()
	s, err := uploads.NewStore(filepath.Join(t.TempDir(), "uploads"), "/uploads", maxBytes,
		clockwork.NewFakeClockAt(time.UnixMilli(1700000000000)))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	InitHandlers(s)
	t.Cleanup(func() {
		store = nil
		storeOnce = sync.Once{}
	})
}

func gifBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := gif.Encode(&buf, image.NewPaletted(image.Rect(0, 0, 1, 1), color.Palette{color.Black, color.White}), nil); err != nil {
		t.Fatalf("encode gif: %v", err)
	}
	return buf.Bytes()
}

func multipartRequest(t *testing.T, filename string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadReturnsImageURL(t *testing.T) {
	setupUpload(t, 1024*1024)

	recorder := httptest.NewRecorder()
	HandleUpload(recorder, multipartRequest(t, "crest.gif", gifBytes(t), nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var resp uploadResponse
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ImageURL != "/uploads/1700000000000.gif" {
		t.Fatalf("unexpected url: %s", resp.ImageURL)
	}
}

func TestUploadErrors(t *testing.T) {
	setupUpload(t, 64)

	tests := []struct {
		name     string
		filename string
		data     []byte
		want     string
	}{
		{"missing file", "", nil, "No file uploaded"},
		{"wrong type", "notes.png", []byte("just text"), "Invalid file type. Only JPEG, PNG, and GIF are allowed."},
		{"too large", "big.gif", bytes.Repeat([]byte("G"), 65), "File size must be less than"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			HandleUpload(recorder, multipartRequest(t, tt.filename, tt.data, nil))
			if recorder.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", recorder.Code)
			}
			if !strings.Contains(recorder.Body.String(), tt.want) {
				t.Fatalf("expected %q in %s", tt.want, recorder.Body.String())
			}
		})
	}
}

func TestUploadHTMXReturnsImageInput(t *testing.T) {
	setupUpload(t, 1024*1024)

	req := multipartRequest(t, "crest.gif", gifBytes(t), map[string]string{"field": "img", "label": "Cover image"})
	req.Header.Set("HX-Request", "true")
	recorder := httptest.NewRecorder()
	HandleUpload(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	body := recorder.Body.String()
	if !strings.Contains(body, `id="image-img"`) || !strings.Contains(body, `value="/uploads/1700000000000.gif"`) {
		t.Fatalf("unexpected fragment: %s", body)
	}

	req = multipartRequest(t, "crest.gif", gifBytes(t), map[string]string{"field": `"><script>`})
	req.Header.Set("HX-Request", "true")
	recorder = httptest.NewRecorder()
	HandleUpload(recorder, req)
	if !strings.Contains(recorder.Body.String(), `name="imageUrl"`) {
		t.Fatalf("expected default field name, got %s", recorder.Body.String())
	}
}
