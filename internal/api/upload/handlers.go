// internal/api/upload/handlers.go
package upload

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Clubhouse/internal/api/apiutil"
	"github.com/codr1/Clubhouse/internal/api/htmx"
	"github.com/codr1/Clubhouse/internal/templates/components/shared"
	"github.com/codr1/Clubhouse/internal/uploads"
)

const (
	multipartOverhead = 1 << 20
	defaultField      = "imageUrl"
	defaultLabel      = "Image"
)

var (
	store     *uploads.Store
	storeOnce sync.Once

	fieldName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.-]{0,63}$`)
)

type uploadResponse struct {
	ImageURL string `json:"imageUrl"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(s *uploads.Store) {
	if s == nil {
		return
	}
	storeOnce.Do(func() {
		store = s
	})
}

// POST /api/upload
//
// Expects a multipart "file". htmx requests get the refreshed image input
// back, named by the "field" and "label" form values.
func HandleUpload(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if store == nil {
		logger.Error().Msg("Upload store not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "uploads not initialized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, store.MaxBytes()+multipartOverhead)
	if err := r.ParseMultipartForm(store.MaxBytes()); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			uploadFailed(w, r, http.StatusBadRequest, store.TooLargeMessage())
			return
		}
		uploadFailed(w, r, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		uploadFailed(w, r, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if header.Size > store.MaxBytes() {
		uploadFailed(w, r, http.StatusBadRequest, store.TooLargeMessage())
		return
	}

	imageURL, err := store.Save(file)
	switch {
	case errors.Is(err, uploads.ErrUnsupportedType):
		uploadFailed(w, r, http.StatusBadRequest, "Invalid file type. Only JPEG, PNG, and GIF are allowed.")
		return
	case errors.Is(err, uploads.ErrTooLarge):
		uploadFailed(w, r, http.StatusBadRequest, store.TooLargeMessage())
		return
	case err != nil:
		logger.Error().Err(err).Str("filename", header.Filename).Msg("Failed to store upload")
		uploadFailed(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info().Str("image_url", imageURL).Int64("size", header.Size).Msg("Image uploaded")

	if htmx.IsRequest(r) {
		field, label := fragmentNames(r)
		apiutil.RenderHTMLComponent(r.Context(), w, shared.ImageInput(field, label, imageURL), nil, "Failed to render image input", "Failed to render image input")
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, uploadResponse{ImageURL: imageURL})
}

func fragmentNames(r *http.Request) (string, string) {
	field := strings.TrimSpace(r.FormValue("field"))
	if !fieldName.MatchString(field) {
		field = defaultField
	}
	label := strings.TrimSpace(r.FormValue("label"))
	if label == "" {
		label = defaultLabel
	}
	return field, label
}

// htmx only swaps 2xx responses, so errors go out as a toast trigger too.
func uploadFailed(w http.ResponseWriter, r *http.Request, status int, message string) {
	if htmx.IsRequest(r) {
		htmx.Trigger(w, "upload-failed")
	}
	apiutil.WriteError(w, status, message)
}
