// internal/api/contact/handlers.go
package contact

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Clubhouse/internal/api/apiutil"
	"github.com/codr1/Clubhouse/internal/config"
	"github.com/codr1/Clubhouse/internal/email"
	"github.com/codr1/Clubhouse/internal/models"
	"github.com/codr1/Clubhouse/internal/ratelimit"
	contacttempl "github.com/codr1/Clubhouse/internal/templates/components/contact"
)

const sentMessage = "Thanks for getting in touch. We'll reply soon."

var (
	appConfig *config.Config
	sender    email.EmailSender
	limiter   *ratelimit.Limiter
	clock     clockwork.Clock = clockwork.NewRealClock()
	initOnce  sync.Once
)

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone,omitempty" validate:"max=40"`
	Subject string `json:"subject,omitempty" validate:"max=120"`
	Message string `json:"message" validate:"required,max=5000"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// InitHandlers must be called during server startup before handling requests.
// A nil sender leaves the form visible but disabled.
func InitHandlers(cfg *config.Config, s email.EmailSender, rl *ratelimit.Limiter) {
	if cfg == nil {
		return
	}
	initOnce.Do(func() {
		appConfig = cfg
		sender = s
		limiter = rl
	})
}

func details() contacttempl.Details {
	if appConfig == nil {
		return contacttempl.Details{}
	}
	return contacttempl.Details{
		Address: appConfig.Club.Address,
		Phone:   appConfig.Club.Phone,
		Email:   appConfig.Club.Email,
		Hours:   appConfig.Club.Hours,
	}
}

// GET /contact
func HandleContactPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, http.StatusOK, contacttempl.PageData{
		Sent: r.URL.Query().Get("sent") == "1",
	})
}

// POST /api/contact
func HandleSubmit(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if appConfig == nil {
		logger.Error().Msg("Contact handlers not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "contact form is not configured")
		return
	}

	req, err := decodeContactRequest(r)
	if err != nil {
		submitFailed(w, r, req, http.StatusBadRequest, err.Error())
		return
	}
	if sender == nil {
		submitFailed(w, r, req, http.StatusServiceUnavailable, "The contact form is not available right now.")
		return
	}

	clientIP := ratelimit.GetClientIP(r, appConfig.Features.TrustProxy)
	if limiter != nil {
		if result := limiter.CheckSubmit(req.Email, clientIP); !result.Allowed {
			ratelimit.LogRateLimitExceeded("contact", req.Email, clientIP, result.Reason)
			w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())))
			submitFailed(w, r, req, http.StatusTooManyRequests,
				fmt.Sprintf("Too many messages, please try again in %s", result.RetryAfter.Round(time.Second)))
			return
		}
		limiter.RecordSubmit(req.Email, clientIP)
	}

	msg := email.BuildContactEmail(appConfig.App.Name, appConfig.Email.ContactRecipient, email.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	}, clock.Now())
	email.SendAsync(r.Context(), sender, msg, logger, nil)
	logger.Info().Str("sender", ratelimit.SanitizeIdentifier(req.Email)).Msg("Contact message accepted")

	if apiutil.IsJSONRequest(r) {
		_ = apiutil.WriteJSON(w, http.StatusOK, messageResponse{Message: sentMessage})
		return
	}
	http.Redirect(w, r, "/contact?sent=1", http.StatusSeeOther)
}

func decodeContactRequest(r *http.Request) (contactRequest, error) {
	var req contactRequest
	if apiutil.IsJSONRequest(r) {
		if err := apiutil.DecodeJSON(r, &req); err != nil {
			return req, fmt.Errorf("invalid JSON body")
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return req, fmt.Errorf("invalid form data")
		}
		req.Name = r.FormValue("name")
		req.Email = r.FormValue("email")
		req.Phone = r.FormValue("phone")
		req.Subject = r.FormValue("subject")
		req.Message = r.FormValue("message")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	if err := apiutil.Validate(req); err != nil {
		return req, err
	}
	if req.Phone != "" {
		req.Phone = models.NormalizeContact(req.Phone, appConfig.Players.DefaultPhoneRegion)
	}
	return req, nil
}

func submitFailed(w http.ResponseWriter, r *http.Request, req contactRequest, status int, message string) {
	if apiutil.IsJSONRequest(r) {
		apiutil.WriteError(w, status, message)
		return
	}
	renderPage(w, r, status, contacttempl.PageData{
		Form: contacttempl.FormData{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Subject: req.Subject,
			Message: req.Message,
		},
		Error: message,
	})
}

func renderPage(w http.ResponseWriter, r *http.Request, status int, data contacttempl.PageData) {
	data.Details = details()
	data.Available = sender != nil
	page := apiutil.PublicPage(r, "Contact", "contact", "Get in touch with the club", contacttempl.Page(data))
	apiutil.RenderHTMLComponentStatus(r.Context(), w, status, page, "Failed to render contact page")
}
