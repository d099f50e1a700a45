package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Clubhouse/internal/api/apiutil"
	"github.com/codr1/Clubhouse/internal/api/authz"
	"github.com/codr1/Clubhouse/internal/config"
	"github.com/codr1/Clubhouse/internal/db"
	dbgen "github.com/codr1/Clubhouse/internal/db/generated"
	"github.com/codr1/Clubhouse/internal/models"
	"github.com/codr1/Clubhouse/internal/ratelimit"
	authtempl "github.com/codr1/Clubhouse/internal/templates/components/auth"
)

const (
	authQueryTimeout     = 5 * time.Second
	defaultLoginRedirect = "/admin/dashboard"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

var (
	queries     authQueries
	appConfig   *config.Config
	limiter     *ratelimit.Limiter
	clock       clockwork.Clock = clockwork.NewRealClock()
	queriesOnce sync.Once
)

type authQueries interface {
	CountUsers(ctx context.Context) (int64, error)
	CreateUser(ctx context.Context, arg dbgen.CreateUserParams) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (dbgen.User, error)
	GetUserByID(ctx context.Context, id int64) (dbgen.User, error)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Next     string `json:"next,omitempty"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Phone    string `json:"phone,omitempty" validate:"max=40"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user,omitempty"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(q authQueries, cfg *config.Config, rl *ratelimit.Limiter) {
	if q == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = q
		appConfig = cfg
		limiter = rl
	})
}

// /login
func HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if user := authz.UserFromContext(r.Context()); user != nil {
		http.Redirect(w, r, defaultLoginRedirect, http.StatusSeeOther)
		return
	}
	data := authtempl.LoginData{
		Next:       safeRedirect(r.URL.Query().Get("next")),
		Registered: r.URL.Query().Get("registered") == "1",
	}
	renderLogin(w, r, http.StatusOK, data)
}

// /register
func HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	open, err := registrationOpen(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to check registration state")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	renderRegister(w, r, http.StatusOK, authtempl.RegisterData{Closed: !open})
}

// POST /api/auth/login
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "auth is not configured")
		return
	}

	req, err := decodeLoginRequest(r)
	if err != nil {
		loginFailed(w, r, req, http.StatusBadRequest, err.Error())
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	clientIP := ratelimit.GetClientIP(r, trustProxy())

	if limiter != nil {
		if result := limiter.CheckLogin(email, clientIP); !result.Allowed {
			ratelimit.LogRateLimitExceeded("login", email, clientIP, result.Reason)
			w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())))
			loginFailed(w, r, req, http.StatusTooManyRequests,
				fmt.Sprintf("too many login attempts, try again in %s", result.RetryAfter.Round(time.Second)))
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), authQueryTimeout)
	defer cancel()

	user, err := authenticate(ctx, email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			if limiter != nil && limiter.RecordFailedLogin(email, clientIP) {
				logger.Warn().Str("account", ratelimit.SanitizeIdentifier(email)).Msg("Account locked after repeated failed logins")
			}
			loginFailed(w, r, req, http.StatusUnauthorized, ErrInvalidCredentials.Error())
			return
		}
		logger.Error().Err(err).Msg("Failed to authenticate user")
		loginFailed(w, r, req, http.StatusInternalServerError, "failed to sign in")
		return
	}
	if limiter != nil {
		limiter.ResetLogin(email)
	}

	authUser := &authz.AuthUser{ID: user.ID, Email: user.Email, Name: user.Name}
	if err := SetAuthCookie(w, authUser); err != nil {
		logger.Error().Err(err).Msg("Failed to issue auth cookie")
		loginFailed(w, r, req, http.StatusInternalServerError, "failed to sign in")
		return
	}
	logger.Info().Int64("user_id", user.ID).Msg("User signed in")

	if apiutil.IsJSONRequest(r) {
		model := models.UserFromDB(user)
		_ = apiutil.WriteJSON(w, http.StatusOK, userResponse{Message: "Signed in", User: &model})
		return
	}
	http.Redirect(w, r, apiutil.FirstNonEmpty(safeRedirect(req.Next), defaultLoginRedirect), http.StatusSeeOther)
}

// POST /api/auth/register
func HandleRegister(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "auth is not configured")
		return
	}

	req, err := decodeRegisterRequest(r)
	if err != nil {
		registerFailed(w, r, req, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), authQueryTimeout)
	defer cancel()

	open, err := registrationOpen(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to check registration state")
		registerFailed(w, r, req, http.StatusInternalServerError, "failed to register")
		return
	}
	if !open {
		registerFailed(w, r, req, http.StatusForbidden, "registration is closed")
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		registerFailed(w, r, req, http.StatusInternalServerError, "failed to register")
		return
	}

	id, err := queries.CreateUser(ctx, dbgen.CreateUserParams{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Phone:        req.Phone,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			registerFailed(w, r, req, http.StatusConflict, "email is already registered")
			return
		}
		logger.Error().Err(err).Msg("Failed to create user")
		registerFailed(w, r, req, http.StatusInternalServerError, "failed to register")
		return
	}
	logger.Info().Int64("user_id", id).Msg("User registered")

	if apiutil.IsJSONRequest(r) {
		row, err := queries.GetUserByID(ctx, id)
		if err != nil {
			apiutil.WriteHandlerError(w, r, err, "Failed to load registered user")
			return
		}
		model := models.UserFromDB(row)
		_ = apiutil.WriteJSON(w, http.StatusCreated, userResponse{Message: "User registered successfully", User: &model})
		return
	}
	http.Redirect(w, r, "/login?registered=1", http.StatusSeeOther)
}

// POST /api/auth/logout
func HandleLogout(w http.ResponseWriter, r *http.Request) {
	ClearAuthCookie(w)
	if apiutil.IsJSONRequest(r) || strings.Contains(r.Header.Get("Accept"), "application/json") {
		_ = apiutil.WriteJSON(w, http.StatusOK, userResponse{Message: "Signed out"})
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// GET /api/auth/session
func HandleSession(w http.ResponseWriter, r *http.Request) {
	user := authz.UserFromContext(r.Context())
	if user == nil {
		apiutil.WriteError(w, http.StatusUnauthorized, "not signed in")
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{"id": user.ID, "email": user.Email, "name": user.Name},
	})
}

func authenticate(ctx context.Context, email, password string) (dbgen.User, error) {
	user, err := queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbgen.User{}, ErrInvalidCredentials
		}
		return dbgen.User{}, err
	}
	if !VerifyPassword(user.PasswordHash, password) {
		return dbgen.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func registrationOpen(ctx context.Context) (bool, error) {
	if appConfig != nil && appConfig.Features.OpenRegistration {
		return true, nil
	}
	if queries == nil {
		return false, nil
	}
	count, err := queries.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func decodeLoginRequest(r *http.Request) (loginRequest, error) {
	var req loginRequest
	if apiutil.IsJSONRequest(r) {
		if err := apiutil.DecodeJSON(r, &req); err != nil {
			return req, fmt.Errorf("invalid JSON body")
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return req, fmt.Errorf("invalid form data")
		}
		req.Email = r.FormValue("email")
		req.Password = r.FormValue("password")
		req.Next = r.FormValue("next")
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := apiutil.Validate(req); err != nil {
		return req, err
	}
	return req, nil
}

func decodeRegisterRequest(r *http.Request) (registerRequest, error) {
	var req registerRequest
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
		req.Password = r.FormValue("password")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	if err := apiutil.Validate(req); err != nil {
		return req, err
	}
	if err := CheckPasswordStrength(req.Password); err != nil {
		return req, err
	}
	if req.Phone != "" {
		req.Phone = models.NormalizeContact(req.Phone, phoneRegion())
	}
	return req, nil
}

func loginFailed(w http.ResponseWriter, r *http.Request, req loginRequest, status int, message string) {
	if apiutil.IsJSONRequest(r) {
		apiutil.WriteError(w, status, message)
		return
	}
	renderLogin(w, r, status, authtempl.LoginData{
		Email: req.Email,
		Next:  safeRedirect(req.Next),
		Error: message,
	})
}

func registerFailed(w http.ResponseWriter, r *http.Request, req registerRequest, status int, message string) {
	if apiutil.IsJSONRequest(r) {
		apiutil.WriteError(w, status, message)
		return
	}
	renderRegister(w, r, status, authtempl.RegisterData{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Error:  message,
		Closed: status == http.StatusForbidden,
	})
}

func renderLogin(w http.ResponseWriter, r *http.Request, status int, data authtempl.LoginData) {
	page := apiutil.PublicPage(r, "Sign in", "", "", authtempl.LoginPage(data))
	apiutil.RenderHTMLComponentStatus(r.Context(), w, status, page, "Failed to render login page")
}

func renderRegister(w http.ResponseWriter, r *http.Request, status int, data authtempl.RegisterData) {
	page := apiutil.PublicPage(r, "Register", "", "", authtempl.RegisterPage(data))
	apiutil.RenderHTMLComponentStatus(r.Context(), w, status, page, "Failed to render register page")
}

// safeRedirect keeps only same-site absolute paths.
func safeRedirect(target string) string {
	target = strings.TrimSpace(target)
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, `/\`) {
		return ""
	}
	parsed, err := url.Parse(target)
	if err != nil || parsed.Host != "" || parsed.Scheme != "" {
		return ""
	}
	return target
}

func trustProxy() bool {
	return appConfig != nil && appConfig.Features.TrustProxy
}

func phoneRegion() string {
	if appConfig == nil {
		return "US"
	}
	return appConfig.Players.DefaultPhoneRegion
}
