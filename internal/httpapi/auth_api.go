package httpapi

import (
	"errors"
	"net/http"

	"github.com/johnrirwin/yatra/internal/auth"
	"github.com/johnrirwin/yatra/internal/logging"
)

// AuthAPI handles account and session endpoints
type AuthAPI struct {
	authSvc        *auth.Service
	authMiddleware *auth.Middleware
	logger         *logging.Logger
}

func NewAuthAPI(authSvc *auth.Service, authMiddleware *auth.Middleware, logger *logging.Logger) *AuthAPI {
	return &AuthAPI{
		authSvc:        authSvc,
		authMiddleware: authMiddleware,
		logger:         logger,
	}
}

func (api *AuthAPI) RegisterRoutes(mux *http.ServeMux, corsMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	if api.authSvc == nil || api.authMiddleware == nil {
		api.logger.Warn("Auth API routes not registered: no database configured")
		return
	}

	mux.HandleFunc("/api/auth/signup", corsMiddleware(api.handleSignup))
	mux.HandleFunc("/api/auth/login", corsMiddleware(api.handleLogin))
	mux.HandleFunc("/api/auth/request-otp", corsMiddleware(api.handleRequestOTP))
	mux.HandleFunc("/api/auth/verify-otp", corsMiddleware(api.handleVerifyOTP))
	mux.HandleFunc("/api/auth/logout", corsMiddleware(api.handleLogout))
	mux.HandleFunc("/api/auth/me", corsMiddleware(answerPreflight(api.authMiddleware.RequireAuth(api.handleMe))))
}

// handleSignup handles POST /api/auth/signup {email, password, name?}
func (api *AuthAPI) handleSignup(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var params auth.SignupParams
	if err := decodeJSON(w, r, &params); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidInput)
		return
	}

	login, err := api.authSvc.Signup(r.Context(), params)
	if err != nil {
		switch {
		case isValidationError(err):
			writeError(w, http.StatusBadRequest, msgInvalidInput)
		case errors.Is(err, auth.ErrEmailTaken):
			writeError(w, http.StatusConflict, "Email already in use")
		default:
			api.logger.Error("Signup failed", logging.WithField("error", err.Error()))
			writeError(w, http.StatusInternalServerError, msgServerError)
		}
		return
	}

	api.authMiddleware.SetSessionCookie(w, login.Token, login.ExpiresAt)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleLogin handles POST /api/auth/login {email, password}
func (api *AuthAPI) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidInput)
		return
	}

	login, err := api.authSvc.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		switch {
		case isValidationError(err):
			writeError(w, http.StatusBadRequest, msgInvalidInput)
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			api.logger.Error("Login failed", logging.WithField("error", err.Error()))
			writeError(w, http.StatusInternalServerError, msgServerError)
		}
		return
	}

	api.authMiddleware.SetSessionCookie(w, login.Token, login.ExpiresAt)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleRequestOTP handles POST /api/auth/request-otp {phone}
func (api *AuthAPI) handleRequestOTP(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var body struct {
		Phone string `json:"phone"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidInput)
		return
	}

	req, err := api.authSvc.RequestOTP(r.Context(), body.Phone)
	if err != nil {
		switch {
		case isValidationError(err):
			writeError(w, http.StatusBadRequest, msgInvalidInput)
		case errors.Is(err, auth.ErrOTPThrottled):
			var throttled *auth.ThrottledError
			if errors.As(err, &throttled) {
				setRetryAfter(w, throttled.RetryAfter)
			}
			writeError(w, http.StatusTooManyRequests, msgTooManyRequests)
		default:
			api.logger.Error("OTP request failed", logging.WithField("error", err.Error()))
			writeError(w, http.StatusInternalServerError, msgServerError)
		}
		return
	}

	response := map[string]interface{}{"ok": true}
	if req.PreviewCode != "" {
		response["previewCode"] = req.PreviewCode
	}
	writeJSON(w, http.StatusOK, response)
}

// handleVerifyOTP handles POST /api/auth/verify-otp {phone, code}
func (api *AuthAPI) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var body struct {
		Phone string `json:"phone"`
		Code  string `json:"code"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidInput)
		return
	}

	login, err := api.authSvc.VerifyOTP(r.Context(), body.Phone, body.Code)
	if err != nil {
		switch {
		case isValidationError(err):
			writeError(w, http.StatusBadRequest, msgInvalidInput)
		case errors.Is(err, auth.ErrInvalidCode):
			writeError(w, http.StatusBadRequest, "Invalid or expired code")
		default:
			api.logger.Error("OTP verification failed", logging.WithField("error", err.Error()))
			writeError(w, http.StatusInternalServerError, msgServerError)
		}
		return
	}

	api.authMiddleware.SetSessionCookie(w, login.Token, login.ExpiresAt)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleLogout handles POST /api/auth/logout
func (api *AuthAPI) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil {
		if err := api.authSvc.Logout(r.Context(), cookie.Value); err != nil {
			api.logger.Error("Logout failed", logging.WithField("error", err.Error()))
			writeError(w, http.StatusInternalServerError, msgServerError)
			return
		}
	}

	api.authMiddleware.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleMe handles GET /api/auth/me
func (api *AuthAPI) handleMe(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user": auth.GetUser(r.Context()),
	})
}
