package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"cinephile/internal/dto/request"
	"cinephile/internal/usecase"
	"cinephile/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	cookies utils.SessionConfig
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, cookies utils.SessionConfig, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		cookies: cookies,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.Register(r.Context(), &req, sessionMeta(r))
	if err != nil {
		h.handleServiceError(w, err, "register")
		return
	}

	h.setCookies(w, result)
	utils.ResponseCreated(w, "Registration successful", result.Response)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.Login(r.Context(), &req, sessionMeta(r))
	if err != nil {
		h.handleServiceError(w, err, "login")
		return
	}

	h.setCookies(w, result)
	utils.ResponseSuccess(w, "Login successful", result.Response)
}

// Logout handles POST /api/auth/logout (protected)
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var sessionToken string
	if user, ok := utils.CurrentUserFromContext(r.Context()); ok {
		sessionToken = user.SessionToken
	}
	if sessionToken == "" {
		if c, err := r.Cookie(h.cookies.CookieName); err == nil {
			sessionToken = c.Value
		}
	}

	if err := h.service.Logout(r.Context(), sessionToken); err != nil {
		h.handleServiceError(w, err, "logout")
		return
	}

	h.clearCookies(w)
	utils.ResponseSuccess(w, "Logout successful", nil)
}

func (h *AuthHandler) setCookies(w http.ResponseWriter, result *usecase.AuthResult) {
	if result.Session != nil {
		http.SetCookie(w, h.cookie(h.cookies.CookieName, result.Session.Token, result.Session.ExpiresAt))
	}
	http.SetCookie(w, h.cookie(utils.TokenCookie, result.Response.Token, result.Response.ExpiresAt))
}

func (h *AuthHandler) clearCookies(w http.ResponseWriter) {
	for _, name := range []string{h.cookies.CookieName, utils.TokenCookie} {
		c := h.cookie(name, "", time.Unix(0, 0))
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}

func (h *AuthHandler) cookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func sessionMeta(r *http.Request) request.SessionMeta {
	return request.SessionMeta{
		UserAgent: r.UserAgent(),
		IPAddress: r.RemoteAddr,
	}
}

func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, utils.ErrValidation):
		h.log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", utils.ValidationFields(err))

	case errors.Is(err, utils.ErrConflict):
		h.log.Warn(operation+" failed - already exists", zap.Error(err))
		utils.ResponseBadRequest(w, rootMessage(err), nil)

	case errors.Is(err, utils.ErrInvalidCredentials):
		h.log.Warn(operation+" failed - invalid credentials", zap.Error(err))
		utils.ResponseUnauthorized(w, "Invalid email or password")

	default:
		h.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
