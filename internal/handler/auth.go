package handler

import (
	"log/slog"
	"net/http"

	"github.com/sabdelkhalek/studyplanner/internal/apperror"
	"github.com/sabdelkhalek/studyplanner/internal/auth"
	"github.com/sabdelkhalek/studyplanner/internal/model"
	"github.com/sabdelkhalek/studyplanner/internal/service"
)

// AuthHandler exposes registration, login, token refresh and account
// management endpoints under /api/auth.
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

// authResponse is returned by register and login.
type authResponse struct {
	User         *model.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/auth/register
// REQUEST BODY:
//
//	{"name":"Dupont","given_name":"Marie","email":"m@x.fr","password":"secret1",
//	 "level":"Licence 3","language":"fr"}
//
// Returns 201 with the user and a fresh token pair, 409 if the email is
// already registered.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name"`
		GivenName string `json:"given_name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		Level     string `json:"level"`
		Language  string `json:"language"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.svc.Register(r.Context(), service.RegisterInput{
		Name:      req.Name,
		GivenName: req.GivenName,
		Email:     req.Email,
		Password:  req.Password,
		Level:     req.Level,
		Language:  req.Language,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		User:         result.User,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

// HandleLogin verifies credentials and issues a token pair.
//
// HTTP: POST /api/auth/login
//
// Every failure — unknown email, wrong password, missing fields — returns
// the same 401 so the endpoint can't be used to enumerate accounts.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		User:         result.User,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

// HandleRefresh exchanges a valid refresh token for a new access token.
//
// HTTP: POST /api/auth/refresh (requires refresh token in Authorization)
//
// The middleware already verified the token; the service still checks
// that the account behind it exists.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, apperror.Unauthorized("valid authentication required"))
		return
	}

	token, err := h.svc.RefreshAccessToken(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"access_token": token})
}

// HandleLogout acknowledges a logout.
//
// HTTP: POST /api/auth/logout (requires access token)
//
// Tokens are stateless, so there is nothing to revoke server-side —
// clients discard their tokens. The endpoint exists so clients have a
// uniform logout call (and a natural place if revocation is added later).
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the authenticated user's profile.
//
// HTTP: GET /api/auth/me (requires access token)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, apperror.Unauthorized("valid authentication required"))
		return
	}

	user, err := h.svc.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleUpdateMe updates the authenticated user's profile.
//
// HTTP: PUT /api/auth/me
//
// Only name, given_name, level and language can change here. Email and
// password have their own flows; any other field in the body is ignored.
func (h *AuthHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, apperror.Unauthorized("valid authentication required"))
		return
	}

	var req struct {
		Name      *string `json:"name"`
		GivenName *string `json:"given_name"`
		Level     *string `json:"level"`
		Language  *string `json:"language"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.svc.UpdateProfile(r.Context(), userID, service.ProfileUpdate{
		Name:      req.Name,
		GivenName: req.GivenName,
		Level:     req.Level,
		Language:  req.Language,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleChangePassword changes the authenticated user's password.
//
// HTTP: POST /api/auth/change-password
// REQUEST BODY: {"old_password":"...","new_password":"..."}
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, apperror.Unauthorized("valid authentication required"))
		return
	}

	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.svc.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}
