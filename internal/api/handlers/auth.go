package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dom/weather-gate/internal/api/middleware"
	"github.com/dom/weather-gate/internal/api/respond"
	"github.com/dom/weather-gate/internal/domain"
	"github.com/dom/weather-gate/internal/service"
)

type AuthHandler struct {
	userService    *service.UserService
	sessionService *service.SessionService
	loginRoute     string
	cookieSecure   bool
}

func NewAuthHandler(userService *service.UserService, sessionService *service.SessionService, loginRoute string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		userService:    userService,
		sessionService: sessionService,
		loginRoute:     loginRoute,
		cookieSecure:   cookieSecure,
	}
}

type CredentialsRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type UserResponse struct {
	Username string `json:"username"`
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (*CredentialsRequest, bool) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}

	if req.Login == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "Login and password are required")
		return nil, false
	}

	return &req, true
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := h.userService.CreateUser(r.Context(), req.Login, req.Password)
	if err != nil {
		respond.Err(w, "auth.SignUp", err)
		return
	}

	h.startSession(w, r, user, "auth.SignUp")
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := h.userService.SignIn(r.Context(), req.Login, req.Password)
	if err != nil {
		respond.Err(w, "auth.SignIn", err)
		return
	}

	h.startSession(w, r, user, "auth.SignIn")
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *domain.User, op string) {
	session, err := h.sessionService.CreateSession(r.Context(), user.Username)
	if err != nil {
		respond.Err(w, op, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    session.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	respond.Redirect(w, "/")
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.TokenCookie); err == nil && cookie.Value != "" {
		err := h.sessionService.DeleteSession(r.Context(), cookie.Value)
		if err != nil && !errors.Is(err, domain.ErrUnknownSession) {
			respond.Err(w, "auth.SignOut", err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	respond.Redirect(w, h.loginRoute)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	respond.Success(w, UserResponse{Username: user.Username})
}
