package service

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/litepay/litepay/internal/auth"
	"github.com/litepay/litepay/internal/middleware"
	"github.com/litepay/litepay/internal/models"
	"github.com/litepay/litepay/internal/storage"
)

// AuthService handles registration, login and the current-user endpoint.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         storage.Store
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store storage.Store) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
	}
}

type registerInput struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionPayload is returned by register and login.
type sessionPayload struct {
	User  models.UserRef `json:"user"`
	Token string         `json:"token"`
}

func (s *AuthService) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		writeError(w, http.StatusBadRequest, errors.New("a valid email is required"))
		return
	}
	if strings.TrimSpace(in.FirstName) == "" {
		writeError(w, http.StatusBadRequest, errors.New("first name is required"))
		return
	}

	user, err := s.authenticator.Register(r.Context(), in.Email, in.FirstName, in.LastName, in.Password)
	if err != nil {
		slog.Warn("registration failed", "email", in.Email, "error", err)
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			writeError(w, http.StatusConflict, err)
		case errors.Is(err, auth.ErrWeakPassword):
			writeError(w, http.StatusBadRequest, err)
		default:
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("failed to generate token", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	writeData(w, http.StatusCreated, sessionPayload{User: user.Ref(), Token: token})
}

func (s *AuthService) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if in.Email == "" || in.Password == "" {
		writeError(w, http.StatusBadRequest, auth.ErrInvalidCredentials)
		return
	}

	user, err := s.authenticator.Authenticate(r.Context(), strings.ToLower(in.Email), in.Password)
	if err != nil {
		slog.Warn("login failed", "email", in.Email)
		writeError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials)
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("failed to generate token", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	slog.Info("user logged in", "user_id", user.ID)
	writeData(w, http.StatusOK, sessionPayload{User: user.Ref(), Token: token})
}

func (s *AuthService) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, storage.ErrNotFound)
		return
	}

	writeData(w, http.StatusOK, user.Ref())
}
