package handlers

import (
	"BlogKeeper/internal/config"
	"BlogKeeper/internal/middleware"
	"BlogKeeper/internal/model"
	"BlogKeeper/internal/service"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// UserHandler обрабатывает регистрацию, вход и подтверждение email.
type UserHandler struct {
	UserService *service.UserService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

// NewUserHandler создаёт хендлер пользователей
func NewUserHandler(userService *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{UserService: userService, Logger: logger, Config: cfg}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userDTO struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	IsVerified bool   `json:"is_verified"`
}

func userToDTO(u *model.User) userDTO {
	return userDTO{ID: u.ID, Username: u.Username, Email: u.Email, IsVerified: u.IsVerified}
}

// Register регистрация нового пользователя; письмо подтверждения уходит в фоне
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Register: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request", "body must be JSON")
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, h.Logger, "Register", err)
		return
	}

	if err := middleware.SetLoginCookie(w, user.ID, h.Config.AuthSecret); err != nil {
		h.Logger.Errorw("Register: failed to set login cookie", "user_id", user.ID, "error", err)
	}
	writeJSON(w, http.StatusCreated, userToDTO(user))
}

// Login вход по email/паролю, выставляет cookie auth_token
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Login: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request", "body must be JSON")
		return
	}

	user, err := h.UserService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, h.Logger, "Login", err)
		return
	}

	if err := middleware.SetLoginCookie(w, user.ID, h.Config.AuthSecret); err != nil {
		h.Logger.Errorw("Login: failed to set login cookie", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	writeJSON(w, http.StatusOK, userToDTO(user))
}

// VerifyEmail подтверждение email по токену из письма
func (h *UserHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if err := h.UserService.VerifyEmail(r.Context(), token); err != nil {
		writeServiceError(w, h.Logger, "VerifyEmail", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Email verified successfully. You can now log in.",
	})
}

type updateUsernameRequest struct {
	Username string `json:"username"`
}

// UpdateUsername смена отображаемого имени; требует авторизации
func (h *UserHandler) UpdateUsername(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req updateUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("UpdateUsername: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request", "body must be JSON")
		return
	}

	user, err := h.UserService.UpdateUsername(r.Context(), userID, req.Username)
	if err != nil {
		writeServiceError(w, h.Logger, "UpdateUsername", err)
		return
	}
	writeJSON(w, http.StatusOK, userToDTO(user))
}
