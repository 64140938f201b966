package handler

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ekarabulut/vblog/internal/middleware"
	"github.com/ekarabulut/vblog/internal/model"
	"github.com/ekarabulut/vblog/internal/service"
	"github.com/ekarabulut/vblog/internal/utils"
)

// AuthHandler bundles dependencies for registration, login and session
// endpoints.
type AuthHandler struct {
	Users       *service.UserService
	Secret      string
	SessionTTL  time.Duration
	RememberTTL time.Duration
}

func NewAuthHandler(users *service.UserService, secret string, sessionTTL, rememberTTL time.Duration) *AuthHandler {
	return &AuthHandler{Users: users, Secret: secret, SessionTTL: sessionTTL, RememberTTL: rememberTTL}
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ----- DTOs -----

type registerReq struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginReq struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

type userResp struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	RegisteredAt time.Time `json:"registered_at"`
}

func toUserResp(u model.User) userResp {
	return userResp{
		ID:           u.ID.String(),
		Username:     u.Username,
		Email:        u.Email,
		Role:         string(u.Role),
		RegisteredAt: u.RegisteredAt,
	}
}

// validateProfile checks the fields every account write shares,
// whether it comes from registration or an admin edit.
func validateProfile(username, email string) string {
	if n := len(username); n < 3 || n > 50 {
		return "username must be between 3 and 50 characters"
	}
	if !emailRegex.MatchString(email) {
		return "invalid email address"
	}
	return ""
}

func validateCredentials(username, email, password string) string {
	if msg := validateProfile(username, email); msg != "" {
		return msg
	}
	if len(password) < 6 {
		return "password must be at least 6 characters"
	}
	return ""
}

// Register handles POST /v1/auth/register. Public registration always
// creates a plain User; admins create other roles through the admin
// endpoints.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if msg := validateCredentials(req.Username, req.Email, req.Password); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passwords do not match"})
	}

	u, err := h.Users.Register(req.Username, req.Email, req.Password, model.RoleUser)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) || errors.Is(err, service.ErrEmailTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username or email already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}
	return c.JSON(http.StatusCreated, toUserResp(u))
}

// Login handles POST /v1/auth/login. On success it sets the session
// cookie; remember_me extends the session lifetime.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	u, err := h.Users.Authenticate(req.Username, req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid username or password"})
	}

	ttl := h.SessionTTL
	if req.RememberMe {
		ttl = h.RememberTTL
	}
	token, exp, err := utils.NewSessionToken(h.Secret, u, ttl)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session failed"})
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, toUserResp(u))
}

// Logout handles POST /v1/auth/logout by expiring the session cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /v1/me and returns the authenticated user's record.
func (h *AuthHandler) Me(c echo.Context) error {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	u, err := h.Users.ByID(sess.UserID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "account no longer exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}
