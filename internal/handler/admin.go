package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ekarabulut/vblog/internal/model"
	"github.com/ekarabulut/vblog/internal/service"
	"github.com/ekarabulut/vblog/internal/utils"
)

// AdminHandler implements the moderation panel: user management and a
// full view of all posts. Every route is behind RequireRole(Admin).
type AdminHandler struct {
	Users      *service.UserService
	Posts      *service.PostService
	BcryptCost int
}

func NewAdminHandler(users *service.UserService, posts *service.PostService, bcryptCost int) *AdminHandler {
	return &AdminHandler{Users: users, Posts: posts, BcryptCost: bcryptCost}
}

type createUserReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updateUserReq struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	NewPassword string `json:"new_password"`
}

// ListUsers handles GET /v1/admin/users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.Users.All()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load users failed"})
	}
	out := make([]userResp, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResp(u))
	}
	return c.JSON(http.StatusOK, out)
}

// CreateUser handles POST /v1/admin/users. Unlike public registration
// the admin chooses the role.
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if msg := validateCredentials(req.Username, req.Email, req.Password); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	role := model.Role(req.Role)
	if req.Role == "" {
		role = model.RoleUser
	}
	if !model.ValidRole(role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}

	u, err := h.Users.Register(req.Username, req.Email, req.Password, role)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) || errors.Is(err, service.ErrEmailTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username or email already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, toUserResp(u))
}

// UpdateUser handles PUT /v1/admin/users/:id. Uniqueness of a changed
// username or email is re-checked here because the user service leaves
// that to its callers. A non-empty new_password replaces the stored
// hash.
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if msg := validateProfile(req.Username, req.Email); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	existing, err := h.Users.ByID(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	role := model.Role(req.Role)
	if !model.ValidRole(role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}

	// Only re-check uniqueness for fields that actually changed.
	if !strings.EqualFold(existing.Username, req.Username) {
		if _, err := h.Users.ByUsername(req.Username); err == nil {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already in use"})
		}
	}
	if !strings.EqualFold(existing.Email, req.Email) {
		if _, err := h.Users.ByEmail(req.Email); err == nil {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already in use"})
		}
	}

	existing.Username = req.Username
	existing.Email = req.Email
	existing.Role = role
	if req.NewPassword != "" {
		if len(req.NewPassword) < 6 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
		}
		hash, err := utils.HashPassword(req.NewPassword, h.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
		}
		existing.PasswordHash = hash
	}

	if err := h.Users.Update(existing); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
	}
	updated, err := h.Users.ByID(id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, toUserResp(updated))
}

// DeleteUser handles DELETE /v1/admin/users/:id. The user's posts and
// comments are left in place; their author names fall back to a
// placeholder on read. Deleting a missing user still returns 204.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Users.Delete(id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete user failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListPosts handles GET /v1/admin/posts: every post including drafts.
func (h *AdminHandler) ListPosts(c echo.Context) error {
	posts, err := h.Posts.All()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load posts failed"})
	}
	out := make([]postResp, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResp(p))
	}
	return c.JSON(http.StatusOK, out)
}

// ListComments handles GET /v1/admin/comments: every comment across all
// posts in one flat list, newest first.
func (h *AdminHandler) ListComments(c echo.Context) error {
	comments, err := h.Posts.AllComments()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load comments failed"})
	}
	out := make([]commentResp, 0, len(comments))
	for _, cm := range comments {
		out = append(out, toCommentResp(cm))
	}
	return c.JSON(http.StatusOK, out)
}
