package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ekarabulut/vblog/internal/middleware"
	"github.com/ekarabulut/vblog/internal/model"
	"github.com/ekarabulut/vblog/internal/service"
	"github.com/ekarabulut/vblog/internal/store"
	"github.com/ekarabulut/vblog/internal/utils"
)

// PostHandler serves the public and authenticated post endpoints. Post
// bodies arrive as multipart forms because they may carry an image.
type PostHandler struct {
	Posts *service.PostService
}

func NewPostHandler(posts *service.PostService) *PostHandler {
	return &PostHandler{Posts: posts}
}

// ----- DTOs -----

type commentResp struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	ImagePath string    `json:"image_path,omitempty"`
}

type postResp struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Content      string        `json:"content"`
	AuthorID     string        `json:"author_id"`
	Author       string        `json:"author"`
	CreatedAt    time.Time     `json:"created_at"`
	LastModified *time.Time    `json:"last_modified,omitempty"`
	Published    bool          `json:"published"`
	ImagePath    string        `json:"image_path,omitempty"`
	Comments     []commentResp `json:"comments"`
}

func toCommentResp(cm model.Comment) commentResp {
	return commentResp{
		ID:        cm.ID.String(),
		PostID:    cm.PostID.String(),
		AuthorID:  cm.AuthorID.String(),
		Author:    cm.AuthorUsername,
		Content:   cm.Content,
		CreatedAt: cm.CreatedAt,
		ImagePath: cm.ImagePath,
	}
}

func toPostResp(p model.Post) postResp {
	comments := make([]commentResp, 0, len(p.Comments))
	for _, cm := range p.Comments {
		comments = append(comments, toCommentResp(cm))
	}
	return postResp{
		ID:           p.ID.String(),
		Title:        p.Title,
		Content:      p.Content,
		AuthorID:     p.AuthorID.String(),
		Author:       p.AuthorUsername,
		CreatedAt:    p.CreatedAt,
		LastModified: p.LastModified,
		Published:    p.Published,
		ImagePath:    p.ImagePath,
		Comments:     comments,
	}
}

// canSee reports whether the session may view the post. Unpublished
// posts are visible only to their author and to admins.
func canSee(p model.Post, sess utils.Session, authed bool) bool {
	if p.Published {
		return true
	}
	if !authed {
		return false
	}
	return sess.Role == model.RoleAdmin || sess.UserID == p.AuthorID
}

// canEdit reports whether the session may modify the post.
func canEdit(p model.Post, sess utils.Session) bool {
	return sess.Role == model.RoleAdmin || sess.UserID == p.AuthorID
}

func validatePostFields(title, content string) string {
	if n := len([]rune(title)); n < 5 || n > 200 {
		return "title must be between 5 and 200 characters"
	}
	if len([]rune(content)) < 20 {
		return "content must be at least 20 characters"
	}
	return ""
}

// List handles GET /v1/posts. Guests and plain users see published
// posts; authors additionally see their own drafts and admins see
// everything.
func (h *PostHandler) List(c echo.Context) error {
	posts, err := h.Posts.All()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load posts failed"})
	}
	sess, authed := middleware.CurrentSession(c)

	out := make([]postResp, 0, len(posts))
	for _, p := range posts {
		if canSee(p, sess, authed) {
			out = append(out, toPostResp(p))
		}
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/posts/:id. Unpublished posts are reported as not
// found to anyone but their author or an admin.
func (h *PostHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	p, err := h.Posts.ByID(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load post failed"})
	}
	sess, authed := middleware.CurrentSession(c)
	if !canSee(p, sess, authed) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
	}
	return c.JSON(http.StatusOK, toPostResp(p))
}

// Create handles POST /v1/posts (multipart). Restricted to authors and
// admins by the router. A rejected image does not fail the request; the
// post is created without one.
func (h *PostHandler) Create(c echo.Context) error {
	sess, _ := middleware.CurrentSession(c)

	title := strings.TrimSpace(c.FormValue("title"))
	content := strings.TrimSpace(c.FormValue("content"))
	if msg := validatePostFields(title, content); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	published := true
	if v := c.FormValue("published"); v != "" {
		published, _ = strconv.ParseBool(v)
	}

	up, closeUpload, err := formUpload(c, "image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid upload"})
	}
	defer closeUpload()

	p, err := h.Posts.Create(model.Post{
		Title:     title,
		Content:   content,
		AuthorID:  sess.UserID,
		Published: published,
	}, up)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create post failed"})
	}
	p.AuthorUsername = sess.Username
	return c.JSON(http.StatusCreated, toPostResp(p))
}

// Update handles PUT /v1/posts/:id (multipart). Only the author or an
// admin may edit. The delete_image flag drops the current image; a new
// upload supersedes it either way. An invalid new image yields 400, but
// the text changes have already been saved by then.
func (h *PostHandler) Update(c echo.Context) error {
	sess, _ := middleware.CurrentSession(c)
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	existing, err := h.Posts.ByID(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load post failed"})
	}
	if !canEdit(existing, sess) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	title := strings.TrimSpace(c.FormValue("title"))
	content := strings.TrimSpace(c.FormValue("content"))
	if msg := validatePostFields(title, content); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	published := existing.Published
	if v := c.FormValue("published"); v != "" {
		published, _ = strconv.ParseBool(v)
	}
	deleteImage, _ := strconv.ParseBool(c.FormValue("delete_image"))

	up, closeUpload, err := formUpload(c, "image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid upload"})
	}
	defer closeUpload()

	err = h.Posts.Update(model.Post{
		ID:        id,
		Title:     title,
		Content:   content,
		Published: published,
	}, up, deleteImage)
	if err != nil {
		if errors.Is(err, store.ErrFileTooLarge) || errors.Is(err, store.ErrUnsupportedType) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update post failed"})
	}

	updated, err := h.Posts.ByID(id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load post failed"})
	}
	return c.JSON(http.StatusOK, toPostResp(updated))
}

// Delete handles DELETE /v1/posts/:id. Only the author or an admin may
// delete; the cascade removes the post image and all comment images.
func (h *PostHandler) Delete(c echo.Context) error {
	sess, _ := middleware.CurrentSession(c)
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	existing, err := h.Posts.ByID(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load post failed"})
	}
	if !canEdit(existing, sess) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Posts.Delete(id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete post failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// AddComment handles POST /v1/posts/:id/comments (multipart). Any
// authenticated user may comment on a visible post.
func (h *PostHandler) AddComment(c echo.Context) error {
	sess, _ := middleware.CurrentSession(c)
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	content := strings.TrimSpace(c.FormValue("content"))
	up, closeUpload, err := formUpload(c, "image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid upload"})
	}
	defer closeUpload()

	cm, err := h.Posts.AddComment(id, model.Comment{
		AuthorID: sess.UserID,
		Content:  content,
	}, up)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommentLength):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add comment failed"})
		}
	}
	cm.AuthorUsername = sess.Username
	return c.JSON(http.StatusCreated, toCommentResp(cm))
}

// DeleteComment handles DELETE /v1/posts/:id/comments/:commentID.
// Restricted to admins by the router; removing an already-gone comment
// still returns 204.
func (h *PostHandler) DeleteComment(c echo.Context) error {
	postID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	commentID, err := pathID(c, "commentID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid comment id"})
	}
	if err := h.Posts.DeleteComment(postID, commentID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete comment failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
