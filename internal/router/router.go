// Package router wires HTTP routes to their handlers and attaches the
// session and role middleware that guards them.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ekarabulut/vblog/internal/handler"
	"github.com/ekarabulut/vblog/internal/middleware"
	"github.com/ekarabulut/vblog/internal/model"
)

// Register sets up every route of the application. Read endpoints take
// an optional session so drafts stay hidden from guests; write
// endpoints require authentication, and post authoring additionally
// requires the Author or Admin role. The admin panel is Admin-only.
func Register(e *echo.Echo, secret string, auth *handler.AuthHandler, posts *handler.PostHandler, admin *handler.AdminHandler) {
	e.GET("/healthz", handler.Health)

	// Public auth endpoints.
	a := e.Group("/v1/auth")
	a.POST("/register", auth.Register)
	a.POST("/login", auth.Login)
	a.POST("/logout", auth.Logout)

	// Post reads: open to guests, richer with a session.
	read := e.Group("/v1", middleware.OptionalSession(secret))
	read.GET("/posts", posts.List)
	read.GET("/posts/:id", posts.Get)

	// Authenticated endpoints.
	authed := e.Group("/v1", middleware.SessionAuth(secret))
	authed.GET("/me", auth.Me)
	authed.POST("/posts/:id/comments", posts.AddComment)

	// Authoring requires the Author or Admin role; ownership checks for
	// edit and delete happen in the handlers.
	writer := e.Group("/v1", middleware.SessionAuth(secret),
		middleware.RequireRole(model.RoleAuthor, model.RoleAdmin))
	writer.POST("/posts", posts.Create)
	writer.PUT("/posts/:id", posts.Update)
	writer.DELETE("/posts/:id", posts.Delete)

	// Moderation panel.
	adm := e.Group("/v1/admin", middleware.SessionAuth(secret),
		middleware.RequireRole(model.RoleAdmin))
	adm.GET("/users", admin.ListUsers)
	adm.POST("/users", admin.CreateUser)
	adm.PUT("/users/:id", admin.UpdateUser)
	adm.DELETE("/users/:id", admin.DeleteUser)
	adm.GET("/posts", admin.ListPosts)
	adm.GET("/comments", admin.ListComments)
	adm.DELETE("/posts/:id/comments/:commentID", posts.DeleteComment)
}
