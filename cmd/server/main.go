package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/ekarabulut/vblog/internal/config"
	"github.com/ekarabulut/vblog/internal/handler"
	"github.com/ekarabulut/vblog/internal/model"
	"github.com/ekarabulut/vblog/internal/router"
	"github.com/ekarabulut/vblog/internal/service"
	"github.com/ekarabulut/vblog/internal/store"
)

func main() {
	cfg := config.Load()

	users, err := store.Open[model.User](filepath.Join(cfg.DataDir, "users.json"))
	if err != nil {
		log.Fatalf("open user store: %v", err)
	}
	posts, err := store.Open[model.Post](filepath.Join(cfg.DataDir, "posts.json"))
	if err != nil {
		log.Fatalf("open post store: %v", err)
	}
	images := store.NewImageStore(cfg.StaticDir)

	userSvc := service.NewUserService(users, cfg.BcryptCost)
	postSvc := service.NewPostService(posts, users, images)

	if err := seed(userSvc, postSvc); err != nil {
		log.Fatalf("seed data: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	// Uploaded images are served straight from the static root.
	e.Static("/images", filepath.Join(cfg.StaticDir, "images"))

	authH := handler.NewAuthHandler(userSvc, cfg.SessionSecret,
		time.Duration(cfg.SessionTTLMin)*time.Minute,
		time.Duration(cfg.RememberTTLMin)*time.Minute)
	postH := handler.NewPostHandler(postSvc)
	adminH := handler.NewAdminHandler(userSvc, postSvc, cfg.BcryptCost)
	router.Register(e, cfg.SessionSecret, authH, postH, adminH)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()
	log.Printf("listening on :%s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
	log.Println("server stopped")
}

// seed creates an admin and an author account plus two welcome posts
// when the user collection is empty, so a fresh checkout is usable
// immediately. Passwords here are development defaults; change them
// before exposing the server.
func seed(usersSvc *service.UserService, postsSvc *service.PostService) error {
	existing, err := usersSvc.All()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	admin, err := usersSvc.Register("admin", "admin@vblog.local", "AdminPassword123", model.RoleAdmin)
	if err != nil {
		return err
	}
	author, err := usersSvc.Register("author", "author@vblog.local", "AuthorPassword123", model.RoleAuthor)
	if err != nil {
		return err
	}

	if _, err := postsSvc.Create(model.Post{
		Title:     "Welcome to VBlog!",
		Content:   "This is our first post. The blog is backed by flat JSON files and bcrypt-hashed accounts.",
		AuthorID:  admin.ID,
		Published: true,
	}, nil); err != nil {
		return err
	}
	if _, err := postsSvc.Create(model.Post{
		Title:     "The author's first post",
		Content:   "Hello world! I am your new author and this is my first entry.",
		AuthorID:  author.ID,
		Published: true,
	}, nil); err != nil {
		return err
	}
	log.Println("seeded admin and author accounts with welcome posts")
	return nil
}
