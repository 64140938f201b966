package service

import (
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ekarabulut/vblog/internal/model"
	"github.com/ekarabulut/vblog/internal/store"
)

// FallbackAuthor is the display name used when a post or comment author
// no longer exists; user deletion does not cascade.
const FallbackAuthor = "unknown"

// ImageStorage is the slice of the image store the post service needs.
// Tests substitute a recording fake to assert the delete cascade.
type ImageStorage interface {
	Save(up *store.Upload, subfolder string) (string, error)
	Delete(publicPath string) error
}

// PostService owns the post collection, the comments embedded in it and
// the image files referenced by both. It reads the user collection to
// recompute author display names on every read.
type PostService struct {
	posts  *store.Store[model.Post]
	users  *store.Store[model.User]
	images ImageStorage
}

func NewPostService(posts *store.Store[model.Post], users *store.Store[model.User], images ImageStorage) *PostService {
	return &PostService{posts: posts, users: users, images: images}
}

// All returns every post, newest first, with author names hydrated.
func (s *PostService) All() ([]model.Post, error) {
	posts, err := s.posts.LoadAll()
	if err != nil {
		return nil, err
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	if err := s.hydrate(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// AllComments flattens the comments of every post into a single list,
// newest first, with author names hydrated.
func (s *PostService) AllComments() ([]model.Comment, error) {
	posts, err := s.All()
	if err != nil {
		return nil, err
	}
	comments := make([]model.Comment, 0)
	for _, p := range posts {
		comments = append(comments, p.Comments...)
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

// ByID returns one post with author names hydrated, or ErrNotFound.
func (s *PostService) ByID(id uuid.UUID) (model.Post, error) {
	p, ok, err := s.posts.FindFirst(func(p model.Post) bool { return p.ID == id })
	if err != nil {
		return model.Post{}, err
	}
	if !ok {
		return model.Post{}, ErrNotFound
	}
	one := []model.Post{p}
	if err := s.hydrate(one); err != nil {
		return model.Post{}, err
	}
	return one[0], nil
}

// Create assigns the post an identity and creation time and persists it.
// An invalid image is logged and skipped rather than failing the post;
// the record is still created without an image path.
func (s *PostService) Create(p model.Post, image *store.Upload) (model.Post, error) {
	p.ID = uuid.New()
	p.CreatedAt = time.Now().UTC()
	if p.Comments == nil {
		p.Comments = []model.Comment{}
	}

	if image != nil {
		path, err := s.images.Save(image, "posts")
		if err != nil {
			log.Printf("post %s: image rejected: %v", p.ID, err)
		} else {
			p.ImagePath = path
		}
	}

	if err := s.posts.Add(p); err != nil {
		return model.Post{}, err
	}
	return p, nil
}

// Update rewrites title, content and published flag of an existing post
// and stamps LastModified. Image handling: the deleteImage flag removes
// the current image; a new upload always supersedes whatever image is
// still present, flag or not. A rejected new upload clears the image
// path instead of leaving a stale reference, and its validation error
// is returned so the caller can surface it; the text changes still save.
// Updating a missing post is a no-op.
func (s *PostService) Update(p model.Post, newImage *store.Upload, deleteImage bool) error {
	var imgErr error
	err := s.posts.Mutate(func(posts []model.Post) ([]model.Post, bool, error) {
		for i := range posts {
			if posts[i].ID != p.ID {
				continue
			}
			if deleteImage && posts[i].ImagePath != "" {
				if err := s.images.Delete(posts[i].ImagePath); err != nil {
					log.Printf("post %s: delete image: %v", p.ID, err)
				}
				posts[i].ImagePath = ""
			}
			if newImage != nil {
				if posts[i].ImagePath != "" {
					if err := s.images.Delete(posts[i].ImagePath); err != nil {
						log.Printf("post %s: delete image: %v", p.ID, err)
					}
				}
				path, err := s.images.Save(newImage, "posts")
				if err != nil {
					log.Printf("post %s: image rejected: %v", p.ID, err)
					posts[i].ImagePath = ""
					imgErr = err
				} else {
					posts[i].ImagePath = path
				}
			}

			now := time.Now().UTC()
			posts[i].Title = p.Title
			posts[i].Content = p.Content
			posts[i].Published = p.Published
			posts[i].LastModified = &now
			return posts, true, nil
		}
		return posts, false, nil
	})
	if err != nil {
		return err
	}
	return imgErr
}

// Delete removes a post together with its image and every comment
// image. Image deletions are best-effort and run before the record is
// removed; one failed file delete does not stop the others or the
// record removal. Deleting a missing post is a no-op.
func (s *PostService) Delete(id uuid.UUID) error {
	return s.posts.Mutate(func(posts []model.Post) ([]model.Post, bool, error) {
		for i := range posts {
			if posts[i].ID != id {
				continue
			}
			if posts[i].ImagePath != "" {
				if err := s.images.Delete(posts[i].ImagePath); err != nil {
					log.Printf("post %s: delete image: %v", id, err)
				}
			}
			for _, c := range posts[i].Comments {
				if c.ImagePath != "" {
					if err := s.images.Delete(c.ImagePath); err != nil {
						log.Printf("comment %s: delete image: %v", c.ID, err)
					}
				}
			}
			return append(posts[:i], posts[i+1:]...), true, nil
		}
		return posts, false, nil
	})
}

// AddComment appends a comment to the given post. The body must be
// 5-500 characters. A missing post yields ErrNotFound and no write. An
// invalid image is logged and the comment saved without one, matching
// post creation.
func (s *PostService) AddComment(postID uuid.UUID, c model.Comment, image *store.Upload) (model.Comment, error) {
	if n := len([]rune(c.Content)); n < 5 || n > 500 {
		return model.Comment{}, ErrCommentLength
	}

	c.ID = uuid.New()
	c.PostID = postID
	c.CreatedAt = time.Now().UTC()

	if image != nil {
		path, err := s.images.Save(image, "comments")
		if err != nil {
			log.Printf("comment %s: image rejected: %v", c.ID, err)
		} else {
			c.ImagePath = path
		}
	}

	err := s.posts.Mutate(func(posts []model.Post) ([]model.Post, bool, error) {
		for i := range posts {
			if posts[i].ID == postID {
				posts[i].Comments = append(posts[i].Comments, c)
				return posts, true, nil
			}
		}
		return nil, false, ErrNotFound
	})
	if err != nil {
		// The image was stored before the post lookup; remove it again
		// so a comment on a vanished post leaves no orphaned file.
		if c.ImagePath != "" {
			if derr := s.images.Delete(c.ImagePath); derr != nil {
				log.Printf("comment %s: delete image: %v", c.ID, derr)
			}
		}
		return model.Comment{}, err
	}
	return c, nil
}

// DeleteComment removes one comment and its image from a post. A
// missing post or comment is a no-op; sibling comments and the post
// itself are untouched.
func (s *PostService) DeleteComment(postID, commentID uuid.UUID) error {
	return s.posts.Mutate(func(posts []model.Post) ([]model.Post, bool, error) {
		for i := range posts {
			if posts[i].ID != postID {
				continue
			}
			for j, c := range posts[i].Comments {
				if c.ID != commentID {
					continue
				}
				if c.ImagePath != "" {
					if err := s.images.Delete(c.ImagePath); err != nil {
						log.Printf("comment %s: delete image: %v", c.ID, err)
					}
				}
				posts[i].Comments = append(posts[i].Comments[:j], posts[i].Comments[j+1:]...)
				return posts, true, nil
			}
			return posts, false, nil
		}
		return posts, false, nil
	})
}

// hydrate recomputes author display names for posts and their comments
// from the current user collection. Persisted names are never trusted;
// a vanished author resolves to FallbackAuthor.
func (s *PostService) hydrate(posts []model.Post) error {
	if len(posts) == 0 {
		return nil
	}
	users, err := s.users.LoadAll()
	if err != nil {
		return err
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}
	lookup := func(id uuid.UUID) string {
		if name, ok := names[id]; ok {
			return name
		}
		return FallbackAuthor
	}
	for i := range posts {
		posts[i].AuthorUsername = lookup(posts[i].AuthorID)
		for j := range posts[i].Comments {
			posts[i].Comments[j].AuthorUsername = lookup(posts[i].Comments[j].AuthorID)
		}
	}
	return nil
}
