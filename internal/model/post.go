package model

import (
	"time"

	"github.com/google/uuid"
)

// Post is a blog entry as persisted in posts.json. Comments live inside
// their parent post record; there is no separate comment collection.
//
// AuthorUsername is a computed display field: it is recomputed from the
// current user collection on every read and never persisted, so renames
// are always reflected and stale names cannot survive in storage.
type Post struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	AuthorID       uuid.UUID  `json:"author_id"`
	AuthorUsername string     `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	LastModified   *time.Time `json:"last_modified,omitempty"`
	Published      bool       `json:"published"`
	ImagePath      string     `json:"image_path,omitempty"`
	Comments       []Comment  `json:"comments"`
}

// Comment is owned by exactly one post. PostID is a back-reference for
// convenience, not an ownership pointer.
type Comment struct {
	ID             uuid.UUID `json:"id"`
	PostID         uuid.UUID `json:"post_id"`
	AuthorID       uuid.UUID `json:"author_id"`
	AuthorUsername string    `json:"-"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	ImagePath      string    `json:"image_path,omitempty"`
}
