package models

import (
	"slices"
	"time"
)

// Author is a weak reference to the user who wrote a post.
type Author struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Comment is a single reply under a post. Only the count is surfaced by the
// feed views.
type Comment struct {
	ID        string    `json:"_id"`
	Author    Author    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Post is the canonical server representation of a feed item.
//
// Image is empty when the post carries no picture; Likes and Comments are
// never nil after Normalize.
type Post struct {
	ID        string    `json:"_id"`
	Author    Author    `json:"author"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content"`
	Image     string    `json:"image,omitempty"`
	Likes     []string  `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
}

// Normalize replaces absent collections with empty ones.
func (p *Post) Normalize() {
	if p.Likes == nil {
		p.Likes = []string{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
}

// HasImage reports whether the post carries a picture.
func (p Post) HasImage() bool {
	return p.Image != ""
}

// IsLikedBy reports whether userID is a member of the post's like set.
func (p Post) IsLikedBy(userID string) bool {
	if userID == "" {
		return false
	}
	return slices.Contains(p.Likes, userID)
}

// LikeCount returns the size of the like set.
func (p Post) LikeCount() int {
	return len(p.Likes)
}

// CommentCount returns the number of comments under the post.
func (p Post) CommentCount() int {
	return len(p.Comments)
}

// Clone returns a deep copy so callers cannot mutate controller state.
func (p Post) Clone() Post {
	c := p
	c.Likes = slices.Clone(p.Likes)
	c.Comments = slices.Clone(p.Comments)
	c.Normalize()
	return c
}
