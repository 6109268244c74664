package models

import "time"

// Post is a feed item. AuthorName is resolved from users when the post is
// read. Likes is the set of user ids that liked the post, in like order.
type Post struct {
	ID         string
	AuthorID   string
	AuthorName string
	Title      string
	Content    string
	Image      string
	Likes      []string
	CreatedAt  time.Time
}
