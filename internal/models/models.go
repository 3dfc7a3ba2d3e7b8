package models

import "time"

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Group struct {
	ID          int64
	Title       string
	Slug        string
	Description string
}

type Post struct {
	ID        int64
	AuthorID  int64
	GroupID   *int64
	Text      string
	Image     string // relative path under the media dir, "" when no image
	CreatedAt time.Time

	// filled on read
	Author string
	Group  *Group
}

type Comment struct {
	ID        int64
	PostID    int64
	AuthorID  int64
	Text      string
	CreatedAt time.Time

	Author string
}

type Follow struct {
	ID        int64
	UserID    int64
	AuthorID  int64
	CreatedAt time.Time
}
