package storage

import (
	"context"
	"errors"

	"yatube/internal/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already taken")
)

// PostFilter narrows a post listing. Zero fields mean "any".
// FollowedBy selects posts whose author is followed by that user.
type PostFilter struct {
	GroupID    int64
	AuthorID   int64
	FollowedBy int64
}

// Storage is the persistence boundary. Implementations: postgres for
// production, inmemory for tests. All listings return newest-first.
type Storage interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByID(ctx context.Context, id int64) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)

	CreateSession(ctx context.Context, s *models.Session) error
	SessionByID(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error

	CreateGroup(ctx context.Context, g *models.Group) error
	GroupBySlug(ctx context.Context, slug string) (*models.Group, error)
	Groups(ctx context.Context) ([]models.Group, error)

	CreatePost(ctx context.Context, p *models.Post) error
	PostByID(ctx context.Context, id int64) (*models.Post, error)
	UpdatePost(ctx context.Context, p *models.Post) error
	Posts(ctx context.Context, f PostFilter) ([]models.Post, error)
	CountPostsByAuthor(ctx context.Context, authorID int64) (int, error)

	CreateComment(ctx context.Context, c *models.Comment) error
	CommentsByPost(ctx context.Context, postID int64) ([]models.Comment, error)

	Follow(ctx context.Context, userID, authorID int64) error
	Unfollow(ctx context.Context, userID, authorID int64) error
	IsFollowing(ctx context.Context, userID, authorID int64) (bool, error)
}
