// Package postgres implements storage.Storage over database/sql with the
// pgx driver. Foreign-key policy lives in schema.sql: deleting a group
// nulls posts.group_id, deleting a user cascades to posts, comments,
// follows and sessions.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"yatube/internal/models"
	"yatube/internal/storage"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const uniqueViolation = "23505"

func constraintErr(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == uniqueViolation &&
		strings.Contains(pgErr.ConstraintName, constraint)
}

// === Users & sessions ===

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, u.Username, u.Email, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
	if constraintErr(err, "username") {
		return storage.ErrUsernameTaken
	}
	if constraintErr(err, "email") {
		return storage.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (s *Store) UserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE id = $1
	`, id))
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE username = $1
	`, username))
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE lower(email) = lower($1)
	`, email))
}

func (s *Store) CreateSession(ctx context.Context, sess *models.Session) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO sessions (id, user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, sess.ID, sess.UserID, sess.ExpiresAt).Scan(&sess.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *Store) SessionByID(ctx context.Context, id string) (*models.Session, error) {
	var sess models.Session
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, expires_at, created_at
		FROM sessions WHERE id = $1
	`, id).Scan(&sess.ID, &sess.UserID, &sess.ExpiresAt, &sess.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	return &sess, nil
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// === Groups ===

func (s *Store) CreateGroup(ctx context.Context, g *models.Group) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO groups (title, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id
	`, g.Title, g.Slug, g.Description).Scan(&g.ID)
	if err != nil {
		return fmt.Errorf("insert group: %w", err)
	}
	return nil
}

func (s *Store) GroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var g models.Group
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, slug, description
		FROM groups WHERE slug = $1
	`, slug).Scan(&g.ID, &g.Title, &g.Slug, &g.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan group: %w", err)
	}
	return &g, nil
}

func (s *Store) Groups(ctx context.Context) ([]models.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, slug, description FROM groups ORDER BY title
	`)
	if err != nil {
		return nil, fmt.Errorf("groups query: %w", err)
	}
	defer rows.Close()

	var out []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Title, &g.Slug, &g.Description); err != nil {
			return nil, fmt.Errorf("groups scan: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// === Posts ===

func (s *Store) CreatePost(ctx context.Context, p *models.Post) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (author_id, group_id, text, image)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, p.AuthorID, p.GroupID, p.Text, p.Image).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

const postColumns = `
	p.id, p.author_id, p.group_id, p.text, p.image, p.created_at,
	u.username, g.title, g.slug, g.description
`

const postFrom = `
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN groups g ON g.id = p.group_id
`

func scanPost(scan func(...any) error) (*models.Post, error) {
	var (
		p     models.Post
		gid   sql.NullInt64
		title sql.NullString
		slug  sql.NullString
		descr sql.NullString
	)
	err := scan(&p.ID, &p.AuthorID, &gid, &p.Text, &p.Image, &p.CreatedAt,
		&p.Author, &title, &slug, &descr)
	if err != nil {
		return nil, err
	}
	if gid.Valid {
		id := gid.Int64
		p.GroupID = &id
		p.Group = &models.Group{
			ID:          id,
			Title:       title.String,
			Slug:        slug.String,
			Description: descr.String,
		}
	}
	return &p, nil
}

func (s *Store) PostByID(ctx context.Context, id int64) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+postFrom+` WHERE p.id = $1`, id)
	p, err := scanPost(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan post: %w", err)
	}
	return p, nil
}

func (s *Store) UpdatePost(ctx context.Context, p *models.Post) error {
	// created_at is write-once; the image is kept when no new upload came in.
	res, err := s.db.ExecContext(ctx, `
		UPDATE posts
		SET text = $1, group_id = $2, author_id = $3,
		    image = CASE WHEN $4 = '' THEN image ELSE $4 END
		WHERE id = $5
	`, p.Text, p.GroupID, p.AuthorID, p.Image, p.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) Posts(ctx context.Context, f storage.PostFilter) ([]models.Post, error) {
	var (
		args  []any
		where []string
	)
	nextArg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.GroupID != 0 {
		where = append(where, "p.group_id = "+nextArg(f.GroupID))
	}
	if f.AuthorID != 0 {
		where = append(where, "p.author_id = "+nextArg(f.AuthorID))
	}
	if f.FollowedBy != 0 {
		where = append(where, `EXISTS (
			SELECT 1 FROM follows f
			WHERE f.user_id = `+nextArg(f.FollowedBy)+`
			  AND f.author_id = p.author_id
		)`)
	}

	q := `SELECT ` + postColumns + postFrom
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY p.created_at DESC, p.id DESC"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("posts query: %w", err)
	}
	defer rows.Close()

	var out []models.Post
	for rows.Next() {
		p, err := scanPost(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("posts scan: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *Store) CountPostsByAuthor(ctx context.Context, authorID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE author_id = $1`, authorID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

// === Comments ===

func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO comments (post_id, author_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, c.PostID, c.AuthorID, c.Text).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (s *Store) CommentsByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.post_id, c.author_id, c.text, c.created_at, u.username
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC, c.id DESC
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("comments query: %w", err)
	}
	defer rows.Close()

	var out []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Text, &c.CreatedAt, &c.Author); err != nil {
			return nil, fmt.Errorf("comments scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// === Follows ===

// Follow is idempotent: the (user_id, author_id) unique constraint plus
// ON CONFLICT DO NOTHING make concurrent duplicate requests harmless.
func (s *Store) Follow(ctx context.Context, userID, authorID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO follows (user_id, author_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, author_id) DO NOTHING
	`, userID, authorID)
	if err != nil {
		return fmt.Errorf("insert follow: %w", err)
	}
	return nil
}

func (s *Store) Unfollow(ctx context.Context, userID, authorID int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM follows WHERE user_id = $1 AND author_id = $2
	`, userID, authorID)
	if err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

func (s *Store) IsFollowing(ctx context.Context, userID, authorID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM follows WHERE user_id = $1 AND author_id = $2
		)
	`, userID, authorID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("follow exists: %w", err)
	}
	return exists, nil
}
