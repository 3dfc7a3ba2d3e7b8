// Package inmemory implements storage.Storage with plain maps. It backs
// the handler and store tests; production uses the postgres package.
package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"yatube/internal/models"
	"yatube/internal/storage"
)

type followKey struct {
	userID   int64
	authorID int64
}

type Store struct {
	mu       sync.RWMutex
	nextID   int64
	users    map[int64]*models.User
	sessions map[string]*models.Session
	groups   map[int64]*models.Group
	posts    map[int64]*models.Post
	comments map[int64]*models.Comment
	follows  map[followKey]*models.Follow
}

func New() *Store {
	return &Store{
		users:    make(map[int64]*models.User),
		sessions: make(map[string]*models.Session),
		groups:   make(map[int64]*models.Group),
		posts:    make(map[int64]*models.Post),
		comments: make(map[int64]*models.Comment),
		follows:  make(map[followKey]*models.Follow),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// === Users & sessions ===

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, other := range s.users {
		if strings.EqualFold(other.Username, u.Username) {
			return storage.ErrUsernameTaken
		}
		if strings.EqualFold(other.Email, u.Email) {
			return storage.ErrEmailTaken
		}
	}
	u.ID = s.id()
	u.CreatedAt = time.Now().UTC()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *Store) UserByID(ctx context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) CreateSession(ctx context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.CreatedAt = time.Now().UTC()
	cp := *sess
	s.sessions[sess.ID] = &cp
	return nil
}

func (s *Store) SessionByID(ctx context.Context, id string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// === Groups ===

func (s *Store) CreateGroup(ctx context.Context, g *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g.ID = s.id()
	cp := *g
	s.groups[g.ID] = &cp
	return nil
}

func (s *Store) GroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.groups {
		if g.Slug == slug {
			cp := *g
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) Groups(ctx context.Context) ([]models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Group, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

// === Posts ===

func (s *Store) CreatePost(ctx context.Context, p *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.id()
	p.CreatedAt = time.Now().UTC()
	cp := *p
	s.posts[p.ID] = &cp
	return nil
}

func (s *Store) PostByID(ctx context.Context, id int64) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *p
	s.attach(&cp)
	return &cp, nil
}

func (s *Store) UpdatePost(ctx context.Context, p *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.posts[p.ID]
	if !ok {
		return storage.ErrNotFound
	}
	cur.Text = p.Text
	cur.GroupID = p.GroupID
	cur.AuthorID = p.AuthorID
	if p.Image != "" {
		cur.Image = p.Image
	}
	return nil
}

func (s *Store) Posts(ctx context.Context, f storage.PostFilter) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if f.GroupID != 0 && (p.GroupID == nil || *p.GroupID != f.GroupID) {
			continue
		}
		if f.AuthorID != 0 && p.AuthorID != f.AuthorID {
			continue
		}
		if f.FollowedBy != 0 {
			if _, ok := s.follows[followKey{f.FollowedBy, p.AuthorID}]; !ok {
				continue
			}
		}
		cp := *p
		s.attach(&cp)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) CountPostsByAuthor(ctx context.Context, authorID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, p := range s.posts {
		if p.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

// attach fills the read-side Author and Group fields. Callers hold s.mu.
func (s *Store) attach(p *models.Post) {
	if u, ok := s.users[p.AuthorID]; ok {
		p.Author = u.Username
	}
	if p.GroupID != nil {
		if g, ok := s.groups[*p.GroupID]; ok {
			cp := *g
			p.Group = &cp
		}
	}
}

// === Comments ===

func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[c.PostID]; !ok {
		return storage.ErrNotFound
	}
	c.ID = s.id()
	c.CreatedAt = time.Now().UTC()
	cp := *c
	s.comments[c.ID] = &cp
	return nil
}

func (s *Store) CommentsByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Comment
	for _, c := range s.comments {
		if c.PostID != postID {
			continue
		}
		cp := *c
		if u, ok := s.users[c.AuthorID]; ok {
			cp.Author = u.Username
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// === Follows ===

func (s *Store) Follow(ctx context.Context, userID, authorID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := followKey{userID, authorID}
	if _, ok := s.follows[key]; ok {
		return nil
	}
	s.follows[key] = &models.Follow{
		ID:        s.id(),
		UserID:    userID,
		AuthorID:  authorID,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (s *Store) Unfollow(ctx context.Context, userID, authorID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.follows, followKey{userID, authorID})
	return nil
}

func (s *Store) IsFollowing(ctx context.Context, userID, authorID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.follows[followKey{userID, authorID}]
	return ok, nil
}
