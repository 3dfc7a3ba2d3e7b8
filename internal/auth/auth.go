package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"yatube/internal/models"
	"yatube/internal/storage"
)

var (
	ErrInvalidLogin = errors.New("invalid username or password")
	ErrNoSession    = errors.New("session not found")
)

// ----------------------------
// Context helpers (for middleware and handlers)
// ----------------------------

type ctxKeyUser struct{}

func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxKeyUser{}, u)
}

func UserFrom(ctx context.Context) (*models.User, bool) {
	u, _ := ctx.Value(ctxKeyUser{}).(*models.User)
	return u, u != nil
}

// ----------------------------
// Register
// ----------------------------

// Register hashes the password and creates the user. Uniqueness of
// username and email is the store's job (storage.ErrUsernameTaken,
// storage.ErrEmailTaken).
func Register(ctx context.Context, st storage.Storage, username, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := st.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ----------------------------
// Login (creates a session with a UUID id and an expiry)
// ----------------------------

// Login accepts a username or an email in the login field.
func Login(ctx context.Context, st storage.Storage, login, password string, lifetime time.Duration) (string, *models.User, error) {
	u, err := st.UserByUsername(ctx, login)
	if errors.Is(err, storage.ErrNotFound) {
		u, err = st.UserByEmail(ctx, login)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil, ErrInvalidLogin
	}
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidLogin
	}

	sess := &models.Session{
		ID:        uuid.New().String(),
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(lifetime),
	}
	if err := st.CreateSession(ctx, sess); err != nil {
		return "", nil, err
	}
	return sess.ID, u, nil
}

func Logout(ctx context.Context, st storage.Storage, sid string) error {
	return st.DeleteSession(ctx, sid)
}

// UserFromSession resolves a session cookie value to its user. Expired or
// unknown sessions yield ErrNoSession.
func UserFromSession(ctx context.Context, st storage.Storage, sid string) (*models.User, error) {
	sess, err := st.SessionByID(ctx, sid)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	if sess.ExpiresAt.Before(time.Now()) {
		_ = st.DeleteSession(ctx, sid)
		return nil, ErrNoSession
	}
	return st.UserByID(ctx, sess.UserID)
}
