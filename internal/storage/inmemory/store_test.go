package inmemory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/internal/models"
	"yatube/internal/storage"
)

func newTestStore(t *testing.T) (*Store, *models.User) {
	t.Helper()
	st := New()
	u := &models.User{Username: "leo", Email: "leo@example.com", PasswordHash: "x"}
	require.NoError(t, st.CreateUser(context.Background(), u))
	return st, u
}

func TestStore_UserUniqueness(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	err := st.CreateUser(ctx, &models.User{Username: "leo", Email: "other@example.com"})
	assert.ErrorIs(t, err, storage.ErrUsernameTaken)

	err = st.CreateUser(ctx, &models.User{Username: "other", Email: "Leo@example.com"})
	assert.ErrorIs(t, err, storage.ErrEmailTaken)

	_, err = st.UserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_PostFilters(t *testing.T) {
	st, leo := newTestStore(t)
	ctx := context.Background()

	mia := &models.User{Username: "mia", Email: "mia@example.com"}
	require.NoError(t, st.CreateUser(ctx, mia))

	g := &models.Group{Title: "Коты", Slug: "cats"}
	require.NoError(t, st.CreateGroup(ctx, g))

	grouped := &models.Post{AuthorID: leo.ID, GroupID: &g.ID, Text: "в группе"}
	require.NoError(t, st.CreatePost(ctx, grouped))
	loose := &models.Post{AuthorID: mia.ID, Text: "без группы"}
	require.NoError(t, st.CreatePost(ctx, loose))

	all, err := st.Posts(ctx, storage.PostFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	// newest first
	assert.Equal(t, loose.ID, all[0].ID)

	byGroup, err := st.Posts(ctx, storage.PostFilter{GroupID: g.ID})
	require.NoError(t, err)
	require.Len(t, byGroup, 1)
	assert.Equal(t, grouped.ID, byGroup[0].ID)
	require.NotNil(t, byGroup[0].Group)
	assert.Equal(t, "cats", byGroup[0].Group.Slug)

	byAuthor, err := st.Posts(ctx, storage.PostFilter{AuthorID: mia.ID})
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "mia", byAuthor[0].Author)

	n, err := st.CountPostsByAuthor(ctx, leo.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_UpdatePostKeepsCreatedAndImage(t *testing.T) {
	st, leo := newTestStore(t)
	ctx := context.Background()

	p := &models.Post{AuthorID: leo.ID, Text: "старый текст", Image: "posts/a.png"}
	require.NoError(t, st.CreatePost(ctx, p))
	created := p.CreatedAt

	upd := *p
	upd.Text = "новый текст"
	upd.Image = ""
	require.NoError(t, st.UpdatePost(ctx, &upd))

	got, err := st.PostByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "новый текст", got.Text)
	assert.Equal(t, "posts/a.png", got.Image)
	assert.Equal(t, created, got.CreatedAt)

	assert.ErrorIs(t, st.UpdatePost(ctx, &models.Post{ID: 999}), storage.ErrNotFound)
}

func TestStore_CommentsNewestFirst(t *testing.T) {
	st, leo := newTestStore(t)
	ctx := context.Background()

	p := &models.Post{AuthorID: leo.ID, Text: "пост"}
	require.NoError(t, st.CreatePost(ctx, p))

	first := &models.Comment{PostID: p.ID, AuthorID: leo.ID, Text: "первый"}
	require.NoError(t, st.CreateComment(ctx, first))
	second := &models.Comment{PostID: p.ID, AuthorID: leo.ID, Text: "второй"}
	require.NoError(t, st.CreateComment(ctx, second))

	comments, err := st.CommentsByPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "второй", comments[0].Text)
	assert.Equal(t, "leo", comments[0].Author)

	err = st.CreateComment(ctx, &models.Comment{PostID: 999, AuthorID: leo.ID, Text: "x"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_FollowIdempotent(t *testing.T) {
	st, leo := newTestStore(t)
	ctx := context.Background()

	mia := &models.User{Username: "mia", Email: "mia@example.com"}
	require.NoError(t, st.CreateUser(ctx, mia))

	require.NoError(t, st.Follow(ctx, leo.ID, mia.ID))
	require.NoError(t, st.Follow(ctx, leo.ID, mia.ID))

	following, err := st.IsFollowing(ctx, leo.ID, mia.ID)
	require.NoError(t, err)
	assert.True(t, following)
	assert.Len(t, st.follows, 1)

	require.NoError(t, st.Unfollow(ctx, leo.ID, mia.ID))
	require.NoError(t, st.Unfollow(ctx, leo.ID, mia.ID))

	following, err = st.IsFollowing(ctx, leo.ID, mia.ID)
	require.NoError(t, err)
	assert.False(t, following)
	assert.Empty(t, st.follows)
}

func TestStore_FollowFeedFilter(t *testing.T) {
	st, leo := newTestStore(t)
	ctx := context.Background()

	author := &models.User{Username: "author", Email: "author@example.com"}
	require.NoError(t, st.CreateUser(ctx, author))
	stranger := &models.User{Username: "stranger", Email: "stranger@example.com"}
	require.NoError(t, st.CreateUser(ctx, stranger))

	require.NoError(t, st.Follow(ctx, leo.ID, author.ID))
	require.NoError(t, st.CreatePost(ctx, &models.Post{AuthorID: author.ID, Text: "Тестовый пост"}))

	feed, err := st.Posts(ctx, storage.PostFilter{FollowedBy: leo.ID})
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "Тестовый пост", feed[0].Text)

	other, err := st.Posts(ctx, storage.PostFilter{FollowedBy: stranger.ID})
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestStore_Sessions(t *testing.T) {
	st, leo := newTestStore(t)
	ctx := context.Background()

	sess := &models.Session{ID: "sid-1", UserID: leo.ID}
	require.NoError(t, st.CreateSession(ctx, sess))

	got, err := st.SessionByID(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, leo.ID, got.UserID)

	require.NoError(t, st.DeleteSession(ctx, "sid-1"))
	_, err = st.SessionByID(ctx, "sid-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
