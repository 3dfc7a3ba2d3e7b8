package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"yatube/internal/auth"
	"yatube/internal/pagination"
	"yatube/internal/storage"
	"yatube/internal/web"
)

// handleIndex renders the home timeline. Anonymous responses are served
// from the page cache within the TTL window, so the output stays
// byte-identical there even if posts changed underneath. Authenticated
// views are never cached: the layout renders the viewer's name.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	number := pagination.ParseNumber(r.URL.Query().Get("page"))
	_, authed := auth.UserFrom(r.Context())
	key := fmt.Sprintf("home:%d", number)

	if !authed {
		if body, ok := s.Cache.Get(key); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write(body)
			return
		}
	}

	posts, err := s.Store.Posts(r.Context(), storage.PostFilter{})
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	data := s.pageData(r)
	data.Title = "Это главная страница проекта Yatube"
	data.Page = pagination.Paginate(posts, number)

	var buf bytes.Buffer
	if err := web.Render(&buf, "index.html", data); err != nil {
		s.serverError(w, r, err)
		return
	}
	if !authed {
		s.Cache.Set(key, buf.Bytes())
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.Store.GroupBySlug(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, storage.ErrNotFound) {
		s.handleNotFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	posts, err := s.Store.Posts(r.Context(), storage.PostFilter{GroupID: group.ID})
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	data := s.pageData(r)
	data.Title = "Записи сообщества " + group.Title
	data.Group = group
	data.Page = pagination.Paginate(posts, pagination.ParseNumber(r.URL.Query().Get("page")))
	s.render(w, http.StatusOK, "group_list.html", data)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	author, err := s.Store.UserByUsername(r.Context(), username)
	if errors.Is(err, storage.ErrNotFound) {
		s.handleNotFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	posts, err := s.Store.Posts(r.Context(), storage.PostFilter{AuthorID: author.ID})
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	data := s.pageData(r)
	data.Title = "Профайл пользователя " + username
	data.Author = author
	data.PostCount = len(posts)
	data.Page = pagination.Paginate(posts, pagination.ParseNumber(r.URL.Query().Get("page")))

	if viewer, ok := auth.UserFrom(r.Context()); ok {
		following, err := s.Store.IsFollowing(r.Context(), viewer.ID, author.ID)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		data.Following = following
	}
	s.render(w, http.StatusOK, "profile.html", data)
}

func (s *Server) handleFollowIndex(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())

	posts, err := s.Store.Posts(r.Context(), storage.PostFilter{FollowedBy: user.ID})
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	data := s.pageData(r)
	data.Title = "Избранные авторы"
	data.Page = pagination.Paginate(posts, pagination.ParseNumber(r.URL.Query().Get("page")))
	s.render(w, http.StatusOK, "follow.html", data)
}
