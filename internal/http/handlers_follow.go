package httpx

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"yatube/internal/auth"
	"yatube/internal/models"
	"yatube/internal/storage"
)

func (s *Server) loadAuthor(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	author, err := s.Store.UserByUsername(r.Context(), chi.URLParam(r, "username"))
	if errors.Is(err, storage.ErrNotFound) {
		s.handleNotFound(w, r)
		return nil, false
	}
	if err != nil {
		s.serverError(w, r, err)
		return nil, false
	}
	return author, true
}

// handleProfileFollow subscribes the viewer to the author. Self-follow
// is skipped, repeats are no-ops; either way the viewer lands back on
// the profile.
func (s *Server) handleProfileFollow(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())
	author, ok := s.loadAuthor(w, r)
	if !ok {
		return
	}

	if user.ID != author.ID {
		if err := s.Store.Follow(r.Context(), user.ID, author.ID); err != nil {
			s.serverError(w, r, err)
			return
		}
	}
	http.Redirect(w, r, "/profile/"+author.Username+"/", http.StatusFound)
}

func (s *Server) handleProfileUnfollow(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())
	author, ok := s.loadAuthor(w, r)
	if !ok {
		return
	}

	if err := s.Store.Unfollow(r.Context(), user.ID, author.ID); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/profile/"+author.Username+"/", http.StatusFound)
}
