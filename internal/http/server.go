package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"yatube/internal/app"
	"yatube/internal/auth"
	"yatube/internal/cache"
	"yatube/internal/forms"
	"yatube/internal/media"
	"yatube/internal/models"
	"yatube/internal/pagination"
	"yatube/internal/storage"
	"yatube/internal/util"
	"yatube/internal/web"
)

type Server struct {
	Store storage.Storage
	Cfg   app.Config
	Cache *cache.Pages
	Media *media.Storage
	Mux   *chi.Mux
}

// NewServer wires the route table. Cache and media may be nil: a nil
// cache disables home-timeline caching, a nil media storage rejects
// image uploads (both are how tests run the server).
func NewServer(st storage.Storage, cfg app.Config, pages *cache.Pages, m *media.Storage) *Server {
	s := &Server{Store: st, Cfg: cfg, Cache: pages, Media: m}

	r := chi.NewRouter()
	r.Use(WithAccessLog)
	r.Use(s.recoverPanic)
	r.Use(s.checkOrigin)
	r.Use(s.withSession)
	r.NotFound(s.handleNotFound)

	if m != nil {
		fs := http.FileServer(http.Dir(m.Dir()))
		r.Handle("/media/*", http.StripPrefix("/media/", s.noListing(fs)))
	}
	static := http.FileServer(http.Dir("web/static"))
	r.Handle("/static/*", http.StripPrefix("/static/", static))

	r.Get("/", s.handleIndex)
	r.Get("/group/{slug}/", s.handleGroup)
	r.Get("/profile/{username}/", s.handleProfile)
	r.Get("/posts/{postID}/", s.handlePostDetail)
	r.Get("/about/author/", s.handleAboutAuthor)
	r.Get("/about/tech/", s.handleAboutTech)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/create/", s.handlePostCreate)
		r.Post("/create/", s.handlePostCreate)
		r.Get("/posts/{postID}/edit/", s.handlePostEdit)
		r.Post("/posts/{postID}/edit/", s.handlePostEdit)
		r.Post("/posts/{postID}/comment/", s.handleAddComment)
		r.Get("/follow/", s.handleFollowIndex)
		r.Get("/profile/{username}/follow/", s.handleProfileFollow)
		r.Get("/profile/{username}/unfollow/", s.handleProfileUnfollow)
	})

	r.Get("/auth/signup/", s.handleSignup)
	r.Post("/auth/signup/", s.handleSignup)
	r.Get("/auth/login/", s.handleLogin)
	r.Post("/auth/login/", s.handleLogin)
	r.Get("/auth/logout/", s.handleLogout)
	r.Get("/auth/password_reset/", s.handlePasswordReset)
	r.Post("/auth/password_reset/", s.handlePasswordReset)
	r.Get("/auth/password_reset/done/", s.handlePasswordResetDone)

	s.Mux = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.Mux.ServeHTTP(w, r) }

// pageData is the single context shape handed to every template.
type pageData struct {
	Title     string
	User      *models.User
	Page      pagination.Page[models.Post]
	Group     *models.Group
	Author    *models.User
	PostCount int
	Following bool
	Post      *models.Post
	Comments  []models.Comment
	Groups    []models.Group
	IsEdit    bool
	Next      string
	Path      string

	FormText     string
	FormGroupID  int64
	FormUsername string
	FormEmail    string
	FormErrors   forms.Errors
	LoginError   string
}

func (s *Server) pageData(r *http.Request) *pageData {
	d := &pageData{}
	if u, ok := auth.UserFrom(r.Context()); ok {
		d.User = u
	}
	return d
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data *pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := web.Render(w, name, data); err != nil {
		util.Logger.Error("render failed", zap.String("template", name), zap.Error(err))
	}
}
