package httpx

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"yatube/internal/auth"
	"yatube/internal/forms"
	"yatube/internal/storage"
)

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	data := s.pageData(r)
	data.Title = "Регистрация"
	data.FormErrors = forms.Errors{}

	if r.Method == http.MethodGet {
		s.render(w, http.StatusOK, "signup.html", data)
		return
	}

	form := forms.SignupForm{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
	errs := form.Validate()
	if errs.Ok() {
		_, err := auth.Register(r.Context(), s.Store, form.Username, form.Email, form.Password)
		switch {
		case errors.Is(err, storage.ErrUsernameTaken):
			errs["Username"] = "Имя пользователя уже занято."
		case errors.Is(err, storage.ErrEmailTaken):
			errs["Email"] = "Этот e-mail уже зарегистрирован."
		case err != nil:
			s.serverError(w, r, err)
			return
		default:
			http.Redirect(w, r, "/auth/login/", http.StatusFound)
			return
		}
	}

	data.FormUsername = form.Username
	data.FormEmail = form.Email
	data.FormErrors = errs
	s.render(w, http.StatusOK, "signup.html", data)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	data := s.pageData(r)
	data.Title = "Войти"

	if r.Method == http.MethodGet {
		data.Next = r.URL.Query().Get("next")
		s.render(w, http.StatusOK, "login.html", data)
		return
	}

	login := strings.TrimSpace(r.FormValue("login"))
	next := r.FormValue("next")

	sid, _, err := auth.Login(r.Context(), s.Store, login, r.FormValue("password"), s.Cfg.SessionLifetime)
	if errors.Is(err, auth.ErrInvalidLogin) {
		data.Next = next
		data.FormUsername = login
		data.LoginError = "Неверное имя пользователя или пароль."
		s.render(w, http.StatusOK, "login.html", data)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(s.Cfg.SessionLifetime),
	})
	http.Redirect(w, r, safeNext(next), http.StatusFound)
}

// safeNext keeps the post-login redirect on this site.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/"
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(CookieName); err == nil {
		_ = auth.Logout(r.Context(), s.Store, c.Value)
		c.Value = ""
		c.Path = "/"
		c.MaxAge = -1
		http.SetCookie(w, c)
	}

	data := s.pageData(r)
	data.User = nil
	data.Title = "Вы вышли"
	s.render(w, http.StatusOK, "logged_out.html", data)
}

// handlePasswordReset never reveals whether the email exists; the actual
// reset email is outside this service.
func (s *Server) handlePasswordReset(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		data := s.pageData(r)
		data.Title = "Сброс пароля"
		s.render(w, http.StatusOK, "password_reset_form.html", data)
		return
	}
	_ = strings.TrimSpace(r.FormValue("email"))
	http.Redirect(w, r, "/auth/password_reset/done/", http.StatusFound)
}

func (s *Server) handlePasswordResetDone(w http.ResponseWriter, r *http.Request) {
	data := s.pageData(r)
	data.Title = "Письмо отправлено"
	s.render(w, http.StatusOK, "password_reset_done.html", data)
}
