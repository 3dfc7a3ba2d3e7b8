package httpx

import (
	"net/http"

	"go.uber.org/zap"

	"yatube/internal/util"
)

func (s *Server) handleAboutAuthor(w http.ResponseWriter, r *http.Request) {
	data := s.pageData(r)
	data.Title = "Об авторе проекта"
	s.render(w, http.StatusOK, "about_author.html", data)
}

func (s *Server) handleAboutTech(w http.ResponseWriter, r *http.Request) {
	data := s.pageData(r)
	data.Title = "Технологии"
	s.render(w, http.StatusOK, "about_tech.html", data)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	data := s.pageData(r)
	data.Title = "Страница не найдена"
	data.Path = r.URL.Path
	s.render(w, http.StatusNotFound, "404.html", data)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	util.Logger.Error("handler failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	s.serverErrorPage(w, r)
}

func (s *Server) serverErrorPage(w http.ResponseWriter, r *http.Request) {
	data := s.pageData(r)
	data.Title = "Ошибка сервера"
	s.render(w, http.StatusInternalServerError, "500.html", data)
}

func (s *Server) forbidden(w http.ResponseWriter, r *http.Request) {
	data := s.pageData(r)
	data.Title = "Доступ запрещён"
	s.render(w, http.StatusForbidden, "403.html", data)
}

func (s *Server) csrfFailure(w http.ResponseWriter, r *http.Request) {
	data := s.pageData(r)
	data.Title = "Ошибка проверки запроса"
	s.render(w, http.StatusForbidden, "403csrf.html", data)
}
