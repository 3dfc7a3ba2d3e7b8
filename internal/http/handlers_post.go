package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"yatube/internal/auth"
	"yatube/internal/forms"
	"yatube/internal/media"
	"yatube/internal/models"
	"yatube/internal/storage"
)

// titleSlice is how many runes of the post text go into the detail title.
const titleSlice = 30

const maxUploadBytes = 20 << 20

func postID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	return id
}

func (s *Server) loadPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	post, err := s.Store.PostByID(r.Context(), postID(r))
	if errors.Is(err, storage.ErrNotFound) {
		s.handleNotFound(w, r)
		return nil, false
	}
	if err != nil {
		s.serverError(w, r, err)
		return nil, false
	}
	return post, true
}

func (s *Server) handlePostDetail(w http.ResponseWriter, r *http.Request) {
	post, ok := s.loadPost(w, r)
	if !ok {
		return
	}

	count, err := s.Store.CountPostsByAuthor(r.Context(), post.AuthorID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	comments, err := s.Store.CommentsByPost(r.Context(), post.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	data := s.pageData(r)
	data.Title = "Пост " + truncate(post.Text, titleSlice)
	data.Post = post
	data.PostCount = count
	data.Comments = comments
	data.FormErrors = forms.Errors{}
	s.render(w, http.StatusOK, "post_detail.html", data)
}

// postForm parses the submitted post fields and the optional image
// upload. The returned image path is empty when nothing was uploaded.
func (s *Server) postForm(r *http.Request) (forms.PostForm, string, forms.Errors, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return forms.PostForm{}, "", forms.Errors{"Text": "Не удалось прочитать форму."}, nil
	}

	form := forms.PostForm{Text: r.FormValue("text")}
	if raw := r.FormValue("group"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			form.GroupID = &id
		}
	}
	errs := form.Validate()

	var imagePath string
	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		if s.Media == nil {
			errs["Image"] = "Загрузка картинок недоступна."
			break
		}
		imagePath, err = s.Media.SavePostImage(file, header)
		if errors.Is(err, media.ErrBadImage) {
			errs["Image"] = "Загрузите корректное изображение."
		} else if err != nil {
			return form, "", errs, err
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// no image attached
	default:
		errs["Image"] = "Не удалось прочитать файл."
	}
	return form, imagePath, errs, nil
}

func (s *Server) handlePostCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())

	groups, err := s.Store.Groups(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	data := s.pageData(r)
	data.Title = "Новый пост"
	data.Groups = groups
	data.FormErrors = forms.Errors{}

	if r.Method == http.MethodGet {
		s.render(w, http.StatusOK, "create_post.html", data)
		return
	}

	form, imagePath, errs, err := s.postForm(r)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if !errs.Ok() {
		data.FormText = form.Text
		if form.GroupID != nil {
			data.FormGroupID = *form.GroupID
		}
		data.FormErrors = errs
		s.render(w, http.StatusOK, "create_post.html", data)
		return
	}

	post := &models.Post{
		AuthorID: user.ID,
		GroupID:  form.GroupID,
		Text:     form.Text,
		Image:    imagePath,
	}
	if err := s.Store.CreatePost(r.Context(), post); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/profile/"+user.Username+"/", http.StatusFound)
}

func (s *Server) handlePostEdit(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())
	post, ok := s.loadPost(w, r)
	if !ok {
		return
	}

	// Non-authors are bounced to the detail view without an error page.
	if user.ID != post.AuthorID {
		http.Redirect(w, r, postURL(post.ID), http.StatusFound)
		return
	}

	groups, err := s.Store.Groups(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	data := s.pageData(r)
	data.Title = "Редактировать пост"
	data.IsEdit = true
	data.Post = post
	data.Groups = groups
	data.FormErrors = forms.Errors{}

	if r.Method == http.MethodGet {
		data.FormText = post.Text
		if post.GroupID != nil {
			data.FormGroupID = *post.GroupID
		}
		s.render(w, http.StatusOK, "create_post.html", data)
		return
	}

	form, imagePath, errs, err := s.postForm(r)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if !errs.Ok() {
		data.FormText = form.Text
		if form.GroupID != nil {
			data.FormGroupID = *form.GroupID
		}
		data.FormErrors = errs
		s.render(w, http.StatusOK, "create_post.html", data)
		return
	}

	post.Text = form.Text
	post.GroupID = form.GroupID
	post.AuthorID = user.ID
	post.Image = imagePath // store keeps the old image when empty
	if err := s.Store.UpdatePost(r.Context(), post); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, postURL(post.ID), http.StatusFound)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())
	post, ok := s.loadPost(w, r)
	if !ok {
		return
	}

	form := forms.CommentForm{Text: r.FormValue("text")}
	if form.Validate().Ok() {
		comment := &models.Comment{
			PostID:   post.ID,
			AuthorID: user.ID,
			Text:     form.Text,
		}
		if err := s.Store.CreateComment(r.Context(), comment); err != nil {
			s.serverError(w, r, err)
			return
		}
	}
	// valid or not, back to the detail view
	http.Redirect(w, r, postURL(post.ID), http.StatusFound)
}

func postURL(id int64) string {
	return "/posts/" + strconv.FormatInt(id, 10) + "/"
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
