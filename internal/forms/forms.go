// Package forms validates user-submitted data. Each entity has its own
// form type whose Validate returns a field -> message map; an empty map
// means the submission is good. Handlers re-render the form template
// with the map on failure, nothing is persisted in that case.
package forms

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Errors maps a form field name to a human-readable message.
type Errors map[string]string

func (e Errors) Ok() bool { return len(e) == 0 }

type PostForm struct {
	Text    string `validate:"required"`
	GroupID *int64
}

func (f *PostForm) Validate() Errors {
	f.Text = strings.TrimSpace(f.Text)
	return check(f, map[string]string{
		"Text": "Обязательное поле.",
	})
}

type CommentForm struct {
	Text string `validate:"required"`
}

func (f *CommentForm) Validate() Errors {
	f.Text = strings.TrimSpace(f.Text)
	return check(f, map[string]string{
		"Text": "Обязательное поле.",
	})
}

type SignupForm struct {
	Username string `validate:"required,max=150"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

func (f *SignupForm) Validate() Errors {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(strings.ToLower(f.Email))
	return check(f, map[string]string{
		"Username": "Укажите имя пользователя (до 150 символов).",
		"Email":    "Укажите корректный e-mail.",
		"Password": "Пароль должен быть не короче 6 символов.",
	})
}

func check(form any, messages map[string]string) Errors {
	errs := Errors{}
	err := validate.Struct(form)
	if err == nil {
		return errs
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs["__all__"] = "Некорректные данные формы."
		return errs
	}
	for _, fe := range fieldErrs {
		msg, ok := messages[fe.Field()]
		if !ok {
			msg = "Некорректное значение."
		}
		errs[fe.Field()] = msg
	}
	return errs
}
