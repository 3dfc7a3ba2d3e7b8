package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostForm(t *testing.T) {
	f := PostForm{Text: "Тестовый пост"}
	assert.True(t, f.Validate().Ok())

	empty := PostForm{}
	errs := empty.Validate()
	assert.False(t, errs.Ok())
	assert.Contains(t, errs, "Text")

	blank := PostForm{Text: "   \n\t"}
	assert.False(t, blank.Validate().Ok())
}

func TestCommentForm(t *testing.T) {
	assert.True(t, (&CommentForm{Text: "ok"}).Validate().Ok())
	assert.False(t, (&CommentForm{Text: " "}).Validate().Ok())
}

func TestSignupForm(t *testing.T) {
	good := SignupForm{Username: "leo", Email: "leo@example.com", Password: "secret1"}
	assert.True(t, good.Validate().Ok())

	bad := SignupForm{Username: "", Email: "not-an-email", Password: "123"}
	errs := bad.Validate()
	assert.Contains(t, errs, "Username")
	assert.Contains(t, errs, "Email")
	assert.Contains(t, errs, "Password")
}

func TestSignupForm_NormalizesEmail(t *testing.T) {
	f := SignupForm{Username: "leo", Email: "  Leo@Example.COM ", Password: "secret1"}
	assert.True(t, f.Validate().Ok())
	assert.Equal(t, "leo@example.com", f.Email)
}
