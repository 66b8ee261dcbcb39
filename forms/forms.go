// Package forms defines the input schemas validated before any persistence
// change: new post, new comment, registration and login.
package forms

import (
	"net/http"
	"net/mail"
	"net/url"
	"strings"
)

const (
	PasswordMinLen = 8
	PasswordMaxLen = 32
)

// Errors maps a field name to its validation message. An empty map means
// the form is valid.
type Errors map[string]string

func (e Errors) Valid() bool { return len(e) == 0 }

// PostForm backs both the add and the edit page.
type PostForm struct {
	Title   string
	ImgURL  string
	Content string
}

func NewPostForm(r *http.Request) *PostForm {
	return &PostForm{
		Title:   strings.TrimSpace(r.PostFormValue("title")),
		ImgURL:  strings.TrimSpace(r.PostFormValue("img_url")),
		Content: r.PostFormValue("content"),
	}
}

func (f *PostForm) Validate() Errors {
	errs := Errors{}
	if f.Title == "" {
		errs["title"] = "You have to enter a title"
	}
	if f.ImgURL == "" {
		errs["img_url"] = "You have to enter an image link"
	} else if !validURL(f.ImgURL) {
		errs["img_url"] = "You have to enter a valid image URL"
	}
	if strings.TrimSpace(f.Content) == "" {
		errs["content"] = "You have to enter some content"
	}
	return errs
}

type CommentForm struct {
	Content string
}

func NewCommentForm(r *http.Request) *CommentForm {
	return &CommentForm{Content: r.PostFormValue("content")}
}

func (f *CommentForm) Validate() Errors {
	errs := Errors{}
	if strings.TrimSpace(f.Content) == "" {
		errs["content"] = "You have to enter a comment"
	}
	return errs
}

type RegisterForm struct {
	Username string
	Email    string
	Password string
}

func NewRegisterForm(r *http.Request) *RegisterForm {
	return &RegisterForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
}

func (f *RegisterForm) Validate() Errors {
	errs := Errors{}
	if f.Username == "" {
		errs["username"] = "You have to enter a username"
	}
	validateEmail(errs, f.Email)
	validatePassword(errs, f.Password)
	return errs
}

type LoginForm struct {
	Email    string
	Password string
}

func NewLoginForm(r *http.Request) *LoginForm {
	return &LoginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
}

func (f *LoginForm) Validate() Errors {
	errs := Errors{}
	validateEmail(errs, f.Email)
	validatePassword(errs, f.Password)
	return errs
}

func validateEmail(errs Errors, email string) {
	if email == "" {
		errs["email"] = "You have to enter an email address"
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = "You have to enter a valid email address"
	}
}

func validatePassword(errs Errors, password string) {
	if password == "" {
		errs["password"] = "You have to enter a password"
	} else if len(password) < PasswordMinLen || len(password) > PasswordMaxLen {
		errs["password"] = "The password must be between 8 and 32 characters"
	}
}

// validURL accepts absolute http(s) URLs only.
func validURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
