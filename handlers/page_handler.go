package handlers

import (
	"errors"
	"net/http"

	"goblog/auth"
	"goblog/forms"
	"goblog/models"
	"goblog/monitoring"
	"goblog/repositories"
	"goblog/templates"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PageHandler serves the public read routes and comment submission.
type PageHandler struct {
	base
	posts    repositories.PostRepository
	comments repositories.CommentRepository
}

func NewPageHandler(posts repositories.PostRepository, comments repositories.CommentRepository, sessions *auth.SessionManager, renderer *templates.Renderer) *PageHandler {
	return &PageHandler{
		base:     base{sessions: sessions, renderer: renderer},
		posts:    posts,
		comments: comments,
	}
}

func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.FindAll()
	if err != nil {
		logrus.WithError(err).Error("Home: failed to list posts")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.render(w, r, http.StatusOK, "index", map[string]any{"Posts": posts})
}

func (h *PageHandler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "about", nil)
}

func (h *PageHandler) Contact(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "contact", nil)
}

// ShowPost renders a post with its comments; on POST it appends a comment
// from the logged-in user and reloads the page.
func (h *PageHandler) ShowPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	post, err := h.posts.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		logrus.WithError(err).Error("ShowPost: failed to load post")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "post", map[string]any{
			"Post":   post,
			"Form":   &forms.CommentForm{},
			"Errors": forms.Errors{},
		})
		return
	}

	user := auth.UserFromContext(r.Context())
	if user == nil {
		h.sessions.Flash(w, r, "You have to be logged in to comment.")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	form := forms.NewCommentForm(r)
	if errs := form.Validate(); !errs.Valid() {
		h.render(w, r, http.StatusOK, "post", map[string]any{
			"Post":   post,
			"Form":   form,
			"Errors": errs,
		})
		return
	}

	comment := models.Comment{
		Content: form.Content,
		UserID:  user.ID,
		PostID:  post.ID,
	}
	if err := h.comments.Create(&comment); err != nil {
		logrus.WithError(err).Error("ShowPost: failed to create comment")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	monitoring.CommentsPosted.Inc()
	logrus.WithFields(logrus.Fields{"post_id": post.ID, "user_id": user.ID}).Info("Comment posted")
	http.Redirect(w, r, r.URL.Path, http.StatusFound)
}
