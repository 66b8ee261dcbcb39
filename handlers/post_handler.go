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

// PostHandler serves the admin-only post management routes.
type PostHandler struct {
	base
	posts repositories.PostRepository
}

func NewPostHandler(posts repositories.PostRepository, sessions *auth.SessionManager, renderer *templates.Renderer) *PostHandler {
	return &PostHandler{
		base:  base{sessions: sessions, renderer: renderer},
		posts: posts,
	}
}

func (h *PostHandler) Add(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "add", map[string]any{
			"Form":   &forms.PostForm{},
			"Errors": forms.Errors{},
		})
		return
	}

	form := forms.NewPostForm(r)
	if errs := form.Validate(); !errs.Valid() {
		h.render(w, r, http.StatusOK, "add", map[string]any{
			"Form":   form,
			"Errors": errs,
		})
		return
	}

	user := auth.UserFromContext(r.Context())
	post := models.Post{
		Title:   form.Title,
		ImgURL:  form.ImgURL,
		Content: form.Content,
		UserID:  user.ID,
	}
	if err := h.posts.Create(&post); err != nil {
		logrus.WithError(err).Error("Add post: failed to create")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	monitoring.PostsCreated.Inc()
	logrus.WithFields(logrus.Fields{"post_id": post.ID, "user_id": user.ID}).Info("Post created")
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *PostHandler) Edit(w http.ResponseWriter, r *http.Request) {
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
		logrus.WithError(err).Error("Edit post: failed to load")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "edit", map[string]any{
			"PostID": post.ID,
			"Form":   &forms.PostForm{Title: post.Title, ImgURL: post.ImgURL, Content: post.Content},
			"Errors": forms.Errors{},
		})
		return
	}

	form := forms.NewPostForm(r)
	if errs := form.Validate(); !errs.Valid() {
		h.render(w, r, http.StatusOK, "edit", map[string]any{
			"PostID": post.ID,
			"Form":   form,
			"Errors": errs,
		})
		return
	}

	// Author and creation timestamp stay untouched.
	post.Title = form.Title
	post.ImgURL = form.ImgURL
	post.Content = form.Content
	if err := h.posts.Update(post); err != nil {
		logrus.WithError(err).Error("Edit post: failed to update")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	logrus.WithField("post_id", post.ID).Info("Post updated")
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.posts.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		logrus.WithError(err).Error("Delete post: failed to delete")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	monitoring.PostsDeleted.Inc()
	logrus.WithField("post_id", id).Info("Post deleted")
	http.Redirect(w, r, "/", http.StatusFound)
}
