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
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler serves register, login and logout.
type AuthHandler struct {
	base
	users repositories.UserRepository
}

func NewAuthHandler(users repositories.UserRepository, sessions *auth.SessionManager, renderer *templates.Renderer) *AuthHandler {
	return &AuthHandler{
		base:  base{sessions: sessions, renderer: renderer},
		users: users,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "register", map[string]any{
			"Form":   &forms.RegisterForm{},
			"Errors": forms.Errors{},
		})
		return
	}

	form := forms.NewRegisterForm(r)
	if errs := form.Validate(); !errs.Valid() {
		h.render(w, r, http.StatusOK, "register", map[string]any{
			"Form":   form,
			"Errors": errs,
		})
		return
	}

	if _, err := h.users.FindByEmail(form.Email); err == nil {
		h.sessions.Flash(w, r, "You've already signed up with that email, log in instead!")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logrus.WithError(err).Error("Register: database error looking up email")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if _, err := h.users.FindByUsername(form.Username); err == nil {
		h.sessions.Flash(w, r, "Username not available!")
		http.Redirect(w, r, "/register", http.StatusFound)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logrus.WithError(err).Error("Register: database error looking up username")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Register: failed to hash password")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// The first account ever registered becomes the admin.
	count, err := h.users.Count()
	if err != nil {
		logrus.WithError(err).Error("Register: failed to count users")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	user := models.User{
		Username: form.Username,
		Email:    form.Email,
		Password: string(hashed),
		IsAdmin:  count == 0,
	}
	if err := h.users.Create(&user); err != nil {
		logrus.WithError(err).Error("Register: failed to create user")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.sessions.Login(w, r, user.ID); err != nil {
		logrus.WithError(err).Error("Register: failed to establish session")
	}
	monitoring.RegisterSuccess.Inc()
	logrus.WithField("user_id", user.ID).Info("User registered")
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "login", map[string]any{
			"Form":   &forms.LoginForm{},
			"Errors": forms.Errors{},
		})
		return
	}

	form := forms.NewLoginForm(r)
	if errs := form.Validate(); !errs.Valid() {
		h.render(w, r, http.StatusOK, "login", map[string]any{
			"Form":   form,
			"Errors": errs,
		})
		return
	}

	user, err := h.users.FindByEmail(form.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithError(err).Error("Login: database error looking up email")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		monitoring.LoginFailure.WithLabelValues("unknown_email").Inc()
		h.sessions.Flash(w, r, "That email does not exist, please try again.")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(form.Password)) != nil {
		monitoring.LoginFailure.WithLabelValues("wrong_password").Inc()
		h.sessions.Flash(w, r, "Password incorrect, please try again.")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if err := h.sessions.Login(w, r, user.ID); err != nil {
		logrus.WithError(err).Error("Login: failed to establish session")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	monitoring.LoginSuccess.Inc()
	logrus.WithField("user_id", user.ID).Info("User logged in")
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		logrus.WithError(err).Warn("Logout: failed to clear session")
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
