// Package handlers contains the HTTP route bodies. Each handler struct gets
// its repositories, the session manager and the renderer injected.
package handlers

import (
	"net/http"
	"strconv"

	"goblog/auth"
	"goblog/templates"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type base struct {
	sessions *auth.SessionManager
	renderer *templates.Renderer
}

// render injects the request-scoped user and pending flash messages into
// every view before executing the template.
func (b *base) render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["CurrentUser"] = auth.UserFromContext(r.Context())
	data["Flashes"] = b.sessions.Flashes(w, r)
	if err := b.renderer.Render(w, status, name, data); err != nil {
		logrus.WithError(err).WithField("template", name).Error("Template rendering failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// pathID parses the {id} route variable.
func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
