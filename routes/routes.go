package routes

import (
	"net/http"

	"goblog/auth"
	"goblog/handlers"
	"goblog/monitoring"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes initializes all the application routes.
// The routing logic is isolated here.
func SetupRoutes(pages *handlers.PageHandler, posts *handlers.PostHandler, users *handlers.AuthHandler, sessions *auth.SessionManager) http.Handler {
	router := mux.NewRouter()
	router.Use(sessions.LoadUser)

	// Public routes
	router.HandleFunc("/", pages.Home).Methods("GET")
	router.HandleFunc("/about", pages.About).Methods("GET")
	router.HandleFunc("/contact", pages.Contact).Methods("GET")
	router.HandleFunc("/posts/{id:[0-9]+}", pages.ShowPost).Methods("GET", "POST")

	// Admin-only post management
	router.Handle("/add", sessions.RequireAdmin(http.HandlerFunc(posts.Add))).Methods("GET", "POST")
	router.Handle("/edit/{id:[0-9]+}", sessions.RequireAdmin(http.HandlerFunc(posts.Edit))).Methods("GET", "POST")
	router.Handle("/delete/{id:[0-9]+}", sessions.RequireAdmin(http.HandlerFunc(posts.Delete))).Methods("GET")

	// Session routes
	router.HandleFunc("/register", users.Register).Methods("GET", "POST")
	router.HandleFunc("/login", users.Login).Methods("GET", "POST")
	router.HandleFunc("/logout", users.Logout).Methods("GET")

	// Add metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return monitoring.InstrumentHandler(router)
}
