package main

import (
	"log"
	"net/http"
	"os"

	"goblog/auth"
	"goblog/database"
	"goblog/handlers"
	"goblog/logger"
	"goblog/repositories"
	"goblog/routes"
	"goblog/templates"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables.")
	}
	logger.InitLogger()

	db, err := database.Connect(os.Getenv("DATABASE_URL"))
	if err != nil {
		logrus.Fatal("Failed to connect to database: ", err)
	}
	if err := database.Migrate(db); err != nil {
		logrus.Fatal("Failed to migrate database: ", err)
	}

	renderer, err := templates.NewRenderer()
	if err != nil {
		logrus.Fatal("Failed to load templates: ", err)
	}

	userRepo := repositories.NewUserRepository(db)
	postRepo := repositories.NewPostRepository(db)
	commentRepo := repositories.NewCommentRepository(db)

	sessions := auth.NewSessionManager(os.Getenv("SECRET_KEY"), userRepo)

	pageHandler := handlers.NewPageHandler(postRepo, commentRepo, sessions, renderer)
	postHandler := handlers.NewPostHandler(postRepo, sessions, renderer)
	authHandler := handlers.NewAuthHandler(userRepo, sessions, renderer)

	r := routes.SetupRoutes(pageHandler, postHandler, authHandler, sessions)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	logrus.Info("Server starting on port ", port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}
