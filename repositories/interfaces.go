package repositories

import "goblog/models"

type UserRepository interface {
	Create(user *models.User) error
	FindByID(id uint) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	Count() (int64, error)
}

type PostRepository interface {
	Create(post *models.Post) error
	Update(post *models.Post) error
	Delete(id uint) error
	FindByID(id uint) (*models.Post, error)
	FindAll() ([]models.Post, error)
}

type CommentRepository interface {
	Create(comment *models.Comment) error
	FindByPostID(postID uint) ([]models.Comment, error)
}
