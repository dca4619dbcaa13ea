package repository

import (
	"context"

	"github.com/ManuelReschke/PixelFoxComments/app/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment-related database operations.
// Every mutating method commits its own transaction on the session it was built with.
type CommentRepository interface {
	Create(ctx context.Context, text string, userID, imageID uint) (*models.Comment, error)
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListForImage(ctx context.Context, imageID uint) ([]models.Comment, error)
	Update(ctx context.Context, req CommentUpdateRequest, principal *models.User) (*models.Comment, Outcome, error)
	Delete(ctx context.Context, commentID uint, principal *models.User) (*models.Comment, Outcome, error)
	UpdateEmotions(ctx context.Context, commentID uint, scores models.EmotionScores) (Outcome, error)
}

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, *models.UserSettings, error)
	TouchAPIKey(settingsID uint) error
}

// ImageRepository defines the interface for image-related database operations
type ImageRepository interface {
	Create(image *models.Image) error
	GetByID(id uint) (*models.Image, error)
	GetByUUID(uuid string) (*models.Image, error)
	Exists(id uint) (bool, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Comment CommentRepository
	User    UserRepository
	Image   ImageRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Comment: NewCommentRepository(db),
		User:    NewUserRepository(db),
		Image:   NewImageRepository(db),
	}
}
