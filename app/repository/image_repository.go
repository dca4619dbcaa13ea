package repository

import (
	"github.com/ManuelReschke/PixelFoxComments/app/models"
	"gorm.io/gorm"
)

// imageRepository implements the ImageRepository interface
type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository creates a new image repository instance
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

// Create creates a new image in the database
func (r *imageRepository) Create(image *models.Image) error {
	return r.db.Create(image).Error
}

// GetByID retrieves an image by its ID
func (r *imageRepository) GetByID(id uint) (*models.Image, error) {
	var image models.Image
	err := r.db.Preload("User").First(&image, id).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// GetByUUID retrieves an image by its UUID
func (r *imageRepository) GetByUUID(uuid string) (*models.Image, error) {
	var image models.Image
	err := r.db.Preload("User").Where("uuid = ?", uuid).First(&image).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// Exists reports whether an image with the given ID is stored
func (r *imageRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Image{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
