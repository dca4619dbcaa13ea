// Package provision creates the users, API keys and images the comment API works on.
package provision

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/PixelFoxComments/app/models"
	"github.com/ManuelReschke/PixelFoxComments/app/repository"
)

// UserRequest describes an account to create or bring up to date
type UserRequest struct {
	Name     string
	Email    string
	Password string
	Admin    bool
}

// Provisioner writes accounts and images through the repositories
type Provisioner struct {
	db    *gorm.DB
	repos *repository.Repositories
}

// New creates a provisioner. db is the session the repositories are bound to.
func New(db *gorm.DB, repos *repository.Repositories) *Provisioner {
	return &Provisioner{db: db, repos: repos}
}

// EnsureUser creates the user, or updates password and role of the user with the same email
func (p *Provisioner) EnsureUser(req UserRequest) (*models.User, error) {
	role := models.ROLE_USER
	if req.Admin {
		role = models.ROLE_ADMIN
	}

	existing, err := p.repos.User.GetByEmail(req.Email)
	switch {
	case err == nil:
		changed := false
		if !existing.CheckPassword(req.Password) {
			if err := existing.SetPassword(req.Password); err != nil {
				return nil, fmt.Errorf("failed to hash password: %w", err)
			}
			changed = true
		}
		if existing.Role != role {
			existing.Role = role
			changed = true
		}
		if changed {
			if err := p.repos.User.Update(existing); err != nil {
				return nil, fmt.Errorf("failed to update user %d: %w", existing.ID, err)
			}
			log.Infof("[Provision] Updated user %d (%s)", existing.ID, existing.Email)
		}
		return existing, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	user, err := models.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := p.repos.User.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	log.Infof("[Provision] Created user %d (%s, role=%s)", user.ID, user.Email, user.Role)
	return p.repos.User.GetByID(user.ID)
}

// IssueAPIKey replaces the user's API key and returns the raw secret. It is shown only once.
func (p *Provisioner) IssueAPIKey(userID uint) (string, error) {
	settings, err := models.GetOrCreateUserSettings(p.db, userID)
	if err != nil {
		return "", err
	}
	raw, err := settings.IssueAPIKey()
	if err != nil {
		return "", err
	}
	if err := p.db.Save(settings).Error; err != nil {
		return "", fmt.Errorf("failed to store api key for user %d: %w", userID, err)
	}
	log.Infof("[Provision] Issued api key %s... for user %d", settings.APIKeyPrefix, userID)
	return raw, nil
}

// EnsureImage returns the image with imageUUID or registers it for owner.
// An empty imageUUID always registers a new image.
func (p *Provisioner) EnsureImage(ownerID uint, imageUUID, title string) (*models.Image, error) {
	if imageUUID != "" {
		img, err := p.repos.Image.GetByUUID(imageUUID)
		if err == nil {
			return img, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	img := &models.Image{UUID: imageUUID, UserID: ownerID, Title: title}
	if err := p.repos.Image.Create(img); err != nil {
		return nil, fmt.Errorf("failed to create image: %w", err)
	}
	return p.repos.Image.GetByID(img.ID)
}
