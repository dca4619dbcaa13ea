package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ManuelReschke/PixelFoxComments/app/models"
	"github.com/ManuelReschke/PixelFoxComments/internal/pkg/permission"
	"gorm.io/gorm"
)

// commentRepository implements the CommentRepository interface on the session it was given.
// It never opens, closes or pools connections; the caller owns db.
type commentRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewCommentRepository creates a new comment repository instance
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db, now: time.Now}
}

// Create inserts a comment, commits and returns it reloaded with the store-assigned fields
func (r *commentRepository) Create(ctx context.Context, text string, userID, imageID uint) (*models.Comment, error) {
	comment := models.Comment{
		Text:    text,
		UserID:  userID,
		ImageID: imageID,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&comment).Error
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, comment.ID)
}

// GetByID retrieves a comment by its ID
func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListForImage returns every comment of an image, newest first
func (r *commentRepository) ListForImage(ctx context.Context, imageID uint) ([]models.Comment, error) {
	comments := make([]models.Comment, 0)
	err := r.db.WithContext(ctx).
		Where("image_id = ?", imageID).
		Order("created_at DESC").Order("id DESC").
		Find(&comments).Error
	return comments, err
}

// Update replaces the text of a comment. Only administrators may call it.
func (r *commentRepository) Update(ctx context.Context, req CommentUpdateRequest, principal *models.User) (*models.Comment, Outcome, error) {
	if outcome, err := r.authorize("update_comment", principal, req); err != nil || outcome == OutcomeDenied {
		return nil, outcome, err
	}

	var comment models.Comment
	outcome := OutcomeApplied
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&comment, req.CommentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				outcome = OutcomeNotFound
				return nil
			}
			return err
		}

		now := r.now()
		if err := tx.Model(&comment).Updates(map[string]interface{}{
			"comment":    req.Comment,
			"updated_at": now,
		}).Error; err != nil {
			return err
		}
		comment.Text = req.Comment
		comment.UpdatedAt = &now
		return nil
	})
	if err != nil {
		return nil, OutcomeApplied, fmt.Errorf("failed to update comment %d: %w", req.CommentID, err)
	}
	if outcome == OutcomeNotFound {
		return nil, outcome, nil
	}
	return &comment, outcome, nil
}

// Delete permanently removes a comment and returns its last known state.
// Only administrators may call it.
func (r *commentRepository) Delete(ctx context.Context, commentID uint, principal *models.User) (*models.Comment, Outcome, error) {
	if outcome, err := r.authorize("delete_comment", principal, commentID); err != nil || outcome == OutcomeDenied {
		return nil, outcome, err
	}

	var comment models.Comment
	outcome := OutcomeApplied
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&comment, commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				outcome = OutcomeNotFound
				return nil
			}
			return err
		}
		return tx.Delete(&comment).Error
	})
	if err != nil {
		return nil, OutcomeApplied, fmt.Errorf("failed to delete comment %d: %w", commentID, err)
	}
	if outcome == OutcomeNotFound {
		return nil, outcome, nil
	}
	return &comment, outcome, nil
}

// UpdateEmotions overwrites all six emotion scores of a comment in one statement.
// A missing comment is not an error; nothing is written.
func (r *commentRepository) UpdateEmotions(ctx context.Context, commentID uint, scores models.EmotionScores) (Outcome, error) {
	outcome := OutcomeApplied
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				outcome = OutcomeNotFound
				return nil
			}
			return err
		}
		// UpdateColumns keeps updated_at untouched; it only tracks text edits.
		return tx.Model(&comment).UpdateColumns(scores.Columns()).Error
	})
	if err != nil {
		return OutcomeApplied, fmt.Errorf("failed to update emotions of comment %d: %w", commentID, err)
	}
	return outcome, nil
}

func (r *commentRepository) authorize(operation string, principal *models.User, args ...interface{}) (Outcome, error) {
	err := permission.RequireAdmin(operation, principal, args...)
	switch {
	case err == nil:
		return OutcomeApplied, nil
	case errors.Is(err, permission.ErrDenied):
		return OutcomeDenied, nil
	default:
		return OutcomeDenied, err
	}
}
