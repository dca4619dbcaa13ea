package jobqueue

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/PixelFoxComments/app/models"
	"github.com/ManuelReschke/PixelFoxComments/app/repository"
)

// CommentStore is the part of the comment repository the emotion worker needs
type CommentStore interface {
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	UpdateEmotions(ctx context.Context, commentID uint, scores models.EmotionScores) (repository.Outcome, error)
}

// processEmotionAnalysisJob scores the comment text and stores the six values.
// A comment deleted in the meantime completes the job without a retry.
func (q *Queue) processEmotionAnalysisJob(ctx context.Context, job *Job) error {
	payload, err := EmotionAnalysisJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	if q.comments == nil {
		return fmt.Errorf("no comment store configured")
	}

	comment, err := q.comments.GetByID(ctx, payload.CommentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Infof("[EmotionJob] Comment %d vanished before analysis, skipping", payload.CommentID)
			return nil
		}
		return err
	}

	scores := q.analyzer.Score(comment.Text)
	outcome, err := q.comments.UpdateEmotions(ctx, comment.ID, scores)
	if err != nil {
		return err
	}
	if outcome == repository.OutcomeNotFound {
		log.Infof("[EmotionJob] Comment %d deleted during analysis, skipping", comment.ID)
		return nil
	}

	log.Debugf("[EmotionJob] Comment %d scored %+v", comment.ID, scores)
	return nil
}
