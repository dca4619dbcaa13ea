package apiv1

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PixelFoxComments/app/repository"
	"github.com/ManuelReschke/PixelFoxComments/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/PixelFoxComments/internal/pkg/permission"
	"github.com/ManuelReschke/PixelFoxComments/internal/pkg/statistics"
	"github.com/ManuelReschke/PixelFoxComments/internal/pkg/usercontext"
)

// EmotionScheduler queues emotion analysis for a comment
type EmotionScheduler interface {
	EnqueueEmotionAnalysis(ctx context.Context, commentID uint) error
}

// ActivityRecorder tracks comment activity per image
type ActivityRecorder interface {
	AddCommentCreated(ctx context.Context, imageID uint) error
	AddCommentDeleted(ctx context.Context, imageID uint) error
	Activity(ctx context.Context, imageID uint) (counter.CommentActivity, error)
}

// StatisticsProvider reports service wide comment figures
type StatisticsProvider interface {
	GetStatisticsData(ctx context.Context) (statistics.StatisticsData, error)
	Invalidate(ctx context.Context) error
}

// APIServer serves the comment endpoints of API v1
type APIServer struct {
	repos    *repository.Repositories
	emotions EmotionScheduler
	activity ActivityRecorder
	stats    StatisticsProvider
}

// NewAPIServer creates a new API server instance. emotions and activity are optional.
func NewAPIServer(repos *repository.Repositories, emotions EmotionScheduler, activity ActivityRecorder) *APIServer {
	return &APIServer{
		repos:    repos,
		emotions: emotions,
		activity: activity,
	}
}

// WithStatistics enables the statistics endpoint
func (s *APIServer) WithStatistics(stats StatisticsProvider) *APIServer {
	s.stats = stats
	return s
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(Pong{Ping: "pong"})
}

// GetImageComments lists all comments of an image, newest first
func (s *APIServer) GetImageComments(c *fiber.Ctx) error {
	imageID, ok := idParam(c, "image_id")
	if !ok {
		return badRequest(c, "invalid image id")
	}

	comments, err := s.repos.Comment.ListForImage(c.UserContext(), imageID)
	if err != nil {
		log.Errorf("[API] listing comments of image %d failed: %v", imageID, err)
		return internalError(c)
	}
	return c.Status(fiber.StatusOK).JSON(CommentList{ImageID: imageID, Comments: comments})
}

// PostImageComment creates a comment on an image for the authenticated user
func (s *APIServer) PostImageComment(c *fiber.Ctx) error {
	imageID, ok := idParam(c, "image_id")
	if !ok {
		return badRequest(c, "invalid image id")
	}
	principal := usercontext.GetPrincipal(c)
	if principal == nil {
		return unauthorized(c)
	}

	var body CommentBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return badRequest(c, err.Error())
	}

	exists, err := s.repos.Image.Exists(imageID)
	if err != nil {
		log.Errorf("[API] image lookup %d failed: %v", imageID, err)
		return internalError(c)
	}
	if !exists {
		return notFound(c, "image not found")
	}

	ctx := c.UserContext()
	comment, err := s.repos.Comment.Create(ctx, body.Comment, principal.ID, imageID)
	if err != nil {
		log.Errorf("[API] creating comment on image %d failed: %v", imageID, err)
		return internalError(c)
	}

	if s.emotions != nil {
		if err := s.emotions.EnqueueEmotionAnalysis(ctx, comment.ID); err != nil {
			log.Warnf("[API] could not queue emotion analysis for comment %d: %v", comment.ID, err)
		}
	}
	if s.activity != nil {
		if err := s.activity.AddCommentCreated(ctx, imageID); err != nil {
			log.Warnf("[API] could not count comment on image %d: %v", imageID, err)
		}
	}
	s.invalidateStatistics(ctx)

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// PutComment replaces the text of a comment (administrators only).
// The route checks the role before the body is read.
func (s *APIServer) PutComment(c *fiber.Ctx) error {
	commentID, ok := idParam(c, "comment_id")
	if !ok {
		return badRequest(c, "invalid comment id")
	}

	var body CommentBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	req := repository.CommentUpdateRequest{CommentID: commentID, Comment: body.Comment}
	if err := req.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	comment, outcome, err := s.repos.Comment.Update(c.UserContext(), req, usercontext.GetPrincipal(c))
	if err != nil {
		return s.operationError(c, err)
	}
	switch outcome {
	case repository.OutcomeDenied:
		return forbidden(c)
	case repository.OutcomeNotFound:
		return notFound(c, "comment not found")
	}

	if s.emotions != nil {
		if err := s.emotions.EnqueueEmotionAnalysis(c.UserContext(), comment.ID); err != nil {
			log.Warnf("[API] could not queue emotion analysis for comment %d: %v", comment.ID, err)
		}
	}
	return c.Status(fiber.StatusOK).JSON(comment)
}

// DeleteComment removes a comment permanently (administrators only)
func (s *APIServer) DeleteComment(c *fiber.Ctx) error {
	commentID, ok := idParam(c, "comment_id")
	if !ok {
		return badRequest(c, "invalid comment id")
	}

	comment, outcome, err := s.repos.Comment.Delete(c.UserContext(), commentID, usercontext.GetPrincipal(c))
	if err != nil {
		return s.operationError(c, err)
	}
	switch outcome {
	case repository.OutcomeDenied:
		return forbidden(c)
	case repository.OutcomeNotFound:
		return notFound(c, "comment not found")
	}

	if s.activity != nil {
		if err := s.activity.AddCommentDeleted(c.UserContext(), comment.ImageID); err != nil {
			log.Warnf("[API] could not count deletion on image %d: %v", comment.ImageID, err)
		}
	}
	s.invalidateStatistics(c.UserContext())
	return c.Status(fiber.StatusOK).JSON(comment)
}

// PutCommentEmotions overwrites the emotion scores of a comment
func (s *APIServer) PutCommentEmotions(c *fiber.Ctx) error {
	commentID, ok := idParam(c, "comment_id")
	if !ok {
		return badRequest(c, "invalid comment id")
	}

	var body EmotionScoresBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return badRequest(c, err.Error())
	}

	outcome, err := s.repos.Comment.UpdateEmotions(c.UserContext(), commentID, body.Scores())
	if err != nil {
		log.Errorf("[API] updating emotions of comment %d failed: %v", commentID, err)
		return internalError(c)
	}
	if outcome == repository.OutcomeNotFound {
		return notFound(c, "comment not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetImageCommentActivity returns the comment counters of an image
func (s *APIServer) GetImageCommentActivity(c *fiber.Ctx) error {
	imageID, ok := idParam(c, "image_id")
	if !ok {
		return badRequest(c, "invalid image id")
	}
	if s.activity == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "unavailable", "message": "activity counters disabled"})
	}

	activity, err := s.activity.Activity(c.UserContext(), imageID)
	if err != nil {
		log.Errorf("[API] reading activity of image %d failed: %v", imageID, err)
		return internalError(c)
	}
	return c.Status(fiber.StatusOK).JSON(activity)
}

// GetStatistics returns the cached comment totals
func (s *APIServer) GetStatistics(c *fiber.Ctx) error {
	if s.stats == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "unavailable", "message": "statistics disabled"})
	}
	data, err := s.stats.GetStatisticsData(c.UserContext())
	if err != nil {
		log.Errorf("[API] reading statistics failed: %v", err)
		return internalError(c)
	}
	return c.Status(fiber.StatusOK).JSON(data)
}

func (s *APIServer) invalidateStatistics(ctx context.Context) {
	if s.stats == nil {
		return
	}
	if err := s.stats.Invalidate(ctx); err != nil {
		log.Warnf("[API] could not invalidate statistics: %v", err)
	}
}

func (s *APIServer) operationError(c *fiber.Ctx, err error) error {
	if errors.Is(err, permission.ErrMissingPrincipal) {
		return unauthorized(c)
	}
	log.Errorf("[API] comment operation failed: %v", err)
	return internalError(c)
}

func idParam(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": message})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "API key required"})
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "administrator role required"})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": message})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Something went wrong"})
}
