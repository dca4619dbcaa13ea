package counter

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/PixelFoxComments/internal/pkg/cache"
)

const (
	commentsCreatedKey = "comment:counters:created"
	commentsDeletedKey = "comment:counters:deleted"
)

// CommentActivity holds how many comments were posted and removed on an image
type CommentActivity struct {
	ImageID uint  `json:"image_id"`
	Created int64 `json:"created"`
	Deleted int64 `json:"deleted"`
}

// Recorder keeps per-image comment counters in Redis hashes
type Recorder struct {
	client *redis.Client
}

// NewRecorder creates a recorder on the given client, or the shared cache client when nil
func NewRecorder(client *redis.Client) *Recorder {
	if client == nil {
		client = cache.GetClient()
	}
	return &Recorder{client: client}
}

// AddCommentCreated increments the created counter for an image
func (r *Recorder) AddCommentCreated(ctx context.Context, imageID uint) error {
	return r.client.HIncrBy(ctx, commentsCreatedKey, field(imageID), 1).Err()
}

// AddCommentDeleted increments the deleted counter for an image
func (r *Recorder) AddCommentDeleted(ctx context.Context, imageID uint) error {
	return r.client.HIncrBy(ctx, commentsDeletedKey, field(imageID), 1).Err()
}

// Activity returns both counters of an image; missing counters read as zero
func (r *Recorder) Activity(ctx context.Context, imageID uint) (CommentActivity, error) {
	activity := CommentActivity{ImageID: imageID}

	pipe := r.client.Pipeline()
	created := pipe.HGet(ctx, commentsCreatedKey, field(imageID))
	deleted := pipe.HGet(ctx, commentsDeletedKey, field(imageID))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return activity, err
	}

	var err error
	if activity.Created, err = readCount(created); err != nil {
		return activity, err
	}
	if activity.Deleted, err = readCount(deleted); err != nil {
		return activity, err
	}
	return activity, nil
}

func readCount(cmd *redis.StringCmd) (int64, error) {
	v, err := cmd.Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func field(imageID uint) string {
	return strconv.FormatUint(uint64(imageID), 10)
}
