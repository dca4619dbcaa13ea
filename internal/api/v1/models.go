package apiv1

import (
	"github.com/go-playground/validator/v10"

	"github.com/ManuelReschke/PixelFoxComments/app/models"
)

var validate = validator.New()

// Pong is the response of GET /ping
type Pong struct {
	Ping string `json:"ping"`
}

// CommentBody is the JSON body for creating or editing a comment
type CommentBody struct {
	Comment string `json:"comment" validate:"required,min=1,max=5000"`
}

// EmotionScoresBody carries the six emotion scores of a comment
type EmotionScoresBody struct {
	Joy      int `json:"joy" validate:"min=0,max=100"`
	Anger    int `json:"anger" validate:"min=0,max=100"`
	Sadness  int `json:"sadness" validate:"min=0,max=100"`
	Surprise int `json:"surprise" validate:"min=0,max=100"`
	Disgust  int `json:"disgust" validate:"min=0,max=100"`
	Fear     int `json:"fear" validate:"min=0,max=100"`
}

// Scores converts the body into the model record
func (b EmotionScoresBody) Scores() models.EmotionScores {
	return models.EmotionScores{
		Joy:      b.Joy,
		Anger:    b.Anger,
		Sadness:  b.Sadness,
		Surprise: b.Surprise,
		Disgust:  b.Disgust,
		Fear:     b.Fear,
	}
}

// CommentList is the response of the list endpoint
type CommentList struct {
	ImageID  uint             `json:"image_id"`
	Comments []models.Comment `json:"comments"`
}
