package models

import (
	"time"
)

// EmotionScores holds the six emotion values computed for a comment.
// All values start at zero until an analysis has been stored.
type EmotionScores struct {
	Joy      int `gorm:"type:int;default:0" json:"joy"`
	Anger    int `gorm:"type:int;default:0" json:"anger"`
	Sadness  int `gorm:"type:int;default:0" json:"sadness"`
	Surprise int `gorm:"type:int;default:0" json:"surprise"`
	Disgust  int `gorm:"type:int;default:0" json:"disgust"`
	Fear     int `gorm:"type:int;default:0" json:"fear"`
}

// Columns maps the scores to their database columns.
func (s EmotionScores) Columns() map[string]interface{} {
	return map[string]interface{}{
		"emo_joy":      s.Joy,
		"emo_anger":    s.Anger,
		"emo_sadness":  s.Sadness,
		"emo_surprise": s.Surprise,
		"emo_disgust":  s.Disgust,
		"emo_fear":     s.Fear,
	}
}

// IsZero reports whether no emotion has been recorded yet
func (s EmotionScores) IsZero() bool {
	return s == EmotionScores{}
}

type Comment struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Text      string        `gorm:"column:comment;type:text" json:"comment"`
	UserID    uint          `gorm:"index" json:"user_id"`
	User      User          `gorm:"foreignKey:UserID" json:"-"`
	ImageID   uint          `gorm:"index" json:"image_id"`
	Image     Image         `gorm:"foreignKey:ImageID" json:"-"`
	CreatedAt time.Time     `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt *time.Time    `gorm:"autoUpdateTime:false;default:null" json:"updated_at"`
	Emotions  EmotionScores `gorm:"embedded;embeddedPrefix:emo_" json:"emotions"`
}
