package model

import (
	"time"

	"github.com/google/uuid"
)

// FeedbackEntry is the write-once analytics record persisted independently
// of sessions, one JSON object per answered question.
type FeedbackEntry struct {
	Question      string `json:"question"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Evaluation    string `json:"evaluation,omitempty"`
	Category      string `json:"category,omitempty"`
	IsCorrect     bool   `json:"is_correct"`
	Timestamp     string `json:"timestamp"`
	FeedbackID    string `json:"feedback_id"`
}

func NewFeedbackEntry(rec AnswerRecord, category string) *FeedbackEntry {
	return &FeedbackEntry{
		Question:      rec.Question,
		UserAnswer:    rec.UserAnswer,
		CorrectAnswer: rec.CorrectAnswer,
		Evaluation:    rec.Feedback,
		Category:      category,
		IsCorrect:     rec.Correct,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		FeedbackID:    uuid.New().String(),
	}
}

// FeedbackScore mirrors a FeedbackEntry into MySQL when the analytics
// database is configured.
type FeedbackScore struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FeedbackID    string    `gorm:"type:varchar(36);uniqueIndex" json:"feedback_id"`
	Question      string    `gorm:"type:text" json:"question"`
	UserAnswer    string    `gorm:"type:varchar(8)" json:"user_answer"`
	CorrectAnswer string    `gorm:"type:varchar(8)" json:"correct_answer"`
	Evaluation    string    `gorm:"type:text" json:"evaluation"`
	Category      string    `gorm:"type:varchar(64);index" json:"category"`
	IsCorrect     bool      `json:"is_correct"`
	CreatedAt     time.Time `json:"created_at"`
}

func (FeedbackScore) TableName() string {
	return "feedback_scores"
}
