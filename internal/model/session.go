package model

import (
	"time"

	"github.com/google/uuid"
)

// Session is the per-client quiz record, keyed by an opaque token carried in
// a signed cookie. Invariants: Score <= TotalAnswered and
// len(History) <= TotalAnswered (history may be truncated for size, the
// counters are never rolled back).
type Session struct {
	SessionID       string         `json:"session_id"`
	History         []AnswerRecord `json:"history"`
	CurrentQuestion *Question      `json:"current_question,omitempty"`
	Score           int            `json:"score"`
	TotalAnswered   int            `json:"total_questions"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func NewSession() *Session {
	return &Session{
		SessionID: uuid.New().String(),
		History:   []AnswerRecord{},
		UpdatedAt: time.Now().UTC(),
	}
}

// RecordAnswer appends the answer snapshot, bumps the counters and clears
// the active question.
func (s *Session) RecordAnswer(rec AnswerRecord) {
	s.History = append(s.History, rec)
	s.TotalAnswered++
	if rec.Correct {
		s.Score++
	}
	s.CurrentQuestion = nil
	s.UpdatedAt = time.Now().UTC()
}
