package service

import (
	"context"
	"strings"

	"brainbee_backend/internal/model"
	"brainbee_backend/internal/store"
	"brainbee_backend/internal/util"
)

// QuizService sequences the generator, evaluator and session store for the
// request handlers.
type QuizService struct {
	store     *store.ResilientStore
	generator *GeneratorService
	evaluator *EvaluatorService
	feedback  *FeedbackService
}

func NewQuizService(st *store.ResilientStore, generator *GeneratorService, evaluator *EvaluatorService, feedback *FeedbackService) *QuizService {
	return &QuizService{
		store:     st,
		generator: generator,
		evaluator: evaluator,
		feedback:  feedback,
	}
}

// Load resolves the session for a request, minting a new one when the id
// is unknown or empty.
func (s *QuizService) Load(ctx context.Context, sessionID string) *model.Session {
	return s.store.Load(ctx, sessionID)
}

// NewQuestion generates a question, makes it the session's active question
// and saves the session.
func (s *QuizService) NewQuestion(ctx context.Context, sessionID, category string) (*model.Session, *model.Question, error) {
	if category != "" && category != "random" && !model.IsValidCategory(category) {
		return nil, nil, util.ErrInvalidCategory
	}

	session := s.store.Load(ctx, sessionID)
	question := s.generator.Generate(ctx, category)

	session.CurrentQuestion = question
	s.store.Save(ctx, session)

	return session, question, nil
}

// SubmitAnswer grades the active question, appends the result to history,
// bumps the counters, clears the active question and records a feedback
// entry. A submission with no active question is rejected, which also
// covers a double-click on submit: the first request already cleared the
// question.
func (s *QuizService) SubmitAnswer(ctx context.Context, sessionID, answer string) (*model.Session, model.AnswerRecord, error) {
	answer = strings.ToUpper(strings.TrimSpace(answer))
	if !model.IsValidLetter(answer) {
		return nil, model.AnswerRecord{}, util.ErrInvalidAnswer
	}

	session := s.store.Load(ctx, sessionID)
	if session.CurrentQuestion == nil {
		return session, model.AnswerRecord{}, util.ErrNoActiveQuestion
	}

	question := session.CurrentQuestion
	rec := s.evaluator.Evaluate(ctx, question, answer)

	session.RecordAnswer(rec)
	s.store.Save(ctx, session)

	s.feedback.Record(ctx, model.NewFeedbackEntry(rec, question.Category))

	return session, rec, nil
}

// History returns the stored answer history, already bounded by the
// store's truncation policy.
func (s *QuizService) History(ctx context.Context, sessionID string) (*model.Session, []model.AnswerRecord) {
	session := s.store.Load(ctx, sessionID)
	if session.History == nil {
		session.History = []model.AnswerRecord{}
	}
	return session, session.History
}

// Store exposes the underlying resilient store for the diagnostic and
// maintenance endpoints.
func (s *QuizService) Store() *store.ResilientStore {
	return s.store
}
