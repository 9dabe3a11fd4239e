package service

import (
	"context"
	"fmt"

	"brainbee_backend/internal/model"
	"brainbee_backend/pkg/logger"

	"go.uber.org/zap"
)

// EvaluatorService grades an answer locally and asks the chat model only
// for the explanation. Evaluate never fails.
type EvaluatorService struct {
	ai ChatClient
}

func NewEvaluatorService(ai ChatClient) *EvaluatorService {
	return &EvaluatorService{ai: ai}
}

const evaluatorSystemPrompt = "You are a neuroscience educator giving feedback to a Brain Bee student. Be concise, accurate and encouraging."

// Evaluate computes correctness from the question itself (never delegated
// to the model) and returns the answer snapshot with feedback text.
func (s *EvaluatorService) Evaluate(ctx context.Context, q *model.Question, userChoice string) model.AnswerRecord {
	correct := userChoice == q.CorrectChoice

	rec := model.AnswerRecord{
		Question:      q.Text,
		Choices:       q.Choices,
		UserAnswer:    userChoice,
		CorrectAnswer: q.CorrectChoice,
		Correct:       correct,
	}

	prompt := fmt.Sprintf(
		"Question: %s\nThe student answered %s: %s\nThe correct answer is %s: %s\nExplain in 2-3 sentences why the correct answer is right%s.",
		q.Text,
		userChoice, q.ChoiceText(userChoice),
		q.CorrectChoice, q.ChoiceText(q.CorrectChoice),
		incorrectClause(correct),
	)

	evaluation, err := s.ai.Chat(ctx, evaluatorSystemPrompt, prompt)
	if err != nil {
		logger.Log.Warn("answer evaluation failed, using templated feedback", zap.Error(err))
		rec.Feedback = templatedFeedback(q, correct)
		return rec
	}

	if correct {
		rec.Feedback = "Correct! " + evaluation
	} else {
		rec.Feedback = fmt.Sprintf("Incorrect. The correct answer was %s. %s", q.CorrectChoice, evaluation)
	}
	return rec
}

func incorrectClause(correct bool) string {
	if correct {
		return ""
	}
	return " and why the student's choice is wrong"
}

// templatedFeedback is the degraded path: correctness verdict plus whatever
// explanation came with the question at generation time.
func templatedFeedback(q *model.Question, correct bool) string {
	if correct {
		if q.Explanation != "" {
			return "Correct! " + q.Explanation
		}
		return "Correct!"
	}

	feedback := fmt.Sprintf("Incorrect. The correct answer was %s: %s.", q.CorrectChoice, q.ChoiceText(q.CorrectChoice))
	if q.Explanation != "" {
		feedback += " " + q.Explanation
	}
	return feedback
}
