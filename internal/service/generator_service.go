package service

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"strings"

	"brainbee_backend/internal/model"
	"brainbee_backend/pkg/logger"
	"brainbee_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// GeneratorService builds Brain Bee questions through the chat model, with
// one retry on malformed output and a static bank behind that. Generate
// never fails.
type GeneratorService struct {
	ai ChatClient
}

func NewGeneratorService(ai ChatClient) *GeneratorService {
	return &GeneratorService{ai: ai}
}

const generatorSystemPrompt = `You are an expert neuroscience educator specializing in Brain Bee competition preparation, with deep understanding of Brain Bee question patterns and difficulty levels.

Your task: create a challenging Brain Bee-style multiple choice question about %s.

CRITICAL REQUIREMENTS:
1. Question must test deep understanding, not memorization
2. Include a realistic clinical or research scenario
3. All distractors must be plausible but clearly incorrect
4. Explanation should teach the underlying concept
5. Difficulty level: Advanced (suitable for Brain Bee finalists)

Format the output EXACTLY as follows:
Question: [Question Text]
Options:
Option A: [Option A Text]
Option B: [Option B Text]
Option C: [Option C Text]
Option D: [Option D Text]
Correct Answer: [A/B/C/D]
Explanation: [Explanation Text]`

const generatorUserPrompt = `Create a Brain Bee question about %s that:
- Tests application of knowledge, not just recall
- Includes a realistic scenario or case study
- Has exactly 4 plausible options (A, B, C, D)
- Provides a detailed explanation that teaches the concept

Format your response EXACTLY as specified.`

const generatorRetryHint = `

Your previous response did not match the required format. Output ONLY the seven labeled lines (Question, Options, Option A through Option D, Correct Answer, Explanation) with exactly four options labeled A through D and nothing else.`

// Generate produces a valid Question for the category ("" or "random"
// picks one at random). External failures and malformed output degrade to
// the retry and then to the fallback bank.
func (s *GeneratorService) Generate(ctx context.Context, category string) *model.Question {
	if category == "" || category == "random" {
		category = model.Categories[rand.Intn(len(model.Categories))]
	}

	system := fmt.Sprintf(generatorSystemPrompt, category)
	user := fmt.Sprintf(generatorUserPrompt, category)

	if q, err := s.generateOnce(ctx, system, user, category); err == nil {
		monitoring.QuestionsGenerated.WithLabelValues("llm").Inc()
		return q
	} else {
		logger.Log.Warn("question generation failed, retrying once",
			zap.String("category", category), zap.Error(err))
	}

	if q, err := s.generateOnce(ctx, system, user+generatorRetryHint, category); err == nil {
		monitoring.QuestionsGenerated.WithLabelValues("retry").Inc()
		return q
	} else {
		logger.Log.Warn("question generation retry failed, using fallback bank",
			zap.String("category", category), zap.Error(err))
	}

	monitoring.QuestionsGenerated.WithLabelValues("fallback").Inc()
	return fallbackQuestion(category)
}

func (s *GeneratorService) generateOnce(ctx context.Context, system, user, category string) (*model.Question, error) {
	raw, err := s.ai.Chat(ctx, system, user)
	if err != nil {
		return nil, err
	}

	q, err := parseQuestion(raw)
	if err != nil {
		return nil, err
	}
	q.Category = category
	return q, nil
}

var (
	questionRe    = regexp.MustCompile(`(?m)^\s*Question:\s*(.+)$`)
	optionRe      = regexp.MustCompile(`(?m)^\s*Option ([A-D]):\s*(.+)$`)
	answerRe      = regexp.MustCompile(`Correct Answer:\s*([A-D])`)
	explanationRe = regexp.MustCompile(`(?s)Explanation:\s*(.+)`)
)

// parseQuestion decodes the labeled-line format into a Question and
// validates the shape, returning an error instead of a partial value so the
// retry policy is a plain branch.
func parseQuestion(raw string) (*model.Question, error) {
	questionMatch := questionRe.FindStringSubmatch(raw)
	if questionMatch == nil {
		return nil, fmt.Errorf("missing Question line")
	}

	optionMatches := optionRe.FindAllStringSubmatch(raw, -1)
	if len(optionMatches) != 4 {
		return nil, fmt.Errorf("expected 4 options, found %d", len(optionMatches))
	}
	sort.Slice(optionMatches, func(i, j int) bool {
		return optionMatches[i][1] < optionMatches[j][1]
	})

	choices := make([]string, 0, 4)
	seen := map[string]bool{}
	for _, m := range optionMatches {
		letter, text := m[1], strings.TrimSpace(m[2])
		if seen[letter] {
			return nil, fmt.Errorf("duplicate option %s", letter)
		}
		seen[letter] = true
		choices = append(choices, fmt.Sprintf("Option %s: %s", letter, text))
	}

	answerMatch := answerRe.FindStringSubmatch(raw)
	if answerMatch == nil {
		return nil, fmt.Errorf("missing Correct Answer line")
	}
	if !seen[answerMatch[1]] {
		return nil, fmt.Errorf("correct answer %s not among options", answerMatch[1])
	}

	explanation := ""
	if m := explanationRe.FindStringSubmatch(raw); m != nil {
		explanation = strings.TrimSpace(m[1])
	}

	q := &model.Question{
		Text:          strings.TrimSpace(questionMatch[1]),
		Choices:       choices,
		CorrectChoice: answerMatch[1],
		Explanation:   explanation,
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}
