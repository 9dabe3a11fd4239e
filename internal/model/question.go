package model

import (
	"fmt"
	"strings"
)

// Letters a generated question's choices are labeled with. The correct
// answer is always exactly one of these.
const Letters = "ABCD"

// Categories is the fixed set of Brain Bee topic tags questions are
// generated for.
var Categories = []string{
	"Sensory system",
	"Motor system",
	"Neural communication (electrical and chemical)",
	"Neuroanatomy",
	"Higher cognition",
	"Neurology (Diseases of the Brain)",
}

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

func IsValidLetter(letter string) bool {
	return len(letter) == 1 && strings.Contains(Letters, letter)
}

// Question is a generated multiple-choice question. Immutable once built;
// the correct answer and explanation are never sent to the client while the
// question is active.
type Question struct {
	Text          string   `json:"question"`
	Choices       []string `json:"choices"` // "Option A: ..." .. "Option D: ..."
	CorrectChoice string   `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
	Category      string   `json:"category,omitempty"`
}

// Validate enforces the shape contract: exactly four choices labeled
// "Option A:" through "Option D:" and a correct letter matching one of them.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("question text is empty")
	}
	if len(q.Choices) != 4 {
		return fmt.Errorf("expected 4 choices, got %d", len(q.Choices))
	}
	for i, choice := range q.Choices {
		prefix := fmt.Sprintf("Option %c:", Letters[i])
		if !strings.HasPrefix(choice, prefix) {
			return fmt.Errorf("choice %d missing prefix %q", i, prefix)
		}
	}
	if !IsValidLetter(q.CorrectChoice) {
		return fmt.Errorf("correct answer %q is not one of A-D", q.CorrectChoice)
	}
	return nil
}

// ChoiceText returns the text of the choice labeled by letter, without the
// "Option X:" prefix.
func (q *Question) ChoiceText(letter string) string {
	idx := strings.Index(Letters, letter)
	if idx < 0 || idx >= len(q.Choices) {
		return ""
	}
	prefix := fmt.Sprintf("Option %s:", letter)
	return strings.TrimSpace(strings.TrimPrefix(q.Choices[idx], prefix))
}

// AnswerRecord snapshots one answered question. Appended to session history
// and never mutated afterward.
type AnswerRecord struct {
	Question      string   `json:"question"`
	Choices       []string `json:"choices"`
	UserAnswer    string   `json:"user_answer"`
	CorrectAnswer string   `json:"correct_answer"`
	Correct       bool     `json:"correct"`
	Feedback      string   `json:"feedback"`
}
