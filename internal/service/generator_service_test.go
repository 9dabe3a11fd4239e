package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"brainbee_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chatFunc adapts a function to ChatClient for tests.
type chatFunc func(ctx context.Context, system, user string) (string, error)

func (f chatFunc) Chat(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

const wellFormedResponse = `Question: Which neurotransmitter is depleted in the striatum of a patient with Parkinson's disease?
Options:
Option A: Serotonin
Option B: Dopamine
Option C: Acetylcholine
Option D: Glutamate
Correct Answer: B
Explanation: Degeneration of dopaminergic neurons in the substantia nigra pars compacta depletes striatal dopamine.`

func TestGenerateFromModel(t *testing.T) {
	calls := 0
	g := NewGeneratorService(chatFunc(func(ctx context.Context, system, user string) (string, error) {
		calls++
		return wellFormedResponse, nil
	}))

	q := g.Generate(context.Background(), "Neurology (Diseases of the Brain)")
	require.NotNil(t, q)
	assert.Equal(t, 1, calls)
	assert.NoError(t, q.Validate())
	assert.Equal(t, "B", q.CorrectChoice)
	assert.Equal(t, "Neurology (Diseases of the Brain)", q.Category)
	assert.Equal(t, "Dopamine", q.ChoiceText("B"))
	assert.Contains(t, q.Explanation, "substantia nigra")
}

func TestGenerateRetriesOnceOnMalformedOutput(t *testing.T) {
	calls := 0
	g := NewGeneratorService(chatFunc(func(ctx context.Context, system, user string) (string, error) {
		calls++
		if calls == 1 {
			return "Sure! Here is a question about the brain...", nil
		}
		assert.Contains(t, user, "did not match the required format")
		return wellFormedResponse, nil
	}))

	q := g.Generate(context.Background(), "Neuroanatomy")
	assert.Equal(t, 2, calls)
	assert.NoError(t, q.Validate())
	assert.Equal(t, "Neuroanatomy", q.Category)
}

func TestGenerateFallsBackAfterTwoFailures(t *testing.T) {
	calls := 0
	g := NewGeneratorService(chatFunc(func(ctx context.Context, system, user string) (string, error) {
		calls++
		return "", errors.New("upstream unavailable")
	}))

	q := g.Generate(context.Background(), "Sensory system")
	require.NotNil(t, q)
	assert.Equal(t, 2, calls)
	assert.NoError(t, q.Validate())
	assert.Equal(t, "Sensory system", q.Category)
}

func TestGeneratePicksRandomCategory(t *testing.T) {
	var sawCategory string
	g := NewGeneratorService(chatFunc(func(ctx context.Context, system, user string) (string, error) {
		for _, c := range model.Categories {
			if strings.Contains(system, c) {
				sawCategory = c
			}
		}
		return wellFormedResponse, nil
	}))

	for _, requested := range []string{"", "random"} {
		q := g.Generate(context.Background(), requested)
		assert.True(t, model.IsValidCategory(q.Category), q.Category)
		assert.Equal(t, sawCategory, q.Category)
	}
}

func TestFallbackBankCoversEveryCategory(t *testing.T) {
	for _, category := range model.Categories {
		q := fallbackQuestion(category)
		require.NotNil(t, q, category)
		assert.NoError(t, q.Validate(), category)
		assert.Equal(t, category, q.Category)
		assert.NotEmpty(t, q.Explanation, category)
	}
}

func TestParseQuestion(t *testing.T) {
	t.Run("well formed", func(t *testing.T) {
		q, err := parseQuestion(wellFormedResponse)
		require.NoError(t, err)
		assert.Len(t, q.Choices, 4)
		assert.Equal(t, "Option A: Serotonin", q.Choices[0])
		assert.Equal(t, "B", q.CorrectChoice)
	})

	t.Run("options out of order", func(t *testing.T) {
		raw := `Question: Where is the primary motor cortex?
Option C: Precentral gyrus
Option A: Postcentral gyrus
Option D: Cingulate gyrus
Option B: Superior temporal gyrus
Correct Answer: C
Explanation: The precentral gyrus of the frontal lobe.`
		q, err := parseQuestion(raw)
		require.NoError(t, err)
		assert.Equal(t, "Option A: Postcentral gyrus", q.Choices[0])
		assert.Equal(t, "Option C: Precentral gyrus", q.Choices[2])
		assert.Equal(t, "Precentral gyrus", q.ChoiceText("C"))
	})

	t.Run("missing explanation is tolerated", func(t *testing.T) {
		raw := strings.Split(wellFormedResponse, "\nExplanation:")[0]
		q, err := parseQuestion(raw)
		require.NoError(t, err)
		assert.Empty(t, q.Explanation)
	})

	malformed := []struct {
		name string
		raw  string
	}{
		{"prose only", "The answer is dopamine."},
		{"missing question line", strings.Replace(wellFormedResponse, "Question:", "Prompt:", 1)},
		{"three options", strings.Replace(wellFormedResponse, "Option D: Glutamate\n", "", 1)},
		{"duplicate option letter", strings.Replace(wellFormedResponse, "Option D:", "Option A:", 1)},
		{"missing answer line", strings.Replace(wellFormedResponse, "Correct Answer: B", "", 1)},
		{"answer outside A-D", strings.Replace(wellFormedResponse, "Correct Answer: B", "Correct Answer: E", 1)},
	}
	for _, tt := range malformed {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseQuestion(tt.raw)
			assert.Error(t, err)
		})
	}
}
