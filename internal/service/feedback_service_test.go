package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"brainbee_backend/internal/model"
	"brainbee_backend/internal/store"
	"brainbee_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// objectStore is a minimal in-memory RemoteStore for feedback tests.
type objectStore struct {
	objects map[string][]byte
}

func newObjectStore() *objectStore {
	return &objectStore{objects: make(map[string][]byte)}
}

func (s *objectStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return data, nil
}

func (s *objectStore) PutObject(ctx context.Context, key string, data []byte) error {
	s.objects[key] = append([]byte{}, data...)
	return nil
}

func (s *objectStore) RemoveObject(ctx context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func (s *objectStore) ListObjects(ctx context.Context, prefix string) ([]store.ObjectInfo, error) {
	var infos []store.ObjectInfo
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, store.ObjectInfo{Key: key})
		}
	}
	return infos, nil
}

func feedbackEntry(category string, correct bool, offset time.Duration) *model.FeedbackEntry {
	return &model.FeedbackEntry{
		Question:      fmt.Sprintf("question about %s", category),
		UserAnswer:    "A",
		CorrectAnswer: "B",
		Evaluation:    "some evaluation",
		Category:      category,
		IsCorrect:     correct,
		Timestamp:     time.Now().Add(offset).UTC().Format(time.RFC3339),
		FeedbackID:    fmt.Sprintf("id-%d", offset/time.Second),
	}
}

func TestFeedbackRecordWritesRemoteObject(t *testing.T) {
	remote := newObjectStore()
	svc := NewFeedbackService(remote, nil, time.Second)

	entry := model.NewFeedbackEntry(model.AnswerRecord{
		Question:      "q",
		UserAnswer:    "B",
		CorrectAnswer: "B",
		Correct:       true,
		Feedback:      "Correct!",
	}, "Neuroanatomy")

	svc.Record(context.Background(), entry)

	require.Len(t, remote.objects, 1)
	for key, data := range remote.objects {
		assert.True(t, strings.HasPrefix(key, store.FeedbackPrefix), key)
		assert.True(t, strings.HasSuffix(key, ".json"), key)

		var stored model.FeedbackEntry
		require.NoError(t, json.Unmarshal(data, &stored))
		assert.Equal(t, entry.FeedbackID, stored.FeedbackID)
		assert.True(t, stored.IsCorrect)
		assert.Equal(t, "Neuroanatomy", stored.Category)
	}
}

func TestFeedbackAnalytics(t *testing.T) {
	remote := newObjectStore()
	svc := NewFeedbackService(remote, nil, time.Second)
	ctx := context.Background()

	entries := []*model.FeedbackEntry{
		feedbackEntry("Neuroanatomy", true, 0),
		feedbackEntry("Neuroanatomy", false, time.Second),
		feedbackEntry("Motor system", true, 2*time.Second),
		feedbackEntry("Motor system", true, 3*time.Second),
	}
	for _, e := range entries {
		svc.Record(ctx, e)
	}

	report, err := svc.Analytics(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, report.TotalFeedback)
	assert.Equal(t, 3, report.CorrectAnswers)
	assert.InDelta(t, 75.0, report.OverallAccuracy, 0.01)

	require.Contains(t, report.Categories, "Neuroanatomy")
	assert.Equal(t, 2, report.Categories["Neuroanatomy"].Total)
	assert.InDelta(t, 50.0, report.Categories["Neuroanatomy"].Accuracy, 0.01)
	assert.InDelta(t, 100.0, report.Categories["Motor system"].Accuracy, 0.01)
}

func TestFeedbackAnalyticsSkipsCorruptObjects(t *testing.T) {
	remote := newObjectStore()
	svc := NewFeedbackService(remote, nil, time.Second)
	ctx := context.Background()

	svc.Record(ctx, feedbackEntry("Neuroanatomy", true, 0))
	remote.objects[store.FeedbackPrefix+"broken.json"] = []byte("{not json")

	report, err := svc.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalFeedback)
}

func TestFeedbackCategoryPerformance(t *testing.T) {
	remote := newObjectStore()
	svc := NewFeedbackService(remote, nil, time.Second)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		svc.Record(ctx, feedbackEntry("Higher cognition", i%2 == 0, time.Duration(i)*time.Second))
	}
	svc.Record(ctx, feedbackEntry("Motor system", true, time.Hour))

	perf, err := svc.CategoryPerformance(ctx, "Higher cognition")
	require.NoError(t, err)

	assert.Equal(t, "Higher cognition", perf.Category)
	assert.Equal(t, 8, perf.TotalQuestions)
	assert.Equal(t, 4, perf.CorrectAnswers)
	assert.InDelta(t, 50.0, perf.Accuracy, 0.01)

	// most recent five only, newest first
	require.Len(t, perf.RecentQuestions, 5)
	assert.Equal(t, "id-7", perf.RecentQuestions[0].FeedbackID)
	for _, entry := range perf.RecentQuestions {
		assert.Equal(t, "Higher cognition", entry.Category)
	}
}

func TestFeedbackAnalyticsWithoutAnySink(t *testing.T) {
	svc := NewFeedbackService(nil, nil, time.Second)

	_, err := svc.Analytics(context.Background())
	assert.ErrorIs(t, err, util.ErrRemoteDisabled)
}
