package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"brainbee_backend/internal/model"
	"brainbee_backend/internal/store"
	"brainbee_backend/internal/util"
	"brainbee_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FeedbackService persists write-once feedback entries for analytics: one
// JSON object per answered question in the remote store, mirrored into
// MySQL when the analytics database is configured. Both legs are
// best-effort; failures are logged, never surfaced.
type FeedbackService struct {
	remote  store.RemoteStore // nil when remote storage is disabled
	db      *gorm.DB          // nil when the analytics database is disabled
	timeout time.Duration
}

func NewFeedbackService(remote store.RemoteStore, db *gorm.DB, timeout time.Duration) *FeedbackService {
	return &FeedbackService{remote: remote, db: db, timeout: timeout}
}

func feedbackKey(entry *model.FeedbackEntry) string {
	return fmt.Sprintf("%s%s_%s.json", store.FeedbackPrefix, entry.Timestamp, entry.FeedbackID)
}

// Record writes the entry to every configured sink.
func (s *FeedbackService) Record(ctx context.Context, entry *model.FeedbackEntry) {
	if s.remote != nil {
		data, err := json.Marshal(entry)
		if err != nil {
			logger.Log.Error("feedback serialization failed", zap.Error(err))
			return
		}

		rctx, cancel := context.WithTimeout(ctx, s.timeout)
		err = s.remote.PutObject(rctx, feedbackKey(entry), data)
		cancel()
		if err != nil {
			logger.Log.Warn("feedback remote write failed",
				zap.String("feedback_id", entry.FeedbackID), zap.Error(err))
		}
	}

	if s.db != nil {
		row := model.FeedbackScore{
			FeedbackID:    entry.FeedbackID,
			Question:      entry.Question,
			UserAnswer:    entry.UserAnswer,
			CorrectAnswer: entry.CorrectAnswer,
			Evaluation:    entry.Evaluation,
			Category:      entry.Category,
			IsCorrect:     entry.IsCorrect,
		}
		if err := s.db.Create(&row).Error; err != nil {
			logger.Log.Warn("feedback database write failed",
				zap.String("feedback_id", entry.FeedbackID), zap.Error(err))
		}
	}
}

type CategoryStats struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

type AnalyticsReport struct {
	TotalFeedback   int                       `json:"total_feedback"`
	TotalQuestions  int                       `json:"total_questions"`
	CorrectAnswers  int                       `json:"correct_answers"`
	OverallAccuracy float64                   `json:"overall_accuracy"`
	Categories      map[string]*CategoryStats `json:"categories"`
}

// Analytics aggregates all feedback entries: remote store when available,
// otherwise the MySQL mirror.
func (s *FeedbackService) Analytics(ctx context.Context) (*AnalyticsReport, error) {
	entries, err := s.loadEntries(ctx, "")
	if err != nil {
		return nil, err
	}

	report := &AnalyticsReport{Categories: make(map[string]*CategoryStats)}
	for _, entry := range entries {
		report.TotalFeedback++
		report.TotalQuestions++

		category := entry.Category
		if category == "" {
			category = "Unknown"
		}
		stats, ok := report.Categories[category]
		if !ok {
			stats = &CategoryStats{}
			report.Categories[category] = stats
		}

		stats.Total++
		if entry.IsCorrect {
			stats.Correct++
			report.CorrectAnswers++
		}
	}

	for _, stats := range report.Categories {
		stats.Accuracy = accuracy(stats.Correct, stats.Total)
	}
	report.OverallAccuracy = accuracy(report.CorrectAnswers, report.TotalQuestions)

	return report, nil
}

type CategoryPerformance struct {
	Category        string                 `json:"category"`
	TotalQuestions  int                    `json:"total_questions"`
	CorrectAnswers  int                    `json:"correct_answers"`
	Accuracy        float64                `json:"accuracy"`
	RecentQuestions []*model.FeedbackEntry `json:"recent_questions"`
}

// CategoryPerformance reports one category with its five most recent
// entries.
func (s *FeedbackService) CategoryPerformance(ctx context.Context, category string) (*CategoryPerformance, error) {
	entries, err := s.loadEntries(ctx, category)
	if err != nil {
		return nil, err
	}

	perf := &CategoryPerformance{Category: category, RecentQuestions: []*model.FeedbackEntry{}}
	for _, entry := range entries {
		perf.TotalQuestions++
		if entry.IsCorrect {
			perf.CorrectAnswers++
		}
	}
	perf.Accuracy = accuracy(perf.CorrectAnswers, perf.TotalQuestions)

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})
	for i := 0; i < len(entries) && i < 5; i++ {
		perf.RecentQuestions = append(perf.RecentQuestions, entries[i])
	}

	return perf, nil
}

// loadEntries fetches feedback entries, filtered to a category when one is
// given. Unreadable objects are skipped, not fatal.
func (s *FeedbackService) loadEntries(ctx context.Context, category string) ([]*model.FeedbackEntry, error) {
	if s.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		objects, err := s.remote.ListObjects(rctx, store.FeedbackPrefix)
		if err != nil {
			return nil, err
		}

		entries := make([]*model.FeedbackEntry, 0, len(objects))
		for _, obj := range objects {
			data, err := s.remote.GetObject(rctx, obj.Key)
			if err != nil {
				logger.Log.Warn("feedback object unreadable, skipping",
					zap.String("key", obj.Key), zap.Error(err))
				continue
			}
			var entry model.FeedbackEntry
			if err := json.Unmarshal(data, &entry); err != nil {
				logger.Log.Warn("feedback object corrupt, skipping",
					zap.String("key", obj.Key), zap.Error(err))
				continue
			}
			if category != "" && entry.Category != category {
				continue
			}
			entries = append(entries, &entry)
		}
		return entries, nil
	}

	if s.db != nil {
		query := s.db.WithContext(ctx).Model(&model.FeedbackScore{})
		if category != "" {
			query = query.Where("category = ?", category)
		}

		var rows []model.FeedbackScore
		if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
			return nil, err
		}

		entries := make([]*model.FeedbackEntry, 0, len(rows))
		for _, row := range rows {
			entries = append(entries, &model.FeedbackEntry{
				Question:      row.Question,
				UserAnswer:    row.UserAnswer,
				CorrectAnswer: row.CorrectAnswer,
				Evaluation:    row.Evaluation,
				Category:      row.Category,
				IsCorrect:     row.IsCorrect,
				Timestamp:     row.CreatedAt.UTC().Format(time.RFC3339),
				FeedbackID:    row.FeedbackID,
			})
		}
		return entries, nil
	}

	return nil, util.ErrRemoteDisabled
}

func accuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}
