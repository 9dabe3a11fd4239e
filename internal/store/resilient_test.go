package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"brainbee_backend/internal/config"
	"brainbee_backend/internal/model"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRemote is an in-memory RemoteStore with injectable failures.
type fakeRemote struct {
	mu      sync.Mutex
	objects map[string][]byte
	modTime map[string]time.Time

	getErr    error
	putErr    error
	removeErr error
	listErr   error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		objects: make(map[string][]byte),
		modTime: make(map[string]time.Time),
	}
}

func (f *fakeRemote) GetObject(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[key]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

func (f *fakeRemote) PutObject(ctx context.Context, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = append([]byte{}, data...)
	f.modTime[key] = time.Now()
	return nil
}

func (f *fakeRemote) RemoveObject(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.objects, key)
	delete(f.modTime, key)
	return nil
}

func (f *fakeRemote) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var infos []ObjectInfo
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, ObjectInfo{Key: key, LastModified: f.modTime[key]})
		}
	}
	return infos, nil
}

func (f *fakeRemote) seed(key string, data []byte, modified time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	f.modTime[key] = modified
}

func newTestStore(remote RemoteStore) *ResilientStore {
	quiz := config.QuizConfig{MaxSessionBytes: 50 * 1024, HistoryKeep: 10}
	return NewResilientStore(remote, NewMemoryStore(), "memory", quiz, time.Second)
}

func answerRecord(i int) model.AnswerRecord {
	return model.AnswerRecord{
		Question:      fmt.Sprintf("question %d", i),
		Choices:       []string{"Option A: a", "Option B: b", "Option C: c", "Option D: d"},
		UserAnswer:    "A",
		CorrectAnswer: "B",
		Correct:       false,
		Feedback:      strings.Repeat("feedback text ", 50),
	}
}

func TestLoadUnknownSessionMintsFresh(t *testing.T) {
	s := newTestStore(nil)

	session := s.Load(context.Background(), "")
	require.NotNil(t, session)
	assert.NotEmpty(t, session.SessionID)

	other := s.Load(context.Background(), "no-such-session")
	assert.NotEmpty(t, other.SessionID)
	assert.NotEqual(t, session.SessionID, other.SessionID)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	remote := newFakeRemote()
	s := newTestStore(remote)
	ctx := context.Background()

	session := model.NewSession()
	session.RecordAnswer(answerRecord(1))

	result := s.Save(ctx, session)
	assert.True(t, result.PersistedRemotely)
	assert.False(t, result.Truncated)

	loaded := s.Load(ctx, session.SessionID)
	assert.Equal(t, session.SessionID, loaded.SessionID)
	assert.Equal(t, session.Score, loaded.Score)
	assert.Equal(t, session.TotalAnswered, loaded.TotalAnswered)
	assert.Len(t, loaded.History, 1)
}

func TestSaveSurvivesRemoteOutage(t *testing.T) {
	remote := newFakeRemote()
	remote.putErr = errors.New("connection refused")
	remote.getErr = errors.New("connection refused")
	s := newTestStore(remote)
	ctx := context.Background()

	session := model.NewSession()
	session.RecordAnswer(answerRecord(1))

	result := s.Save(ctx, session)
	assert.False(t, result.PersistedRemotely)

	// the fallback leg still serves the session transparently
	loaded := s.Load(ctx, session.SessionID)
	assert.Equal(t, session.SessionID, loaded.SessionID)
	assert.Equal(t, 1, loaded.TotalAnswered)
	assert.Len(t, loaded.History, 1)
}

func TestLoadCorruptRemoteDocumentTreatedAsAbsent(t *testing.T) {
	remote := newFakeRemote()
	s := newTestStore(remote)
	ctx := context.Background()

	session := model.NewSession()
	require.NoError(t, s.fallback.Save(ctx, session))
	remote.seed(SessionKey(session.SessionID), []byte("{not json"), time.Now())

	loaded := s.Load(ctx, session.SessionID)
	assert.Equal(t, session.SessionID, loaded.SessionID)
}

func TestSaveTruncatesOversizedRemotePayload(t *testing.T) {
	remote := newFakeRemote()
	quiz := config.QuizConfig{MaxSessionBytes: 2048, HistoryKeep: 10}
	s := NewResilientStore(remote, NewMemoryStore(), "memory", quiz, time.Second)
	ctx := context.Background()

	session := model.NewSession()
	for i := 0; i < 25; i++ {
		session.RecordAnswer(answerRecord(i))
	}
	session.Score = 7

	result := s.Save(ctx, session)
	assert.True(t, result.Truncated)
	assert.True(t, result.PersistedRemotely)

	data, err := remote.GetObject(ctx, SessionKey(session.SessionID))
	require.NoError(t, err)

	var stored model.Session
	require.NoError(t, json.Unmarshal(data, &stored))

	// most recent suffix only, counters untouched
	require.Len(t, stored.History, 10)
	assert.Equal(t, "question 15", stored.History[0].Question)
	assert.Equal(t, "question 24", stored.History[9].Question)
	assert.Equal(t, 7, stored.Score)
	assert.Equal(t, 25, stored.TotalAnswered)

	// the in-memory session and the fallback copy keep the full history
	assert.Len(t, session.History, 25)
	local, err := s.fallback.Load(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Len(t, local.History, 25)
}

func TestSaveSmallSessionNotTruncated(t *testing.T) {
	remote := newFakeRemote()
	quiz := config.QuizConfig{MaxSessionBytes: 2048, HistoryKeep: 10}
	s := NewResilientStore(remote, NewMemoryStore(), "memory", quiz, time.Second)

	session := model.NewSession()
	session.RecordAnswer(model.AnswerRecord{Question: "q", UserAnswer: "A", CorrectAnswer: "A", Correct: true})

	result := s.Save(context.Background(), session)
	assert.False(t, result.Truncated)
	assert.True(t, result.PersistedRemotely)
}

func TestDeleteRemovesBothLegs(t *testing.T) {
	remote := newFakeRemote()
	s := newTestStore(remote)
	ctx := context.Background()

	session := model.NewSession()
	s.Save(ctx, session)

	s.Delete(ctx, session.SessionID)

	_, err := remote.GetObject(ctx, SessionKey(session.SessionID))
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.fallback.Load(ctx, session.SessionID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCleanupDeletesOnlyExpiredObjects(t *testing.T) {
	remote := newFakeRemote()
	s := newTestStore(remote)
	ctx := context.Background()

	old := time.Now().Add(-40 * 24 * time.Hour)
	remote.seed(SessionPrefix+"stale.json", []byte("{}"), old)
	remote.seed(FeedbackPrefix+"stale.json", []byte("{}"), old)
	remote.seed(SessionPrefix+"fresh.json", []byte("{}"), time.Now())

	deleted, err := s.Cleanup(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	_, err = remote.GetObject(ctx, SessionPrefix+"fresh.json")
	assert.NoError(t, err)
}

func TestCleanupWithoutRemote(t *testing.T) {
	s := newTestStore(nil)
	deleted, err := s.Cleanup(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("remote disabled", func(t *testing.T) {
		s := newTestStore(nil)
		s.Save(ctx, model.NewSession())

		status := s.Status(ctx)
		assert.False(t, status.RemoteEnabled)
		assert.False(t, status.RemoteAvailable)
		assert.Equal(t, 1, status.Sessions)
		assert.Equal(t, "memory", status.FallbackType)
	})

	t.Run("remote up", func(t *testing.T) {
		remote := newFakeRemote()
		s := newTestStore(remote)
		s.Save(ctx, model.NewSession())
		s.Save(ctx, model.NewSession())

		status := s.Status(ctx)
		assert.True(t, status.RemoteEnabled)
		assert.True(t, status.RemoteAvailable)
		assert.Equal(t, 2, status.Sessions)
		assert.Equal(t, 2, status.RemoteSessions)
	})

	t.Run("remote down", func(t *testing.T) {
		remote := newFakeRemote()
		remote.listErr = errors.New("connection refused")
		s := newTestStore(remote)

		status := s.Status(ctx)
		assert.True(t, status.RemoteEnabled)
		assert.False(t, status.RemoteAvailable)
	})
}

func TestClassifyRemoteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"plain network error", errors.New("dial tcp: connection refused"), FailureConnectivity},
		{"deadline", context.DeadlineExceeded, FailureConnectivity},
		{"canceled", context.Canceled, FailureConnectivity},
		{"quota message", errors.New("bucket quota exceeded"), FailureQuota},
		{"payload message", errors.New("413 payload too large"), FailureQuota},
		{"minio entity too large", minio.ErrorResponse{Code: "EntityTooLarge"}, FailureQuota},
		{"minio quota exceeded", minio.ErrorResponse{Code: "QuotaExceeded"}, FailureQuota},
		{"minio not found", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}, FailureConnectivity},
		{"oss insufficient storage", oss.ServiceError{StatusCode: 507}, FailureQuota},
		{"oss server error", oss.ServiceError{StatusCode: 500}, FailureConnectivity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRemoteError(tt.err))
		})
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	session := model.NewSession()
	require.NoError(t, s.Save(ctx, session))

	loaded, err := s.Load(ctx, session.SessionID)
	require.NoError(t, err)

	// mutating the loaded copy must not leak back into the store
	loaded.Score = 99
	again, err := s.Load(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Zero(t, again.Score)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
