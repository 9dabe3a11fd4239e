package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"brainbee_backend/internal/config"
	"brainbee_backend/internal/model"
	"brainbee_backend/pkg/logger"
	"brainbee_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// SaveResult reports how a save landed. The operation itself never fails:
// the fallback write already happened by the time the remote leg runs.
type SaveResult struct {
	PersistedRemotely bool `json:"persisted_remotely"`
	Truncated         bool `json:"truncated"`
}

// Status is the payload behind the /storage_status diagnostic.
type Status struct {
	Sessions        int    `json:"sessions"`
	RemoteEnabled   bool   `json:"remote_enabled"`
	RemoteAvailable bool   `json:"remote_available"`
	RemoteSessions  int    `json:"remote_sessions"`
	FallbackType    string `json:"fallback_type"`
}

// ResilientStore prefers the remote store and silently degrades to the
// fallback. Writes go local-first so the request cycle always has a
// consistent view regardless of the remote outcome.
type ResilientStore struct {
	remote       RemoteStore // nil when remote storage is disabled
	fallback     SessionStore
	fallbackType string
	maxBytes     int
	historyKeep  int
	timeout      time.Duration
}

func NewResilientStore(remote RemoteStore, fallback SessionStore, fallbackType string, quiz config.QuizConfig, timeout time.Duration) *ResilientStore {
	return &ResilientStore{
		remote:       remote,
		fallback:     fallback,
		fallbackType: fallbackType,
		maxBytes:     quiz.MaxSessionBytes,
		historyKeep:  quiz.HistoryKeep,
		timeout:      timeout,
	}
}

// Load resolves a session id to a Session: remote first, then fallback,
// then a freshly minted session. A corrupt remote document is treated as
// absent. Load never fails.
func (s *ResilientStore) Load(ctx context.Context, sessionID string) *model.Session {
	if sessionID == "" {
		return model.NewSession()
	}

	if s.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, s.timeout)
		data, err := s.remote.GetObject(rctx, SessionKey(sessionID))
		cancel()

		switch {
		case err == nil:
			var session model.Session
			if jerr := json.Unmarshal(data, &session); jerr == nil && session.SessionID != "" {
				return &session
			}
			logger.Log.Warn("corrupt remote session document, treating as absent",
				zap.String("session_id", sessionID))
		case errors.Is(err, ErrNotFound):
			// fall through to the fallback store
		default:
			s.noteRemoteFailure("load", err)
		}
	}

	session, err := s.fallback.Load(ctx, sessionID)
	if err == nil {
		return session
	}
	if !errors.Is(err, ErrNotFound) {
		logger.Log.Warn("fallback load failed, starting fresh session",
			zap.String("session_id", sessionID), zap.Error(err))
	}
	return model.NewSession()
}

// Save writes the session to the fallback store unconditionally, then
// attempts the remote write with the size bound applied: when the compact
// JSON exceeds the threshold, history is truncated to the most recent
// entries before the remote put. Score and TotalAnswered are never touched.
func (s *ResilientStore) Save(ctx context.Context, session *model.Session) SaveResult {
	session.UpdatedAt = time.Now().UTC()

	var result SaveResult

	if err := s.fallback.Save(ctx, session); err != nil {
		logger.Log.Error("fallback session save failed",
			zap.String("session_id", session.SessionID), zap.Error(err))
	}

	data, err := json.Marshal(session)
	if err != nil {
		logger.Log.Error("session serialization failed",
			zap.String("session_id", session.SessionID), zap.Error(err))
		return result
	}

	if len(data) > s.maxBytes && len(session.History) > s.historyKeep {
		trimmed := *session
		trimmed.History = append([]model.AnswerRecord{}, session.History[len(session.History)-s.historyKeep:]...)

		data, err = json.Marshal(&trimmed)
		if err != nil {
			logger.Log.Error("session serialization failed after truncation",
				zap.String("session_id", session.SessionID), zap.Error(err))
			return result
		}
		result.Truncated = true
		monitoring.SessionTruncations.Inc()
		logger.Log.Info("session history truncated for remote write",
			zap.String("session_id", session.SessionID),
			zap.Int("kept", s.historyKeep),
			zap.Int("bytes", len(data)))
	}

	if s.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, s.timeout)
		err := s.remote.PutObject(rctx, SessionKey(session.SessionID), data)
		cancel()

		if err != nil {
			s.noteRemoteFailure("save", err)
		} else {
			result.PersistedRemotely = true
		}
	}

	return result
}

// Delete removes the session from both legs, best effort.
func (s *ResilientStore) Delete(ctx context.Context, sessionID string) {
	if err := s.fallback.Delete(ctx, sessionID); err != nil {
		logger.Log.Warn("fallback session delete failed",
			zap.String("session_id", sessionID), zap.Error(err))
	}

	if s.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, s.timeout)
		err := s.remote.RemoveObject(rctx, SessionKey(sessionID))
		cancel()
		if err != nil {
			s.noteRemoteFailure("delete", err)
		}
	}
}

// Cleanup deletes remote session and feedback objects older than the given
// age. Not on the request-serving path.
func (s *ResilientStore) Cleanup(ctx context.Context, olderThan time.Duration) (int, error) {
	if s.remote == nil {
		return 0, nil
	}

	cutoff := time.Now().Add(-olderThan)
	deleted := 0

	for _, prefix := range []string{SessionPrefix, FeedbackPrefix} {
		objects, err := s.remote.ListObjects(ctx, prefix)
		if err != nil {
			s.noteRemoteFailure("cleanup", err)
			return deleted, err
		}
		for _, obj := range objects {
			if obj.LastModified.After(cutoff) {
				continue
			}
			if err := s.remote.RemoveObject(ctx, obj.Key); err != nil {
				s.noteRemoteFailure("cleanup", err)
				continue
			}
			deleted++
		}
	}

	logger.Log.Info("storage cleanup finished",
		zap.Int("deleted", deleted), zap.Duration("older_than", olderThan))
	return deleted, nil
}

// Status reports fallback and remote health for the diagnostic endpoint.
func (s *ResilientStore) Status(ctx context.Context) Status {
	status := Status{
		RemoteEnabled: s.remote != nil,
		FallbackType:  s.fallbackType,
	}

	if count, err := s.fallback.Count(ctx); err == nil {
		status.Sessions = count
	}

	if s.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, s.timeout)
		objects, err := s.remote.ListObjects(rctx, SessionPrefix)
		cancel()
		if err != nil {
			s.noteRemoteFailure("status", err)
		} else {
			status.RemoteAvailable = true
			status.RemoteSessions = len(objects)
		}
	}

	return status
}

func (s *ResilientStore) noteRemoteFailure(op string, err error) {
	kind := ClassifyRemoteError(err)
	monitoring.RemoteStoreFailures.WithLabelValues(string(kind)).Inc()

	if kind == FailureQuota {
		logger.Log.Warn("remote store over capacity, degrading to fallback",
			zap.String("op", op), zap.Error(err))
		return
	}
	logger.Log.Warn("remote store unavailable, degrading to fallback",
		zap.String("op", op), zap.Error(err))
}
