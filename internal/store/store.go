// Package store implements the resilient session store: a remote object
// store holding one JSON document per session, composed with a local
// fallback so a remote outage degrades to ordinary in-process sessions
// instead of failing requests.
package store

import (
	"context"
	"errors"
	"time"

	"brainbee_backend/internal/model"
)

var ErrNotFound = errors.New("session not found")

// SessionStore is the contract both fallback implementations (memory,
// redis) satisfy. Load returns ErrNotFound for unknown ids.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (*model.Session, error)
	Save(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, sessionID string) error
	Count(ctx context.Context) (int, error)
}

// ObjectInfo describes one stored blob, enough for retention cleanup.
type ObjectInfo struct {
	Key          string
	LastModified time.Time
}

// RemoteStore is the opaque JSON blob store (minio or OSS bucket). Keys are
// paths like "sessions/<id>.json" and "feedback/<ts>_<id>.json".
type RemoteStore interface {
	GetObject(ctx context.Context, key string) ([]byte, error)
	PutObject(ctx context.Context, key string, data []byte) error
	RemoveObject(ctx context.Context, key string) error
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

const (
	SessionPrefix  = "sessions/"
	FeedbackPrefix = "feedback/"
)

func SessionKey(sessionID string) string {
	return SessionPrefix + sessionID + ".json"
}
