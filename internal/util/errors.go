package util

import "errors"

var (
	ErrNoActiveQuestion = errors.New("no active question for this session")
	ErrInvalidAnswer    = errors.New("answer must be one of A, B, C or D")
	ErrInvalidCategory  = errors.New("unknown category")
	ErrSessionNotFound  = errors.New("session not found")
	ErrRemoteDisabled   = errors.New("remote storage not configured")
)
