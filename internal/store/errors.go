package store

import (
	"context"
	"errors"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
)

// FailureKind separates capacity problems from plain connectivity failures
// in logs and metrics. Both are handled the same way: fall back to local.
type FailureKind string

const (
	FailureQuota        FailureKind = "quota"
	FailureConnectivity FailureKind = "connectivity"
)

var quotaSignals = []string{
	"quota",
	"entity too large",
	"payload too large",
	"storage full",
	"insufficient storage",
	"size limit",
	"maximum allowed size",
}

// ClassifyRemoteError inspects provider error codes and quota-specific
// message signals. Timeouts and everything else count as connectivity.
func ClassifyRemoteError(err error) FailureKind {
	if err == nil {
		return FailureConnectivity
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return FailureConnectivity
	}

	if resp := minio.ToErrorResponse(err); resp.Code != "" {
		switch resp.Code {
		case "QuotaExceeded", "EntityTooLarge", "StorageFull":
			return FailureQuota
		}
		if resp.StatusCode == 413 || resp.StatusCode == 507 {
			return FailureQuota
		}
	}

	var ossErr oss.ServiceError
	if errors.As(err, &ossErr) {
		if ossErr.StatusCode == 413 || ossErr.StatusCode == 507 {
			return FailureQuota
		}
	}

	msg := strings.ToLower(err.Error())
	for _, signal := range quotaSignals {
		if strings.Contains(msg, signal) {
			return FailureQuota
		}
	}
	return FailureConnectivity
}
