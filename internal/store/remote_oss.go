package store

import (
	"bytes"
	"context"
	"io"

	"brainbee_backend/internal/config"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// OSSRemoteStore is the Aliyun OSS variant of the remote blob store. The
// OSS SDK is not context-aware; ctx only bounds the callers around it.
type OSSRemoteStore struct {
	bucket *oss.Bucket
}

func NewOSSRemoteStore(cfg *config.StorageConfig) (*OSSRemoteStore, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}

	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, err
	}
	return &OSSRemoteStore{bucket: bucket}, nil
}

func (s *OSSRemoteStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	body, err := s.bucket.GetObject(key)
	if err != nil {
		if ossErr, ok := err.(oss.ServiceError); ok && ossErr.StatusCode == 404 {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

func (s *OSSRemoteStore) PutObject(ctx context.Context, key string, data []byte) error {
	return s.bucket.PutObject(key, bytes.NewReader(data), oss.ContentType("application/json"))
}

func (s *OSSRemoteStore) RemoveObject(ctx context.Context, key string) error {
	return s.bucket.DeleteObject(key)
}

func (s *OSSRemoteStore) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	marker := ""
	for {
		result, err := s.bucket.ListObjects(oss.Prefix(prefix), oss.Marker(marker))
		if err != nil {
			return nil, err
		}
		for _, obj := range result.Objects {
			objects = append(objects, ObjectInfo{Key: obj.Key, LastModified: obj.LastModified})
		}
		if !result.IsTruncated {
			break
		}
		marker = result.NextMarker
	}
	return objects, nil
}
