package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store keeps finished batch documents in an S3-compatible bucket.
type Store struct {
	client     *minio.Client
	bucketName string
	region     string
}

// New buat koneksi MinIO
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	// pastikan bucket ada
	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	return &Store{client: cli, bucketName: bucket, region: region}, nil
}

// BatchKey is bulk/{kind}/{yyyy/mm/dd}/{batchID}.json, dated in UTC.
func BatchKey(kind, batchID string, at time.Time) string {
	return path.Join("bulk", kind, at.UTC().Format("2006/01/02"), batchID+".json")
}

// PutJSON uploads v as a JSON object and returns its URL.
func (s *Store) PutJSON(ctx context.Context, key string, v any) (string, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", err
	}
	// URL publik (jika bucket public), kalau private harus generate presigned URL
	return s.client.EndpointURL().JoinPath(s.bucketName, key).String(), nil
}

// ArchiveBatch stores one finished batch result.
func (s *Store) ArchiveBatch(ctx context.Context, kind, batchID string, at time.Time, doc any) error {
	_, err := s.PutJSON(ctx, BatchKey(kind, batchID, at), doc)
	return err
}
