package repository

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"

	"orderdesk/internal/model"
)

// ObjectStore is the subset of the S3 client used for snapshots.
type ObjectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Repository stores the whole snapshot as one gzipped JSON object.
type s3Repository struct {
	client ObjectStore
	bucket string
	key    string
	logger zerolog.Logger
}

// NewS3Repository creates an S3-backed snapshot repository.
func NewS3Repository(client ObjectStore, bucket, key string, logger zerolog.Logger) SnapshotRepository {
	if key == "" {
		key = "orderdesk/snapshot.json.gz"
	}
	return &s3Repository{
		client: client,
		bucket: bucket,
		key:    key,
		logger: logger.With().Str("repository", "s3").Logger(),
	}
}

func (r *s3Repository) Save(ctx context.Context, snap *model.Snapshot) error {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if err := json.NewEncoder(zw).Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to compress snapshot: %w", err)
	}

	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:          aws.String(r.bucket),
		Key:             aws.String(r.key),
		Body:            bytes.NewReader(buf.Bytes()),
		ContentType:     aws.String("application/json"),
		ContentEncoding: aws.String("gzip"),
	})
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("bucket", r.bucket).
			Str("key", r.key).
			Msg("failed to put snapshot")
		return fmt.Errorf("failed to put snapshot (bucket=%s, key=%s): %w", r.bucket, r.key, err)
	}

	r.logger.Debug().Str("key", r.key).Int("bytes", buf.Len()).Msg("snapshot saved")
	return nil
}

func (r *s3Repository) Load(ctx context.Context) (*model.Snapshot, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, nil
		}
		r.logger.Error().
			Err(err).
			Str("bucket", r.bucket).
			Str("key", r.key).
			Msg("failed to get snapshot")
		return nil, fmt.Errorf("failed to get snapshot (bucket=%s, key=%s): %w", r.bucket, r.key, err)
	}
	defer out.Body.Close()

	zr, err := gzip.NewReader(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer zr.Close()

	snap := model.NewSnapshot()
	if err := json.NewDecoder(zr).Decode(snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snap.Statistics.CompletionTimesByPriority == nil {
		snap.Statistics.CompletionTimesByPriority = map[model.Priority][]model.CompletionRecord{}
	}
	return snap, nil
}
