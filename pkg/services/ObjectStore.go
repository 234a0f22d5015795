package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/s3/createbucketoptions"
	"github.com/adampresley/adamgokit/s3/getoptions"
	"github.com/adampresley/adamgokit/s3/listoptions"
	"github.com/adampresley/adamgokit/s3/putoptions"
	"github.com/adampresley/adamgokit/slices"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

//go:generate go run go.uber.org/mock/mockgen -source=ObjectStore.go -destination=mocks/ObjectStore.go -package=mocks

/*
ObjectStore is the slice of object storage the story needs. Keys are
relative to the configured bucket.
*/
type ObjectStore interface {
	EnsureBucket(ctx context.Context) error
	PutObject(ctx context.Context, key, contentType string, body io.Reader) error
	GetObject(ctx context.Context, key string) (*StoredObject, error)
	ListObjects(ctx context.Context, prefix string, extensions ...string) ([]ObjectInfo, error)
	StatObject(ctx context.Context, key string) (*ObjectInfo, error)
	DeleteObjects(ctx context.Context, keys []string) error
}

type StoredObject struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

type ObjectInfo struct {
	Key          string
	LastModified time.Time
}

type S3ObjectStoreConfig struct {
	Bucket   string
	Region   string
	S3Client s3.S3Client
}

type S3ObjectStore struct {
	bucket   string
	region   string
	s3Client s3.S3Client
}

func NewS3ObjectStore(config S3ObjectStoreConfig) S3ObjectStore {
	return S3ObjectStore{
		bucket:   config.Bucket,
		region:   config.Region,
		s3Client: config.S3Client,
	}
}

func (s S3ObjectStore) EnsureBucket(ctx context.Context) error {
	var (
		err    error
		exists bool
	)

	if exists, err = s.s3Client.BucketExists(s.bucket); err != nil {
		return fmt.Errorf("error ensuring bucket '%s' exists: %w", s.bucket, err)
	}

	if exists {
		return nil
	}

	slog.Info("creating bucket", "bucketName", s.bucket)

	err = s.s3Client.CreateBucket(
		s.bucket,
		createbucketoptions.WithRegion(s.region),
	)

	if err != nil {
		return fmt.Errorf("error creating bucket '%s': %w", s.bucket, err)
	}

	return nil
}

/*
PutObject streams body into the bucket under key.
*/
func (s S3ObjectStore) PutObject(ctx context.Context, key, contentType string, body io.Reader) error {
	var (
		err     error
		copyErr error
	)

	stream, err := s.s3Client.PutStream(s.bucket, key, putoptions.WithContentType(contentType))

	if err != nil {
		return fmt.Errorf("error setting up upload stream for '%s': %w", key, err)
	}

	_, copyErr = io.Copy(stream.Writer, body)

	if err = stream.Writer.Close(); err != nil && copyErr == nil {
		copyErr = err
	}

	if _, err = stream.Wait(); err != nil {
		return fmt.Errorf("error uploading '%s': %w", key, err)
	}

	if copyErr != nil {
		return fmt.Errorf("error writing '%s' to storage: %w", key, copyErr)
	}

	return nil
}

func (s S3ObjectStore) GetObject(ctx context.Context, key string) (*StoredObject, error) {
	var (
		err    error
		object s3.GetObjectResponse
	)

	object, err = s.s3Client.Get(
		s.bucket,
		key,
		getoptions.WithContext(ctx),
		getoptions.WithTimeout(time.Minute*10),
	)

	if err != nil {
		return nil, fmt.Errorf("error getting object '%s': %w", key, err)
	}

	return &StoredObject{
		Body:        object.Body,
		ContentType: object.ContentType,
		Size:        int64(object.Size),
	}, nil
}

/*
ListObjects returns every object under prefix. When extensions are given,
only keys ending in one of them (case-insensitive) are returned.
*/
func (s S3ObjectStore) ListObjects(ctx context.Context, prefix string, extensions ...string) ([]ObjectInfo, error) {
	var (
		err      error
		response s3.ListResponse
	)

	if len(extensions) > 0 {
		response, err = s.s3Client.List(
			s.bucket,
			prefix,
			listoptions.WithGetAll(),
			listoptions.WithFilter(func(obj types.Object) bool {
				return HasExtension(aws.ToString(obj.Key), extensions)
			}),
		)
	} else {
		response, err = s.s3Client.List(s.bucket, prefix, listoptions.WithGetAll())
	}

	if err != nil {
		return nil, fmt.Errorf("error listing objects under '%s': %w", prefix, err)
	}

	result := slices.Map(response.Objects, func(input s3.Object, index int) ObjectInfo {
		return ObjectInfo{
			Key:          input.Key,
			LastModified: input.LastModified.UTC(),
		}
	})

	return result, nil
}

/*
StatObject returns nil, nil when the object does not exist.
*/
func (s S3ObjectStore) StatObject(ctx context.Context, key string) (*ObjectInfo, error) {
	var (
		err  error
		stat *s3.ObjectMetadata
	)

	if stat, err = s.s3Client.StatObject(s.bucket, key); err != nil {
		return nil, fmt.Errorf("error retrieving metadata for '%s': %w", key, err)
	}

	if stat == nil {
		return nil, nil
	}

	return &ObjectInfo{
		Key:          key,
		LastModified: stat.LastModified.UTC(),
	}, nil
}

func (s S3ObjectStore) DeleteObjects(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	if _, err := s.s3Client.Delete(s.bucket, keys); err != nil {
		return fmt.Errorf("error deleting %d object(s): %w", len(keys), err)
	}

	return nil
}

/*
HasExtension reports whether key ends in one of extensions, ignoring case.
Extensions include the leading dot.
*/
func HasExtension(key string, extensions []string) bool {
	key = strings.ToLower(key)

	for _, ext := range extensions {
		if strings.HasSuffix(key, strings.ToLower(ext)) {
			return true
		}
	}

	return false
}
