package storage

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/metroatlas/metroatlas-server/internal/config"
	"github.com/metroatlas/metroatlas-server/internal/domain"
	"github.com/metroatlas/metroatlas-server/internal/errors"
)

const csvContentType = "text/csv"

// s3API is the slice of the S3 client the store uses.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Store keeps the processed table as a single CSV object. Saving
// replaces the object in place.
type S3Store struct {
	client s3API
	bucket string
	key    string
	logger *slog.Logger
}

// NewS3Store builds a store from static credential configuration.
func NewS3Store(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "configure s3 client")
	}

	return &S3Store{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.S3Bucket,
		key:    cfg.S3Key,
		logger: logger,
	}, nil
}

func (s *S3Store) Save(ctx context.Context, table *domain.Table) error {
	body, err := EncodeCSV(table)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(csvContentType),
	})
	if err != nil {
		return errors.Wrapf(err, errors.CodeUnavailable, "save table to s3://%s/%s", s.bucket, s.key)
	}

	s.logger.Info("saved table to blob storage",
		"bucket", s.bucket,
		"key", s.key,
		"rows", table.NumRows(),
	)
	return nil
}

func (s *S3Store) Load(ctx context.Context) (*domain.Table, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, errors.NotFoundf("no table stored at s3://%s/%s", s.bucket, s.key)
		}
		return nil, errors.Wrapf(err, errors.CodeUnavailable, "load table from s3://%s/%s", s.bucket, s.key)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnavailable, "read s3 object body")
	}

	table, err := DecodeCSV(data)
	if err != nil {
		return nil, err
	}

	s.logger.Info("loaded table from blob storage",
		"bucket", s.bucket,
		"key", s.key,
		"rows", table.NumRows(),
	)
	return table, nil
}

// Exists reports whether the object is present without downloading it.
func (s *S3Store) Exists(ctx context.Context) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err == nil {
		return true, nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
		return false, nil
	}
	return false, errors.Wrapf(err, errors.CodeUnavailable, "check s3://%s/%s", s.bucket, s.key)
}
