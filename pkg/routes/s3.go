package routes

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/routetree/internal/errors"
)

// ObjectGetter is the part of the S3 client the S3Loader needs.
// *s3.Client satisfies it.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Loader reads configurations stored as objects in an S3 bucket.
// The key "admin" maps to the object Prefix + "admin" + Suffix.
type S3Loader struct {
	Client ObjectGetter
	Bucket string
	Prefix string

	// Suffix defaults to ".json". Use ".yaml" or ".yml" for YAML documents.
	Suffix string
}

// NewS3Loader creates a loader for JSON documents under prefix in bucket.
func NewS3Loader(client ObjectGetter, bucket, prefix string) *S3Loader {
	return &S3Loader{Client: client, Bucket: bucket, Prefix: prefix, Suffix: ".json"}
}

// Load fetches and decodes the object for key.
func (l *S3Loader) Load(ctx context.Context, key string) (Routes, error) {
	suffix := l.Suffix
	if suffix == "" {
		suffix = ".json"
	}
	objectKey := l.Prefix + key + suffix

	out, err := l.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.Bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return nil, errors.New("R106").WithSubject("s3://" + l.Bucket + "/" + objectKey).Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.New("R106").WithSubject("s3://" + l.Bucket + "/" + objectKey).Wrap(err)
	}
	return Decode(data, FormatOf(objectKey))
}
