package store

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/relabs-tech/certify/core/logger"
)

// S3Configuration contains the configuration for the AWS S3 driver
type S3Configuration struct {
	AWSBucketName string
	AWSRegion     string
	// AccessID and AccessKey are optional; when empty the default AWS
	// credentials chain is used, which is what a Lambda deployment wants.
	AccessID  string
	AccessKey string
	KeyPrefix string
}

// uploadAPI is the part of the s3 upload manager the driver needs.
type uploadAPI interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3 is the implementation of the artifact store for AWS S3
type S3 struct {
	bucket      string
	baseKeyName string
	uploader    uploadAPI
}

// NewS3 returns a new S3 driver
func NewS3(s3Config S3Configuration) (*S3, error) {
	if s3Config.AWSBucketName == "" {
		return nil, fmt.Errorf("AWSBucketName must not be empty")
	}

	options := []func(*config.LoadOptions) error{
		config.WithRegion(s3Config.AWSRegion),
	}
	if s3Config.AccessID != "" {
		options = append(options,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s3Config.AccessID, s3Config.AccessKey, "")))
	}
	awsConfig, err := config.LoadDefaultConfig(context.TODO(), options...)
	if err != nil {
		return nil, err
	}
	logger.Default().Debugln("artifact store S3 enabled")
	s := S3{
		bucket:      s3Config.AWSBucketName,
		baseKeyName: s3Config.KeyPrefix,
		uploader:    manager.NewUploader(s3.NewFromConfig(awsConfig)),
	}
	return &s, nil
}

// Upload writes data into the bucket with public-read visibility and returns
// the public URL of the object.
func (s *S3) Upload(ctx context.Context, key string, contentType string, data []byte) (string, error) {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.baseKeyName + key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s, %v", s.baseKeyName+key, err)
	}
	logger.Default().Infoln("uploaded ", s.baseKeyName+key)
	return s.URL(key), nil
}

// URL returns the deterministic public URL for key, independent of content.
func (s *S3) URL(key string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, s.baseKeyName+key)
}
