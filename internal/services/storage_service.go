// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/qrtrace/qrtrace-api/internal/config"
)

// StorageService stores rendered QR images in S3. When no AWS credentials
// are configured the service is disabled and images are only returned
// inline by the handler.
type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
}

type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	if cfg.AWS.AccessKeyID == "" {
		// Local development: no S3, inline images only.
		return &StorageService{config: cfg}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   cfg,
	}, nil
}

// Enabled reports whether uploads will actually reach S3.
func (s *StorageService) Enabled() bool {
	return s.s3Client != nil
}

// StoreQRImage uploads a rendered PNG under qr-images/<serial>.png and
// returns its public location.
func (s *StorageService) StoreQRImage(serialNumber string, pngBytes []byte) (*UploadResult, error) {
	if s.s3Client == nil {
		return nil, fmt.Errorf("storage service is not configured")
	}

	key := fmt.Sprintf("qr-images/%s.png", serialNumber)

	_, err := s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(pngBytes),
		ContentType:   aws.String("image/png"),
		ContentLength: aws.Int64(int64(len(pngBytes))),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload QR image: %w", err)
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.AWS.S3Bucket, s.config.AWS.Region, key)
	if s.config.AWS.CloudFrontURL != "" {
		url = fmt.Sprintf("%s/%s", s.config.AWS.CloudFrontURL, key)
	}

	return &UploadResult{URL: url, Key: key}, nil
}
