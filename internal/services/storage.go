package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"contenthub/internal/pkg"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// StorageService uploads folder images to S3. Only images pass through here;
// notes are plain strings stored on the folder document.
type StorageService struct {
	uploader     *s3manager.Uploader
	client       *s3.S3
	bucket       string
	baseURL      string
	maxFileSize  int64
	allowedTypes map[string]bool
	logger       *pkg.Logger
}

// StorageConfig represents storage configuration
type StorageConfig struct {
	Bucket      string
	Region      string
	AccessKey   string
	SecretKey   string
	Endpoint    string
	BaseURL     string
	MaxFileSize int64
}

// UploadResult represents upload result
type UploadResult struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// NewStorageService creates a new storage service backed by S3.
func NewStorageService(config *StorageConfig) (*StorageService, error) {
	awsConfig := &aws.Config{
		Region:      aws.String(config.Region),
		Credentials: credentials.NewStaticCredentials(config.AccessKey, config.SecretKey, ""),
	}
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	maxSize := config.MaxFileSize
	if maxSize == 0 {
		maxSize = 10 << 20
	}

	return &StorageService{
		uploader:    s3manager.NewUploader(sess),
		client:      s3.New(sess),
		bucket:      config.Bucket,
		baseURL:     config.BaseURL,
		maxFileSize: maxSize,
		allowedTypes: map[string]bool{
			"image/jpeg": true,
			"image/png":  true,
			"image/gif":  true,
			"image/webp": true,
		},
		logger: pkg.NewLoggerWithPrefix(pkg.LevelInfo, "STORAGE"),
	}, nil
}

// UploadImage uploads one image and returns its public URL, suitable for
// appending to a folder's Images list.
func (s *StorageService) UploadImage(ctx context.Context, username string, file multipart.File, header *multipart.FileHeader) (*UploadResult, error) {
	if header.Size > s.maxFileSize {
		return nil, pkg.ErrInvalidInput.WithDetails(map[string]interface{}{
			"message": "Image exceeds the maximum allowed size",
		})
	}

	contentType := header.Header.Get("Content-Type")
	if !s.allowedTypes[contentType] {
		return nil, pkg.ErrInvalidInput.WithDetails(map[string]interface{}{
			"message": "Unsupported image type",
			"type":    contentType,
		})
	}

	token, err := pkg.GenerateSecureToken(16)
	if err != nil {
		return nil, pkg.ErrInternalServer.WithCause(err)
	}
	key := fmt.Sprintf("images/%s/%d_%s%s", username, time.Now().Unix(), token, filepath.Ext(header.Filename))

	result, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error("Image upload failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, pkg.ErrStorageFailed.WithCause(err)
	}

	url := result.Location
	if s.baseURL != "" {
		url = fmt.Sprintf("%s/%s", s.baseURL, key)
	}

	return &UploadResult{
		Key:  key,
		URL:  url,
		Size: header.Size,
	}, nil
}

// DeleteImage removes an uploaded image by key.
func (s *StorageService) DeleteImage(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return pkg.ErrStorageFailed.WithCause(err)
	}
	return nil
}
