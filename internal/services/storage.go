package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/staywellhq/staywell-backend/internal/config"
)

// Storage uploads room and avatar images to S3, falling back to local
// files when AWS is not configured. It is constructed once at startup.
type Storage struct {
	useS3     bool
	s3Client  *s3.S3
	uploader  *s3manager.Uploader
	bucket    string
	region    string
	uploadDir string
	baseURL   string
}

// NewStorage initializes either S3 or local storage based on configuration.
func NewStorage(cfg *config.Config) (*Storage, error) {
	if cfg.AWSRegion != "" && cfg.AWSAccessKey != "" && cfg.AWSSecretKey != "" {
		sess, err := session.NewSession(&aws.Config{
			Region: aws.String(cfg.AWSRegion),
			Credentials: credentials.NewStaticCredentials(
				cfg.AWSAccessKey,
				cfg.AWSSecretKey,
				"",
			),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create AWS session: %v", err)
		}

		logrus.Info("AWS S3 storage initialized")
		return &Storage{
			useS3:    true,
			s3Client: s3.New(sess),
			uploader: s3manager.NewUploader(sess),
			bucket:   cfg.S3Bucket,
			region:   cfg.AWSRegion,
		}, nil
	}

	if err := os.MkdirAll(filepath.Join(cfg.UploadDir, "rooms"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %v", err)
	}

	logrus.Warn("AWS S3 not configured, using local file storage (not recommended for production)")
	return &Storage{
		useS3:     false,
		uploadDir: cfg.UploadDir,
		baseURL:   cfg.BaseURL,
	}, nil
}

// UploadImage stores an image and returns its key, e.g. "rooms/<uuid>.jpg".
func (s *Storage) UploadImage(file *multipart.FileHeader, folder string) (string, error) {
	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), filepath.Ext(file.Filename))
	if s.useS3 {
		return key, s.uploadToS3(file, key)
	}
	return key, s.uploadLocally(file, key)
}

func (s *Storage) uploadToS3(file *multipart.FileHeader, key string) error {
	if s.bucket == "" {
		return fmt.Errorf("S3 bucket name not configured")
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %v", err)
	}
	defer src.Close()

	buffer := bytes.NewBuffer(nil)
	if _, err := io.Copy(buffer, src); err != nil {
		return fmt.Errorf("failed to read file: %v", err)
	}

	_, err = s.uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buffer.Bytes()),
		ContentType: aws.String(http.DetectContentType(buffer.Bytes())),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %v", err)
	}
	return nil
}

func (s *Storage) uploadLocally(file *multipart.FileHeader, key string) error {
	path := filepath.Join(s.uploadDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create folder directory: %v", err)
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %v", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %v", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to save file: %v", err)
	}
	return nil
}

// ImageURL returns the public URL for a stored image key.
func (s *Storage) ImageURL(key string) string {
	if key == "" {
		return ""
	}
	if s.useS3 {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	}
	return fmt.Sprintf("%s/uploads/%s", s.baseURL, filepath.ToSlash(key))
}

// DeleteImage removes a stored image. Missing objects are not an error,
// so orphan cleanup after failed edits can be retried safely.
func (s *Storage) DeleteImage(key string) error {
	if key == "" {
		return nil
	}
	if s.useS3 {
		_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		return err
	}

	// Keys are server generated, but never follow one outside uploadDir.
	if strings.Contains(key, "..") {
		return fmt.Errorf("invalid image key: %s", key)
	}
	err := os.Remove(filepath.Join(s.uploadDir, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
