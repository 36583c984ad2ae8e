package storage

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
)

// MediaStore abstracts the object store holding uploaded media. Upload places
// a blob and PublicURL returns the durable URL the stored rows reference.
type MediaStore interface {
	Upload(key string, body io.Reader, contentType string) error
	PublicURL(key string) string
	ItemKey(memorialID uint, filename string) string
}

// S3MediaStore implements MediaStore against an S3 bucket with public reads
type S3MediaStore struct {
	uploader *s3manager.Uploader
	region   string
	bucket   string
	prefix   string
}

// NewS3MediaStore creates an S3MediaStore using the default credential chain
func NewS3MediaStore(region, bucket, prefix string) (*S3MediaStore, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return &S3MediaStore{
		uploader: s3manager.NewUploader(sess),
		region:   region,
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
	}, nil
}

// Upload stores a blob under the given key
func (s *S3MediaStore) Upload(key string, body io.Reader, contentType string) error {
	_, err := s.uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.remoteKey(key)),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	return err
}

// PublicURL returns the public URL for a stored object
func (s *S3MediaStore) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, s.remoteKey(key))
}

// ItemKey builds a randomized per-memorial object key for an upload,
// preserving the original file extension
func (s *S3MediaStore) ItemKey(memorialID uint, filename string) string {
	ext := path.Ext(filename)
	return fmt.Sprintf("%d/%s%s", memorialID, uuid.NewString(), ext)
}

func (s *S3MediaStore) remoteKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}
