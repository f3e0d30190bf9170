// internal/profile/filestore.go

package profile

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
)

// FileStore keeps payment-proof uploads and hands back an opaque URL
type FileStore interface {
	Save(ctx context.Context, folder, filename, contentType string, body io.ReadSeeker) (string, error)
	Delete(ctx context.Context, url string) error
}

// objectName builds a collision-free name that keeps the original extension
func objectName(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s_%d%s", folder, uuid.New().String(), time.Now().Unix(), ext)
}

// LocalFileStore writes uploads under a directory served by the API
type LocalFileStore struct {
	uploadDir string
	baseURL   string
}

// NewLocalFileStore creates a disk-backed store
func NewLocalFileStore(uploadDir, baseURL string) *LocalFileStore {
	return &LocalFileStore{uploadDir: uploadDir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalFileStore) Save(ctx context.Context, folder, filename, contentType string, body io.ReadSeeker) (string, error) {
	name := objectName(folder, filename)
	fullPath := filepath.Join(s.uploadDir, filepath.FromSlash(name))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, body); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return s.baseURL + "/" + name, nil
}

func (s *LocalFileStore) Delete(ctx context.Context, url string) error {
	rel, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok {
		return fmt.Errorf("url %q is not served by this store", url)
	}
	if strings.Contains(rel, "..") {
		return fmt.Errorf("invalid file path %q", rel)
	}

	if err := os.Remove(filepath.Join(s.uploadDir, filepath.FromSlash(rel))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// S3FileStore keeps uploads in a private S3 bucket
type S3FileStore struct {
	client  s3iface.S3API
	bucket  string
	baseURL string
}

// NewS3FileStore creates an S3-backed store using the default credential chain
func NewS3FileStore(bucket, region string) (*S3FileStore, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return newS3FileStore(s3.New(sess), bucket, region), nil
}

func newS3FileStore(client s3iface.S3API, bucket, region string) *S3FileStore {
	return &S3FileStore{
		client:  client,
		bucket:  bucket,
		baseURL: fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region),
	}
}

func (s *S3FileStore) Save(ctx context.Context, folder, filename, contentType string, body io.ReadSeeker) (string, error) {
	key := objectName(folder, filename)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// No ACL: proofs stay private to the bucket owner
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return s.baseURL + "/" + key, nil
}

func (s *S3FileStore) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok {
		return fmt.Errorf("url %q is not in bucket %s", url, s.bucket)
	}

	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}
