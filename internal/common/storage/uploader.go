// internal/common/storage/uploader.go
// Object store collaborator: put(path, bytes, contentType) -> public URL.
// S3-backed in production with a local-directory fallback for development.

package storage

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

// Config holds uploader configuration
type Config struct {
	UseS3          bool
	S3Bucket       string
	AWSRegion      string
	LocalUploadDir string
	BaseURL        string
}

// Uploader persists media blobs and returns publicly readable URLs
type Uploader struct {
	s3Client   *s3.S3
	bucketName string
	baseURL    string
	uploadDir  string
	useS3      bool
}

// NewUploader creates an uploader for the configured backend
func NewUploader(config Config) (*Uploader, error) {
	u := &Uploader{
		bucketName: config.S3Bucket,
		baseURL:    config.BaseURL,
		uploadDir:  config.LocalUploadDir,
		useS3:      config.UseS3,
	}

	if config.UseS3 {
		sess, err := session.NewSession(&aws.Config{
			Region: aws.String(config.AWSRegion),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create AWS session: %w", err)
		}
		u.s3Client = s3.New(sess)
	} else {
		if err := os.MkdirAll(config.LocalUploadDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create upload directory: %w", err)
		}
	}

	return u, nil
}

// UploadFile stores a multipart file under the given folder and returns its URL
func (u *Uploader) UploadFile(folder string, file multipart.File, header *multipart.FileHeader) (string, error) {
	if err := u.validateFile(header); err != nil {
		return "", err
	}

	filename := u.generateFilename(header.Filename)

	if u.useS3 {
		return u.uploadToS3(folder, filename, file, header)
	}
	return u.uploadToLocal(folder, filename, file)
}

func (u *Uploader) uploadToS3(folder, filename string, file multipart.File, header *multipart.FileHeader) (string, error) {
	buffer := bytes.NewBuffer(nil)
	if _, err := io.Copy(buffer, file); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	key := fmt.Sprintf("%s/%s/%s", folder, time.Now().Format("2006/01/02"), filename)

	_, err := u.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:             aws.String(u.bucketName),
		Key:                aws.String(key),
		Body:               bytes.NewReader(buffer.Bytes()),
		ContentType:        aws.String(header.Header.Get("Content-Type")),
		ContentDisposition: aws.String("inline"),
		ACL:                aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", u.bucketName, key), nil
}

func (u *Uploader) uploadToLocal(folder, filename string, file multipart.File) (string, error) {
	dateDir := time.Now().Format("2006/01/02")
	fullDir := filepath.Join(u.uploadDir, folder, dateDir)

	if err := os.MkdirAll(fullDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	destPath := filepath.Join(fullDir, filename)
	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, file); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	urlPath := fmt.Sprintf("/uploads/%s/%s/%s", folder, dateDir, filename)
	return u.baseURL + urlPath, nil
}

// DeleteFile removes a previously uploaded file by its public URL
func (u *Uploader) DeleteFile(fileURL string) error {
	if u.useS3 {
		key := strings.TrimPrefix(fileURL, fmt.Sprintf("https://%s.s3.amazonaws.com/", u.bucketName))
		_, err := u.s3Client.DeleteObject(&s3.DeleteObjectInput{
			Bucket: aws.String(u.bucketName),
			Key:    aws.String(key),
		})
		return err
	}

	urlPath := strings.TrimPrefix(fileURL, u.baseURL)
	localPath := filepath.Join(u.uploadDir, strings.TrimPrefix(urlPath, "/uploads/"))
	return os.Remove(localPath)
}

func (u *Uploader) validateFile(header *multipart.FileHeader) error {
	maxSize := int64(10 << 20) // 10MB
	if header.Size > maxSize {
		return fmt.Errorf("file size exceeds maximum of 10MB")
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	allowedExts := map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
		".mp4":  true,
		".mov":  true,
		".glb":  true,
		".gltf": true,
	}

	if !allowedExts[ext] {
		return fmt.Errorf("file type not allowed")
	}

	return nil
}

func (u *Uploader) generateFilename(originalName string) string {
	ext := filepath.Ext(originalName)
	return fmt.Sprintf("%s_%d%s", uuid.New().String(), time.Now().Unix(), ext)
}

// MediaType classifies a stored URL as image, video or model
func MediaType(url string) string {
	switch strings.ToLower(filepath.Ext(url)) {
	case ".mp4", ".mov":
		return "video"
	case ".glb", ".gltf":
		return "model"
	default:
		return "image"
	}
}
