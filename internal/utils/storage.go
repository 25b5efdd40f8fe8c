package utils

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ahmadqo/museum-engagement-ledger/internal/config"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// FileStorage dipakai service upload; diimplementasikan oleh StorageService (MinIO)
type FileStorage interface {
	UploadFile(ctx context.Context, folder string, data []byte, contentType string) (*UploadResult, error)
	DeleteFile(ctx context.Context, fileURL string) error
}

type StorageService struct {
	client   *minio.Client
	bucket   string
	endpoint string
}

type UploadResult struct {
	FileURL  string `json:"file_url"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
}

// Tipe file yang boleh diunggah: gambar karya/background sertifikat dan audio guide
var AllowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

var AllowedAudioTypes = map[string]string{
	"audio/mpeg": ".mp3",
	"audio/ogg":  ".ogg",
	"audio/wav":  ".wav",
}

const (
	MaxImageFileSize = 10 * 1024 * 1024 // 10 MB
	MaxAudioFileSize = 30 * 1024 * 1024 // 30 MB
)

func NewStorageService(ctx context.Context, cfg *config.MinIOConfig) (*StorageService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.User, cfg.Password, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	// Pastikan bucket ada
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}

	return &StorageService{
		client:   client,
		bucket:   cfg.Bucket,
		endpoint: fmt.Sprintf("%s://%s", scheme, cfg.Endpoint),
	}, nil
}

// ExtensionFor memvalidasi content type dan ukuran, lalu mengembalikan ekstensi file
func ExtensionFor(contentType string, size int) (string, error) {
	if ext, ok := AllowedImageTypes[contentType]; ok {
		if size > MaxImageFileSize {
			return "", fmt.Errorf("ukuran gambar melebihi batas maksimal 10MB")
		}
		return ext, nil
	}
	if ext, ok := AllowedAudioTypes[contentType]; ok {
		if size > MaxAudioFileSize {
			return "", fmt.Errorf("ukuran audio melebihi batas maksimal 30MB")
		}
		return ext, nil
	}
	return "", fmt.Errorf("tipe file tidak diizinkan: %s", contentType)
}

// UploadFile upload file ke MinIO dan kembalikan URL-nya
func (s *StorageService) UploadFile(ctx context.Context, folder string, data []byte, contentType string) (*UploadResult, error) {
	ext, err := ExtensionFor(contentType, len(data))
	if err != nil {
		return nil, err
	}

	// Generate nama file unik
	fileName := fmt.Sprintf("%s/%s-%s%s",
		folder,
		time.Now().Format("20060102"),
		uuid.New().String()[:8],
		ext,
	)

	reader := bytes.NewReader(data)
	_, err = s.client.PutObject(ctx, s.bucket, fileName, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("gagal upload file: %w", err)
	}

	return &UploadResult{
		FileURL:  fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, fileName),
		FileName: filepath.Base(fileName),
		FileSize: int64(len(data)),
	}, nil
}

// DeleteFile hapus file dari MinIO
func (s *StorageService) DeleteFile(ctx context.Context, fileURL string) error {
	prefix := fmt.Sprintf("%s/%s/", s.endpoint, s.bucket)
	if !strings.HasPrefix(fileURL, prefix) {
		return fmt.Errorf("URL bukan milik bucket %s", s.bucket)
	}
	objectName := strings.TrimPrefix(fileURL, prefix)

	return s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
}
