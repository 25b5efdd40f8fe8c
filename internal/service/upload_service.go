package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmadqo/museum-engagement-ledger/internal/utils"
)

var ErrStorageUnavailable = errors.New("penyimpanan file tidak tersedia")

type UploadKind string

const (
	UploadImage UploadKind = "images"
	UploadAudio UploadKind = "audio"
)

type UploadService interface {
	Upload(ctx context.Context, actor Actor, kind UploadKind, data []byte, contentType string) (*utils.UploadResult, error)
	Delete(ctx context.Context, actor Actor, fileURL string) error
}

type uploadService struct {
	storage utils.FileStorage
}

// NewUploadService: storage nil berarti MinIO tidak terkonfigurasi
func NewUploadService(storage utils.FileStorage) UploadService {
	return &uploadService{storage: storage}
}

func tenantFolder(actor Actor, kind UploadKind) (string, error) {
	tenantID, err := actor.scopeTenant()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("tenants/%s/%s", tenantID, kind), nil
}

func (s *uploadService) Upload(ctx context.Context, actor Actor, kind UploadKind, data []byte, contentType string) (*utils.UploadResult, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	allowed := utils.AllowedImageTypes
	if kind == UploadAudio {
		allowed = utils.AllowedAudioTypes
	}
	if _, ok := allowed[contentType]; !ok {
		return nil, badInputf("tipe file tidak diizinkan: %s", contentType)
	}
	if _, err := utils.ExtensionFor(contentType, len(data)); err != nil {
		return nil, badInput(err.Error())
	}

	folder, err := tenantFolder(actor, kind)
	if err != nil {
		return nil, err
	}
	return s.storage.UploadFile(ctx, folder, data, contentType)
}

// Delete: ADMIN hanya boleh menghapus file di folder tenant-nya
func (s *uploadService) Delete(ctx context.Context, actor Actor, fileURL string) error {
	if s.storage == nil {
		return ErrStorageUnavailable
	}
	if !actor.IsMaster() {
		tenantID, err := actor.scopeTenant()
		if err != nil {
			return err
		}
		if !strings.Contains(fileURL, fmt.Sprintf("/tenants/%s/", tenantID)) {
			return forbidden("File bukan milik museu ini")
		}
	}
	if err := s.storage.DeleteFile(ctx, fileURL); err != nil {
		return badInput(err.Error())
	}
	return nil
}
