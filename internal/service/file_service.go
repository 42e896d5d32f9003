package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rentdesk/internal/config"
	"rentdesk/internal/domain"
	"rentdesk/internal/port"
)

// FileUploadInput is the DTO for tenancy document uploads.
type FileUploadInput struct {
	CompanyID  uuid.UUID
	TenancyID  uuid.UUID
	UploadedBy uuid.UUID
	File       multipart.File
	Header     *multipart.FileHeader
}

// FileService manages documents attached to tenancies.
type FileService interface {
	Upload(ctx context.Context, input FileUploadInput) (*domain.FileMeta, error)
	GetByID(ctx context.Context, companyID, fileID uuid.UUID) (*domain.FileMeta, error)
	ListByTenancy(ctx context.Context, companyID, tenancyID uuid.UUID, offset, limit int) ([]domain.FileMeta, int, error)
	GetDownloadURL(ctx context.Context, companyID, fileID uuid.UUID) (string, error)
	Delete(ctx context.Context, companyID, fileID uuid.UUID) error
}

type fileService struct {
	fileRepo    port.FileMetaRepository
	tenancyRepo port.TenancyRepository
	storage     port.ObjectStorage
	cfg         *config.S3Config
}

// NewFileService creates a new FileService implementation.
func NewFileService(
	fileRepo port.FileMetaRepository,
	tenancyRepo port.TenancyRepository,
	storage port.ObjectStorage,
	cfg *config.S3Config,
) FileService {
	return &fileService{
		fileRepo:    fileRepo,
		tenancyRepo: tenancyRepo,
		storage:     storage,
		cfg:         cfg,
	}
}

func (s *fileService) Upload(ctx context.Context, input FileUploadInput) (*domain.FileMeta, error) {
	if _, err := s.tenancyRepo.GetByID(ctx, input.CompanyID, input.TenancyID); err != nil {
		return nil, err
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// Magic-byte sniffing; the extension alone is not trusted.
	buf := make([]byte, 512)
	n, err := input.File.Read(buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading file header: %w", err)
	}
	detected, validContent := domain.AllowedContentTypes[http.DetectContentType(buf[:n])]
	if !validContent || detected != fileType {
		return nil, domain.ErrUnsupportedFileType
	}

	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking file: %w", err)
	}

	fileID := uuid.New()
	key := port.TenancyDocumentKey(input.CompanyID, input.TenancyID, fileID, ext)
	contentType := domain.AllowedFileTypes[fileType]

	meta := &domain.FileMeta{
		ID:           fileID,
		CompanyID:    input.CompanyID,
		TenancyID:    input.TenancyID,
		UploadedBy:   input.UploadedBy,
		FileName:     fileID.String() + "." + ext,
		OriginalName: input.Header.Filename,
		FileType:     fileType,
		FileSize:     input.Header.Size,
		S3Bucket:     s.cfg.Bucket,
		S3Key:        key,
		ContentType:  contentType,
		Status:       domain.FileStatusPending,
	}

	zap.S().Infow("fileService.Upload: uploading tenancy document",
		"file", input.Header.Filename, "content_type", contentType, "size", input.Header.Size,
		"tenancy_id", input.TenancyID, "user_id", input.UploadedBy)

	if err := s.fileRepo.Create(ctx, meta); err != nil {
		return nil, fmt.Errorf("creating file metadata: %w", err)
	}

	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		Body:        input.File,
		ContentType: contentType,
		Size:        input.Header.Size,
	})
	if err != nil {
		zap.S().Errorw("fileService.Upload: storage upload failed", "file_id", meta.ID, "error", err)
		_ = s.fileRepo.UpdateStatus(ctx, meta.CompanyID, meta.ID, domain.FileStatusFailed)
		return nil, domain.ErrUploadFailed
	}

	if err := s.fileRepo.UpdateStatus(ctx, meta.CompanyID, meta.ID, domain.FileStatusUploaded); err != nil {
		return nil, fmt.Errorf("updating file status: %w", err)
	}
	meta.Status = domain.FileStatusUploaded

	return meta, nil
}

func (s *fileService) GetByID(ctx context.Context, companyID, fileID uuid.UUID) (*domain.FileMeta, error) {
	return s.fileRepo.GetByID(ctx, companyID, fileID)
}

func (s *fileService) ListByTenancy(ctx context.Context, companyID, tenancyID uuid.UUID, offset, limit int) ([]domain.FileMeta, int, error) {
	if _, err := s.tenancyRepo.GetByID(ctx, companyID, tenancyID); err != nil {
		return nil, 0, err
	}
	return s.fileRepo.ListByTenancy(ctx, companyID, tenancyID, offset, limit)
}

func (s *fileService) GetDownloadURL(ctx context.Context, companyID, fileID uuid.UUID) (string, error) {
	meta, err := s.fileRepo.GetByID(ctx, companyID, fileID)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, meta.S3Bucket, meta.S3Key, s.cfg.PresignExpiry)
}

func (s *fileService) Delete(ctx context.Context, companyID, fileID uuid.UUID) error {
	meta, err := s.fileRepo.GetByID(ctx, companyID, fileID)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, meta.S3Bucket, meta.S3Key); err != nil {
		zap.S().Errorw("fileService.Delete: storage delete failed", "file_id", fileID, "error", err)
		return fmt.Errorf("deleting from storage: %w", err)
	}

	return s.fileRepo.Delete(ctx, companyID, fileID)
}
