package documento

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("documento not found")

type Service struct {
	DB *gorm.DB

	// UploadDir is the root; files land in one subdirectory per tenant.
	UploadDir string
}

func (s *Service) List(ctx context.Context, tenantID string, processoID *string) ([]Documento, error) {
	q := s.DB.WithContext(ctx).
		Preload("Uploader").
		Preload("Processo").
		Where("tenant_id = ?", tenantID)
	if processoID != nil {
		q = q.Where("processo_id = ?", *processoID)
	}

	var rows []Documento
	err := q.Order("created_at desc").Find(&rows).Error
	return rows, err
}

func (s *Service) Upload(ctx context.Context, tenantID, uploaderID string, processoID *string, originalName, mimeType string, content io.Reader) (Documento, error) {
	tenantDir := filepath.Join(s.UploadDir, tenantID)
	if err := os.MkdirAll(tenantDir, 0o755); err != nil {
		return Documento{}, err
	}

	stored := uuid.NewString() + filepath.Ext(originalName)
	path := filepath.Join(tenantDir, stored)

	f, err := os.Create(path)
	if err != nil {
		return Documento{}, err
	}
	size, err := io.Copy(f, content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return Documento{}, err
	}

	doc := Documento{
		TenantID:     tenantID,
		ProcessoID:   processoID,
		UploaderID:   uploaderID,
		Nome:         stored,
		NomeOriginal: originalName,
		MimeType:     mimeType,
		Tamanho:      size,
		Caminho:      path,
	}
	if err := s.DB.WithContext(ctx).Create(&doc).Error; err != nil {
		_ = os.Remove(path)
		return Documento{}, err
	}
	return doc, nil
}

func (s *Service) Get(ctx context.Context, tenantID, id string) (Documento, error) {
	var doc Documento
	err := s.DB.WithContext(ctx).Where("id = ? AND tenant_id = ?", id, tenantID).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Documento{}, ErrNotFound
		}
		return Documento{}, err
	}
	return doc, nil
}

// Open returns the metadata and a reader over the stored file.
func (s *Service) Open(ctx context.Context, tenantID, id string) (Documento, *os.File, error) {
	doc, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return Documento{}, nil, err
	}
	f, err := os.Open(doc.Caminho)
	if err != nil {
		if os.IsNotExist(err) {
			return Documento{}, nil, ErrNotFound
		}
		return Documento{}, nil, err
	}
	return doc, f, nil
}

func (s *Service) Remove(ctx context.Context, tenantID, id string) error {
	doc, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := os.Remove(doc.Caminho); err != nil && !os.IsNotExist(err) {
		return err
	}
	return s.DB.WithContext(ctx).Delete(&doc).Error
}
