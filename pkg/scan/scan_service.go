package scan

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"leftys-backend/domain"
	"leftys-backend/entities"
	"leftys-backend/internal/utils/storage"
)

const scanHistoryLimit = 50

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

type (
	ScanService interface {
		UploadScan(ctx context.Context, ownerID string, req domain.UploadScanRequest) (domain.ScanRecordResponse, error)
		GetScans(ctx context.Context, ownerID string) ([]domain.ScanRecordResponse, error)
	}

	scanService struct {
		scanRepository ScanRepository
		s3             storage.AwsS3
	}
)

func NewScanService(scanRepository ScanRepository, s3 storage.AwsS3) ScanService {
	return &scanService{
		scanRepository: scanRepository,
		s3:             s3,
	}
}

func (s *scanService) UploadScan(ctx context.Context, ownerID string, req domain.UploadScanRequest) (domain.ScanRecordResponse, error) {
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return domain.ScanRecordResponse{}, domain.ErrParseUUID
	}

	// The declared content type is checked before touching storage so a
	// rejected upload never leaves an orphaned object behind.
	mimeType := req.Image.Header.Get("Content-Type")
	if !allowedMimeTypes[mimeType] {
		return domain.ScanRecordResponse{}, domain.ErrInvalidImageFormat
	}

	recordID := uuid.New()
	objectKey, err := s.s3.UploadFile(recordID.String(), req.Image, "scans", storage.AllowImage...)
	if err != nil {
		return domain.ScanRecordResponse{}, err
	}

	record := &entities.ScanRecord{
		ID:        recordID,
		OwnerID:   ownerUUID,
		Title:     req.Title,
		Allergens: datatypes.NewJSONSlice(knownAllergens(req.Allergens)),
		RawText:   req.RawText,
		Notes:     req.Notes,
		MimeType:  mimeType,
		ImageURL:  s.s3.GetPublicLinkKey(objectKey),
	}

	if req.ExpiryDate != "" {
		expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			return domain.ScanRecordResponse{}, domain.ErrInvalidExpiryDate
		}
		record.ExpiryDate = &expiry
	}

	if err := s.scanRepository.CreateScan(ctx, record); err != nil {
		return domain.ScanRecordResponse{}, err
	}

	return recordToResponse(record), nil
}

func (s *scanService) GetScans(ctx context.Context, ownerID string) ([]domain.ScanRecordResponse, error) {
	records, err := s.scanRepository.FindScansByOwner(ctx, ownerID, scanHistoryLimit)
	if err != nil {
		return nil, err
	}

	response := make([]domain.ScanRecordResponse, 0, len(records))
	for _, record := range records {
		response = append(response, recordToResponse(record))
	}
	return response, nil
}

// knownAllergens drops values outside the supported allergen list; OCR and
// free-form client input produce plenty of noise here.
func knownAllergens(raw []string) []string {
	filtered := make([]string, 0, len(raw))
	for _, a := range raw {
		for _, known := range domain.Allergens {
			if a == known {
				filtered = append(filtered, a)
				break
			}
		}
	}
	return filtered
}

func recordToResponse(record *entities.ScanRecord) domain.ScanRecordResponse {
	var expiry *string
	if record.ExpiryDate != nil {
		formatted := record.ExpiryDate.Format("2006-01-02")
		expiry = &formatted
	}

	return domain.ScanRecordResponse{
		ID:         record.ID.String(),
		Title:      record.Title,
		Allergens:  record.Allergens,
		ExpiryDate: expiry,
		RawText:    record.RawText,
		Notes:      record.Notes,
		MimeType:   record.MimeType,
		ImageURL:   record.ImageURL,
		CreatedAt:  record.CreatedAt.Format(time.RFC3339),
	}
}
