package scan

import (
	"context"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"leftys-backend/domain"
	"leftys-backend/entities"
)

type fakeS3 struct {
	uploads []string
}

func (f *fakeS3) UploadFile(fileName string, file *multipart.FileHeader, dir string, allowedExt ...string) (string, error) {
	key := dir + "/" + fileName
	f.uploads = append(f.uploads, key)
	return key, nil
}

func (f *fakeS3) DeleteFile(objectKey string) error { return nil }

func (f *fakeS3) GetPublicLinkKey(objectKey string) string {
	return "https://cdn.test/" + objectKey
}

func (f *fakeS3) GetObjectKeyFromLink(link string) string { return "" }

func setupScanService(t *testing.T) (ScanService, *fakeS3, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Account{}, &entities.ScanRecord{}))

	ownerID := uuid.New()
	require.NoError(t, db.Create(&entities.Account{ID: ownerID, Auth0ID: "auth0|scan"}).Error)

	s3 := &fakeS3{}
	return NewScanService(NewScanRepository(db), s3), s3, ownerID.String()
}

func fileHeader(name, contentType string) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: name,
		Header: textproto.MIMEHeader{
			"Content-Type": []string{contentType},
		},
	}
}

func TestUploadScanRejectsNonImage(t *testing.T) {
	svc, s3, ownerID := setupScanService(t)

	_, err := svc.UploadScan(context.Background(), ownerID, domain.UploadScanRequest{
		Image: fileHeader("label.pdf", "application/pdf"),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidImageFormat)
	assert.Empty(t, s3.uploads)
}

func TestUploadScanRejectsGif(t *testing.T) {
	svc, _, ownerID := setupScanService(t)

	_, err := svc.UploadScan(context.Background(), ownerID, domain.UploadScanRequest{
		Image: fileHeader("label.gif", "image/gif"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidImageFormat)
}

func TestUploadScanStoresRecord(t *testing.T) {
	svc, s3, ownerID := setupScanService(t)

	res, err := svc.UploadScan(context.Background(), ownerID, domain.UploadScanRequest{
		Image:      fileHeader("label.jpg", "image/jpeg"),
		Title:      "Almond Milk",
		RawText:    "ALMOND MILK BEST BY 2026-09-01",
		ExpiryDate: "2026-09-01",
		Allergens:  []string{"nuts"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Almond Milk", res.Title)
	assert.Equal(t, []string{"nuts"}, res.Allergens)
	require.NotNil(t, res.ExpiryDate)
	assert.Equal(t, "2026-09-01", *res.ExpiryDate)
	assert.Equal(t, "image/jpeg", res.MimeType)
	assert.Contains(t, res.ImageURL, "https://cdn.test/scans/")
	require.Len(t, s3.uploads, 1)
}

func TestUploadScanFiltersUnknownAllergens(t *testing.T) {
	svc, _, ownerID := setupScanService(t)

	res, err := svc.UploadScan(context.Background(), ownerID, domain.UploadScanRequest{
		Image:     fileHeader("label.jpg", "image/jpeg"),
		Allergens: []string{"dairy", "BEST BY", "gluten"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"dairy", "gluten"}, res.Allergens)
}

func TestUploadScanRejectsBadExpiry(t *testing.T) {
	svc, _, ownerID := setupScanService(t)

	_, err := svc.UploadScan(context.Background(), ownerID, domain.UploadScanRequest{
		Image:      fileHeader("label.png", "image/png"),
		ExpiryDate: "soon",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidExpiryDate)
}

func TestGetScansNewestFirst(t *testing.T) {
	svc, _, ownerID := setupScanService(t)

	for _, title := range []string{"first", "second"} {
		_, err := svc.UploadScan(context.Background(), ownerID, domain.UploadScanRequest{
			Image: fileHeader("label.jpg", "image/jpeg"),
			Title: title,
		})
		require.NoError(t, err)
	}

	records, err := svc.GetScans(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestGetScansScopedToOwner(t *testing.T) {
	svc, _, ownerID := setupScanService(t)

	_, err := svc.UploadScan(context.Background(), ownerID, domain.UploadScanRequest{
		Image: fileHeader("label.jpg", "image/jpeg"),
	})
	require.NoError(t, err)

	records, err := svc.GetScans(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, records)
}
