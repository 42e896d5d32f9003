package service_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentdesk/internal/config"
	"rentdesk/internal/domain"
	"rentdesk/internal/port"
	"rentdesk/internal/service"
	"rentdesk/mocks"
)

func testS3Config() config.S3Config {
	return config.S3Config{
		Region:        "me-central-1",
		Bucket:        "rentdesk-test",
		MaxFileSizeMB: 1,
		PresignExpiry: 900,
	}
}

func createMultipartFile(filename string, content []byte, contentType string) (multipart.File, *multipart.FileHeader) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)

	part, _ := writer.CreatePart(h)
	_, _ = part.Write(content)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, _ := reader.ReadForm(int64(len(content) + 1024))
	file, _ := form.File["file"][0].Open()
	return file, form.File["file"][0]
}

func pdfContent() []byte {
	return []byte("%PDF-1.4 signed tenancy contract for the marina tower unit")
}

func pngContent() []byte {
	header := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	return append(header, bytes.Repeat([]byte{0x00}, 100)...)
}

type fileFixture struct {
	svc       service.FileService
	files     *mocks.MockFileMetaRepo
	tenancies *mocks.MockTenancyRepo
	storage   *mocks.MockObjectStorage
	companyID uuid.UUID
	tenancyID uuid.UUID
}

func newFileFixture() *fileFixture {
	cfg := testS3Config()
	f := &fileFixture{
		files:     new(mocks.MockFileMetaRepo),
		tenancies: new(mocks.MockTenancyRepo),
		storage:   new(mocks.MockObjectStorage),
		companyID: uuid.New(),
		tenancyID: uuid.New(),
	}
	f.svc = service.NewFileService(f.files, f.tenancies, f.storage, &cfg)
	return f
}

func (f *fileFixture) expectTenancy() {
	f.tenancies.On("GetByID", mock.Anything, f.companyID, f.tenancyID).
		Return(&domain.Tenancy{ID: f.tenancyID, CompanyID: f.companyID}, nil)
}

func TestFileService_Upload_PDF(t *testing.T) {
	f := newFileFixture()
	f.expectTenancy()
	userID := uuid.New()

	file, header := createMultipartFile("contract.pdf", pdfContent(), "application/pdf")
	defer file.Close()

	f.files.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.FileMeta) bool {
		return m.TenancyID == f.tenancyID && m.Status == domain.FileStatusPending && m.OriginalName == "contract.pdf"
	})).Return(nil)
	f.storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "rentdesk-test" && in.ContentType == "application/pdf"
	})).Return(&port.UploadOutput{Location: "s3://rentdesk-test/x", ETag: "abc"}, nil)
	f.files.On("UpdateStatus", mock.Anything, f.companyID, mock.AnythingOfType("uuid.UUID"), domain.FileStatusUploaded).Return(nil)

	meta, err := f.svc.Upload(context.Background(), service.FileUploadInput{
		CompanyID: f.companyID, TenancyID: f.tenancyID, UploadedBy: userID, File: file, Header: header,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.FileTypePDF, meta.FileType)
	assert.Equal(t, domain.FileStatusUploaded, meta.Status)
	assert.Equal(t, port.TenancyDocumentKey(f.companyID, f.tenancyID, meta.ID, "pdf"), meta.S3Key)
	f.files.AssertExpectations(t)
	f.storage.AssertExpectations(t)
}

func TestFileService_Upload_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  []byte
		want     error
	}{
		{"unsupported extension", "lease.docx", pdfContent(), domain.ErrUnsupportedFileType},
		{"content does not match extension", "photo.pdf", pngContent(), domain.ErrUnsupportedFileType},
		{"too large", "scan.png", append(pngContent(), bytes.Repeat([]byte{0x01}, 1024*1024)...), domain.ErrFileTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFileFixture()
			f.expectTenancy()
			file, header := createMultipartFile(tt.filename, tt.content, "application/octet-stream")
			defer file.Close()

			_, err := f.svc.Upload(context.Background(), service.FileUploadInput{
				CompanyID: f.companyID, TenancyID: f.tenancyID, File: file, Header: header,
			})
			assert.ErrorIs(t, err, tt.want)
			f.files.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestFileService_Upload_UnknownTenancy(t *testing.T) {
	f := newFileFixture()
	f.tenancies.On("GetByID", mock.Anything, f.companyID, f.tenancyID).Return(nil, domain.ErrTenancyNotFound)
	file, header := createMultipartFile("contract.pdf", pdfContent(), "application/pdf")
	defer file.Close()

	_, err := f.svc.Upload(context.Background(), service.FileUploadInput{
		CompanyID: f.companyID, TenancyID: f.tenancyID, File: file, Header: header,
	})
	assert.ErrorIs(t, err, domain.ErrTenancyNotFound)
}

func TestFileService_Upload_StorageFailureMarksFailed(t *testing.T) {
	f := newFileFixture()
	f.expectTenancy()
	file, header := createMultipartFile("id.png", pngContent(), "image/png")
	defer file.Close()

	f.files.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))
	f.files.On("UpdateStatus", mock.Anything, f.companyID, mock.AnythingOfType("uuid.UUID"), domain.FileStatusFailed).Return(nil)

	_, err := f.svc.Upload(context.Background(), service.FileUploadInput{
		CompanyID: f.companyID, TenancyID: f.tenancyID, File: file, Header: header,
	})
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	f.files.AssertExpectations(t)
}

func TestFileService_GetDownloadURL(t *testing.T) {
	f := newFileFixture()
	fileID := uuid.New()
	f.files.On("GetByID", mock.Anything, f.companyID, fileID).
		Return(&domain.FileMeta{ID: fileID, S3Bucket: "rentdesk-test", S3Key: "k"}, nil)
	f.storage.On("GetPresignedURL", mock.Anything, "rentdesk-test", "k", int64(900)).Return("https://signed", nil)

	url, err := f.svc.GetDownloadURL(context.Background(), f.companyID, fileID)
	require.NoError(t, err)
	assert.Equal(t, "https://signed", url)
}

func TestFileService_Delete_KeepsMetadataWhenStorageFails(t *testing.T) {
	f := newFileFixture()
	fileID := uuid.New()
	f.files.On("GetByID", mock.Anything, f.companyID, fileID).
		Return(&domain.FileMeta{ID: fileID, S3Bucket: "rentdesk-test", S3Key: "k"}, nil)
	f.storage.On("Delete", mock.Anything, "rentdesk-test", "k").Return(errors.New("denied"))

	err := f.svc.Delete(context.Background(), f.companyID, fileID)
	assert.Error(t, err)
	f.files.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
