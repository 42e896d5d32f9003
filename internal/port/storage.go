package port

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// UploadInput encapsulates the parameters needed to upload an object.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
}

// UploadOutput contains the result of a successful upload.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage abstracts the bucket holding tenancy documents.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Delete(ctx context.Context, bucket, key string) error
	GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error)
}

// TenancyDocumentKey is the object key of a document attached to a tenancy.
func TenancyDocumentKey(companyID, tenancyID, fileID uuid.UUID, ext string) string {
	return fmt.Sprintf("companies/%s/tenancies/%s/%s.%s", companyID, tenancyID, fileID, ext)
}
