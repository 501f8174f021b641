package service

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/platefile/backend/config"
)

// DocumentService archives uploaded source documents in S3 so a recipe
// can always point back at the document it was extracted from. Upload
// failure is the caller's business to absorb; extraction proceeds from
// the in-memory bytes either way.
type DocumentService struct {
	s3Config *config.S3Config
}

// NewDocumentService creates a new DocumentService instance
func NewDocumentService(s3Config *config.S3Config) *DocumentService {
	return &DocumentService{s3Config: s3Config}
}

// Upload stores the document and returns its public URL.
func (s *DocumentService) Upload(ctx context.Context, data []byte, mediaType string) (string, error) {
	if mediaType == "" {
		mediaType = "application/pdf"
	}
	fileName := fmt.Sprintf("source-documents/%s%s", uuid.New().String(), extensionFor(mediaType))

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mediaType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	log.Printf("[DocumentService] archived source document at %s", publicURL)

	return publicURL, nil
}

func extensionFor(mediaType string) string {
	switch mediaType {
	case "application/pdf":
		return ".pdf"
	case "text/plain":
		return ".txt"
	default:
		return ""
	}
}
