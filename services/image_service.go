package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/homeservices/booking-api/utils"
	"github.com/sirupsen/logrus"
)

// imagePrefix is the key namespace for order photos
const imagePrefix = "orders/"

// ImageService stores order photos and turns their keys into links
type ImageService interface {
	// UploadImage validates an uploaded photo and returns its storage key
	UploadImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error)
	GetImageURL(ctx context.Context, key string) (string, error)
	DeleteImage(ctx context.Context, key string) error
}

// StoredImageService implements ImageService on an ObjectStore
type StoredImageService struct {
	store ObjectStore
}

var imageServiceInstance ImageService

// InitImageService installs the process-wide image service backed by store
func InitImageService(store ObjectStore) ImageService {
	imageServiceInstance = &StoredImageService{store: store}
	return imageServiceInstance
}

// GetImageService returns the image service, or nil when image storage is
// not configured
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService replaces the image service (nil disables uploads)
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

func (s *StoredImageService) UploadImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	image, err := utils.ReadImage(fileHeader)
	if err != nil {
		return "", err
	}

	key := imagePrefix + uuid.NewString() + image.Ext
	if err := s.store.Put(ctx, key, image.Content, image.ContentType); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"key":          key,
		"content_type": image.ContentType,
		"size":         len(image.Content),
	}).Info("Image stored")
	return key, nil
}

func (s *StoredImageService) GetImageURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	return s.store.PresignGet(ctx, key)
}

func (s *StoredImageService) DeleteImage(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.store.Delete(ctx, key)
}
