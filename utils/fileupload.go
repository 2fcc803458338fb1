package utils

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize caps a single order photo
const MaxImageSize = 5 << 20

// imageTypes maps accepted content types to the extension used in storage keys
var imageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

// FileUploadError is a rejected upload; Code is returned to the client
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// Image is an upload that passed validation
type Image struct {
	Content     []byte
	ContentType string
	Ext         string
}

// ReadImage reads an uploaded photo and validates its size and format. The
// format is sniffed from the bytes; the client's filename is not trusted.
func ReadImage(fileHeader *multipart.FileHeader) (*Image, error) {
	if fileHeader.Size > MaxImageSize {
		return nil, tooLarge()
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(content) > MaxImageSize {
		return nil, tooLarge()
	}

	detected := mimetype.Detect(content)
	for contentType, ext := range imageTypes {
		if detected.Is(contentType) {
			return &Image{Content: content, ContentType: contentType, Ext: ext}, nil
		}
	}
	return nil, &FileUploadError{
		Code:    "INVALID_FILE_FORMAT",
		Message: "Only PNG and JPEG images are allowed",
	}
}

func tooLarge() *FileUploadError {
	return &FileUploadError{
		Code:    "FILE_TOO_LARGE",
		Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxImageSize>>20),
	}
}
