package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/hadir-app/hadir-backend/internal/pkg/storage"
)

const (
	avatarMaxSide = 512

	photoMaxBytes = 150 * 1024
	photoMinBytes = 50 * 1024
)

var imageExts = []string{".jpg", ".jpeg", ".png"}

type FileService interface {
	// UploadAvatar stores a square-bounded JPEG under the avatar scheme.
	UploadAvatar(ctx context.Context, divisionID *string, userID string, file io.Reader, filename string) (string, error)

	// UploadAttendancePhoto compresses a check-in or check-out photo.
	UploadAttendancePhoto(ctx context.Context, userID string, action string, at time.Time, file io.Reader, filename string) (string, error)

	// UploadLeaveAttachment stores the file as is.
	UploadLeaveAttachment(ctx context.Context, divisionID *string, userID string, at time.Time, file io.Reader, filename string) (string, error)

	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

func isImage(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range imageExts {
		if ext == allowed {
			return true
		}
	}
	return false
}

// UploadAvatar implements FileService.
func (s *fileServiceImpl) UploadAvatar(ctx context.Context, divisionID *string, userID string, file io.Reader, filename string) (string, error) {
	if !isImage(filename) {
		return "", fmt.Errorf("invalid file type: only jpg, jpeg, png allowed")
	}

	img, _, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("failed to decode avatar: %w", err)
	}

	bounds := img.Bounds()
	if w, h := bounds.Dx(), bounds.Dy(); w > avatarMaxSide || h > avatarMaxSide {
		scale := float64(avatarMaxSide) / math.Max(float64(w), float64(h))
		img = resizeImage(img, int(float64(w)*scale), int(float64(h)*scale))
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode avatar: %w", err)
	}

	path := storage.AvatarPath(divisionID, userID, uuid.New().String())
	uploadedPath, err := s.storage.Upload(ctx, buf, path, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	return uploadedPath, nil
}

// UploadAttendancePhoto implements FileService. The photo is re-encoded as
// JPEG and shrunk toward 50KB - 150KB.
func (s *fileServiceImpl) UploadAttendancePhoto(ctx context.Context, userID string, action string, at time.Time, file io.Reader, filename string) (string, error) {
	if !isImage(filename) {
		return "", fmt.Errorf("invalid file type: only jpg, jpeg, png allowed")
	}

	buffer, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	compressed, err := compressImage(buffer, photoMaxBytes, photoMinBytes)
	if err != nil {
		return "", fmt.Errorf("failed to compress image: %w", err)
	}

	path := storage.AttendancePhotoPath(userID, action, at)
	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(compressed), path, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload attendance photo: %w", err)
	}

	return uploadedPath, nil
}

// UploadLeaveAttachment implements FileService.
func (s *fileServiceImpl) UploadLeaveAttachment(ctx context.Context, divisionID *string, userID string, at time.Time, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	contentType := "application/octet-stream"
	switch ext {
	case ".pdf":
		contentType = "application/pdf"
	case ".png":
		contentType = "image/png"
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	}

	path := storage.LeaveAttachmentPath(divisionID, userID, at, uuid.New().String(), ext)
	uploadedPath, err := s.storage.Upload(ctx, file, path, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload leave attachment: %w", err)
	}

	return uploadedPath, nil
}

// DeleteFile implements FileService.
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

// GetFileURL implements FileService.
func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string) (string, error) {
	return s.storage.GetURL(ctx, path, 0)
}

// compressImage re-encodes buffer as JPEG, lowering quality and then the
// resolution until it fits under maxSize.
func compressImage(buffer []byte, maxSize int, minSize int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var compressed []byte
	for quality := 85; quality >= 50; quality -= 5 {
		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		compressed = buf.Bytes()

		if len(compressed) <= maxSize {
			return compressed, nil
		}
	}

	// Still too large: scale toward the middle of the range.
	target := float64(minSize+maxSize) / 2
	ratio := math.Sqrt(target / float64(len(compressed)))
	bounds := img.Bounds()
	width := int(float64(bounds.Dx()) * ratio)
	height := int(float64(bounds.Dy()) * ratio)
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, resizeImage(img, width, height), &jpeg.Options{Quality: 70}); err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}
	return buf.Bytes(), nil
}

// resizeImage scales src to width x height with CatmullRom interpolation.
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
