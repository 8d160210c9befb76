package file

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadir-app/hadir-backend/internal/pkg/storage"
)

func newTestService(t *testing.T) (FileService, *storage.LocalStorage) {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads/")
	require.NoError(t, err)
	return NewFileService(local), local
}

func pngOf(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), uint8(x ^ y), 255})
		}
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf
}

func TestUploadAvatar_ResizesAndStoresJPEG(t *testing.T) {
	svc, local := newTestService(t)
	ctx := context.Background()
	division := "div-1"

	path, err := svc.UploadAvatar(ctx, &division, "user-1", pngOf(t, 1024, 768), "me.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "avatars/div-1/user-1/"), path)
	assert.True(t, strings.HasSuffix(path, ".jpg"), path)

	rc, err := local.Download(ctx, path)
	require.NoError(t, err)
	defer rc.Close()
	img, err := jpeg.Decode(rc)
	require.NoError(t, err)
	assert.Equal(t, 512, img.Bounds().Dx())
	assert.Equal(t, 384, img.Bounds().Dy())
}

func TestUploadAvatar_RejectsNonImages(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.UploadAvatar(context.Background(), nil, "user-1", bytes.NewBufferString("%PDF"), "cv.pdf")
	assert.Error(t, err)

	_, err = svc.UploadAvatar(context.Background(), nil, "user-1", bytes.NewBufferString("garbage"), "fake.png")
	assert.Error(t, err)
}

func TestUploadAttendancePhoto_Path(t *testing.T) {
	svc, local := newTestService(t)
	ctx := context.Background()
	at := time.Date(2025, time.March, 4, 8, 1, 0, 0, time.UTC)

	path, err := svc.UploadAttendancePhoto(ctx, "user-1", "check_in", at, pngOf(t, 64, 64), "selfie.png")
	require.NoError(t, err)
	assert.Equal(t, "attendance/2025/03/04/user-1-check_in-1741075260.jpg", path)

	ok, err := local.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUploadLeaveAttachment_KeepsExtension(t *testing.T) {
	svc, _ := newTestService(t)
	at := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	path, err := svc.UploadLeaveAttachment(context.Background(), nil, "user-1", at, bytes.NewBufferString("%PDF-1.4"), "Surat.PDF")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "leaves/unassigned/user-1/2025/07/"), path)
	assert.True(t, strings.HasSuffix(path, ".pdf"), path)
}

func TestCompressImage_ShrinksLargeInput(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1600, 1200))
	seed := uint32(1)
	for i := range img.Pix {
		seed = seed*1664525 + 1013904223
		img.Pix[i] = uint8(seed >> 24)
	}
	raw := new(bytes.Buffer)
	require.NoError(t, png.Encode(raw, img))

	out, err := compressImage(raw.Bytes(), photoMaxBytes, photoMinBytes)
	require.NoError(t, err)
	assert.Less(t, len(out), raw.Len())

	_, err = jpeg.Decode(bytes.NewReader(out))
	assert.NoError(t, err)
}
