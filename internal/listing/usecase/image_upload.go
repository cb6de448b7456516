package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/rbac"
	"github.com/serikimmo/serik/internal/pkg/storage"
)

// TempImagePrefix is where uploads land until a listing references them.
// The sweep deletes whatever lingers here past its grace period.
const TempImagePrefix = "temp/"

//nolint:gochecknoglobals // global for fast reuse
var imageContentTypeExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

var errImageTooLarge = errors.New("image exceeds max size")

type ImageUploadInput struct {
	File        io.Reader
	ContentType string
}

type ImageUploadOutput struct {
	URL string
	Key string
}

func (s *Usecase) ImageUpload(ctx context.Context, in ImageUploadInput) (*ImageUploadOutput, error) {
	ctx, span := s.startSpan(ctx, "ImageUpload")
	defer span.End()

	clm, err := s.gate.Authorize(ctx, rbac.ObjectHouses, rbac.ActionWrite)
	if err != nil {
		return nil, err
	}

	if in.File == nil {
		return nil, goerror.NewInvalidInput(nil, "image", "image file is required")
	}

	contentType := strings.ToLower(strings.TrimSpace(in.ContentType))
	ext, ok := imageContentTypeExt[contentType]
	if !ok {
		return nil, goerror.NewInvalidInput(nil, "image", "unsupported image content type")
	}

	bucket := strings.TrimSpace(s.cfg.GetString("modules.listing.image_bucket"))
	baseURL := strings.TrimSpace(s.cfg.GetString("modules.listing.image_base_url"))
	key := TempImagePrefix + s.uuid.Generate() + ext
	maxSize := s.cfg.GetInt64("modules.listing.image_max_size_bytes")

	reader := &maxBytesReader{r: in.File, max: maxSize}
	err = s.storage.PutObject(ctx, bucket, key, reader, storage.PutOptions{
		Size:        -1,
		ContentType: contentType,
		Metadata:    map[string]string{"user_id": strconv.FormatInt(clm.UserID, 10)},
	})
	if err != nil {
		if errors.Is(err, errImageTooLarge) {
			return nil, goerror.NewInvalidInput(errImageTooLarge)
		}
		slog.ErrorContext(ctx, "failed to upload listing image", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ImageUploadOutput{
		URL: baseURL + "/" + key,
		Key: key,
	}, nil
}

type maxBytesReader struct {
	r    io.Reader
	max  int64
	read int64
}

func (m *maxBytesReader) Read(p []byte) (int, error) {
	n, err := m.r.Read(p)
	m.read += int64(n)
	if m.max > 0 && m.read > m.max {
		return n, fmt.Errorf("%w: limit %d bytes", errImageTooLarge, m.max)
	}
	return n, err
}
