package images

import (
	"bytes"
	"context"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Processor turns a remote media URL into a sanitized file on disk.
type Processor interface {
	Process(ctx context.Context, url string) (string, error)
}

// StripMetadata re-renders an image into a fresh pixel buffer. EXIF
// blocks, GPS tags and maker notes live outside the pixel data, so a
// pixel-only copy drops them all while leaving the picture intact.
func StripMetadata(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// Sanitizer is the full intake pipeline for an attached photo:
// download, strip metadata, persist under a random name, then blur any
// faces in place.
type Sanitizer struct {
	Fetcher   *Fetcher
	Blurrer   FaceBlurrer // nil when no face cascade is available
	UploadDir string
}

// Process downloads the media at url and writes a sanitized JPEG into
// the upload directory, returning its path. Face blurring is best
// effort; a blur failure keeps the stored image rather than losing the
// report.
func (s *Sanitizer) Process(ctx context.Context, url string) (string, error) {
	raw, err := s.Fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.UploadDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(s.UploadDir, uuid.NewString()+".jpg")
	if err := imaging.Save(StripMetadata(img), path); err != nil {
		return "", err
	}

	if s.Blurrer != nil {
		if err := s.Blurrer.BlurFile(path); err != nil {
			zap.S().Warnw("face blur failed, keeping unblurred image", "file", path, "error", err)
		}
	}
	return path, nil
}
