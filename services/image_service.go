package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nfnt/resize"
)

const (
	imageSubdir    = "img"
	thumbSubdir    = "thumbs"
	thumbBound     = 150
	photoTimestamp = "2006-01-02_15-04-05"
)

// ImageService stores webcam captures from the kiosk under BaseDir and
// produces a bounded thumbnail for the dashboard table. Returned paths are
// URLs under PublicBase, which the router serves BaseDir at.
type ImageService struct {
	BaseDir    string
	PublicBase string
	Now        func() time.Time
}

func NewImageService(baseDir string) *ImageService {
	return &ImageService{BaseDir: baseDir, PublicBase: "/uploads", Now: time.Now}
}

// SavedImage describes a stored visitor photo.
type SavedImage struct {
	Filename  string `json:"filename"`
	Path      string `json:"path"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Size      int    `json:"size"`
}

// SaveVisitorPhoto decodes a JPEG/PNG data URI captured by the kiosk
// webcam and writes it as <mobile>_<timestamp>.<ext>. Thumbnail creation
// is best-effort; the full image is the record of truth.
func (s *ImageService) SaveVisitorPhoto(dataURL, mobile string) (*SavedImage, error) {
	payload, ext, err := splitImageDataURI(dataURL)
	if err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, invalidField("dataUrl", "is not valid base64 image data")
	}

	dir := filepath.Join(s.BaseDir, imageSubdir)
	if err := os.MkdirAll(filepath.Join(dir, thumbSubdir), 0755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.%s", mobile, s.Now().Format(photoTimestamp), ext)
	fullpath := filepath.Join(dir, filename)
	if err := os.WriteFile(fullpath, data, 0644); err != nil {
		return nil, fmt.Errorf("write image file: %w", err)
	}

	saved := &SavedImage{
		Filename: filename,
		Path:     s.PublicBase + "/" + imageSubdir + "/" + filename,
		Size:     len(data),
	}

	if err := s.writeThumbnail(data, ext, dir, filename); err != nil {
		log.Printf("warning: failed to create thumbnail for %s: %v", filename, err)
	} else {
		saved.Thumbnail = s.PublicBase + "/" + imageSubdir + "/" + thumbSubdir + "/thumb_" + filename
	}

	return saved, nil
}

// splitImageDataURI validates the data URI prefix and returns the base64
// payload and file extension. Only JPEG and PNG captures are accepted.
func splitImageDataURI(dataURL string) (payload, ext string, err error) {
	dataURL = strings.TrimSpace(dataURL)
	parts := strings.SplitN(dataURL, ";base64,", 2)
	if len(parts) != 2 {
		return "", "", invalidField("dataUrl", "must be a base64 image data URI")
	}

	switch parts[0] {
	case "data:image/jpeg", "data:image/jpg":
		ext = "jpeg"
	case "data:image/png":
		ext = "png"
	default:
		return "", "", invalidField("dataUrl", "must be a JPEG or PNG image")
	}
	return parts[1], ext, nil
}

func (s *ImageService) writeThumbnail(data []byte, ext, dir, filename string) error {
	var img image.Image
	var err error
	if ext == "png" {
		img, err = png.Decode(bytes.NewReader(data))
	} else {
		img, err = jpeg.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	thumb := resize.Thumbnail(thumbBound, thumbBound, img, resize.Lanczos3)

	out, err := os.Create(filepath.Join(dir, thumbSubdir, "thumb_"+filename))
	if err != nil {
		return fmt.Errorf("create thumbnail file: %w", err)
	}
	defer out.Close()

	if ext == "png" {
		err = png.Encode(out, thumb)
	} else {
		err = jpeg.Encode(out, thumb, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}
	return nil
}
