package utils

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io/fs"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

var ErrUnsupportedImage = errors.New("unsupported image format, only png, jpg and jpeg are allowed")

const maxImageWidth = 800

// ImageStore saves uploaded images under Dir and serves them from BaseURL/assets.
type ImageStore struct {
	Dir     string
	BaseURL string
}

func NewImageStore(dir, baseURL string) *ImageStore {
	return &ImageStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

// Save decodes, resizes and stores every file, returning their public URLs.
func (s *ImageStore) Save(files []*multipart.FileHeader) ([]string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		name, err := s.saveOne(fh)
		if err != nil {
			_ = s.Remove(urls)
			return nil, fmt.Errorf("%s: %w", fh.Filename, err)
		}
		urls = append(urls, s.BaseURL+"/assets/"+name)
	}
	return urls, nil
}

// Remove deletes previously saved images by their public URLs.
func (s *ImageStore) Remove(urls []string) error {
	var errs []error
	for _, u := range urls {
		err := os.Remove(filepath.Join(s.Dir, path.Base(u)))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *ImageStore) saveOne(fh *multipart.FileHeader) (string, error) {
	file, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	var img image.Image
	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".png":
		img, err = png.Decode(file)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(file)
	default:
		return "", ErrUnsupportedImage
	}
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	// Only shrink; keep aspect ratio.
	if img.Bounds().Dx() > maxImageWidth {
		img = resize.Resize(maxImageWidth, 0, img, resize.Lanczos3)
	}

	filename := uuid.New().String() + ".jpg"
	dst := filepath.Join(s.Dir, filename)
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: 80}); err != nil {
		out.Close()
		os.Remove(dst)
		return "", fmt.Errorf("encode image: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("write image file: %w", err)
	}
	return filename, nil
}
