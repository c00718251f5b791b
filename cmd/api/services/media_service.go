package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"tech-blog/cmd/api/dto"
	"tech-blog/config"
	"tech-blog/content"
	"tech-blog/internal/logger"
	"tech-blog/models"
)

// 업로드 허용 형식. 판별은 확장자가 아니라 파일 앞부분 바이트로 한다.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image dimensions too large")
)

const maxFilenameAttempts = 1000

// 디코딩 전에 헤더로 확인하는 픽셀 수 상한. 작은 파일이 거대한 캔버스를 선언하는 경우를 막는다.
var maxImagePixels = 40_000_000

// MediaService stores uploaded images on local disk.
type MediaService struct {
	cfg config.UploadsConfig
}

func NewMediaService(cfg config.UploadsConfig) *MediaService {
	return &MediaService{cfg: cfg}
}

func (s *MediaService) MaxBytes() int64 {
	return int64(s.cfg.MaxSizeMB) << 20
}

// Upload decodes an image, scales it down to the configured width and stores it as JPEG.
func (s *MediaService) Upload(ctx context.Context, originalName string, size int64, src io.Reader) (dto.MediaUploadDTO, error) {
	if size > s.MaxBytes() {
		return dto.MediaUploadDTO{}, fmt.Errorf("%w (max %dMB)", ErrFileTooLarge, s.cfg.MaxSizeMB)
	}
	raw, err := io.ReadAll(io.LimitReader(src, s.MaxBytes()+1))
	if err != nil {
		return dto.MediaUploadDTO{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(raw)) > s.MaxBytes() {
		return dto.MediaUploadDTO{}, fmt.Errorf("%w (max %dMB)", ErrFileTooLarge, s.cfg.MaxSizeMB)
	}
	if ct := http.DetectContentType(raw); !allowedImageTypes[ct] {
		return dto.MediaUploadDTO{}, fmt.Errorf("%w: %s", ErrUnsupportedImage, ct)
	}

	data, w, h, err := s.processImage(raw)
	if err != nil {
		return dto.MediaUploadDTO{}, err
	}
	if err := ctx.Err(); err != nil {
		return dto.MediaUploadDTO{}, err
	}

	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return dto.MediaUploadDTO{}, fmt.Errorf("create uploads dir: %w", err)
	}
	filename, err := s.writeUnique(slugifyFilename(originalName), data)
	if err != nil {
		return dto.MediaUploadDTO{}, err
	}

	id := content.NewMediaID()
	out := dto.MediaUploadDTO{
		URL:         s.url(filename),
		MediaID:     id,
		Placeholder: content.Placeholder(models.MediaImage, id),
		Filename:    filename,
		Width:       w,
		Height:      h,
		Size:        int64(len(data)),
	}
	logger.InfoWithFields("image uploaded", logger.Fields{
		"filename": filename,
		"original": originalName,
		"width":    w,
		"height":   h,
		"size":     out.Size,
	})
	return out, nil
}

// processImage decodes raw, resizes it to MaxWidth when wider and encodes it as JPEG.
// 투명 영역은 흰 배경 위에 합성한다.
func (s *MediaService) processImage(raw []byte) ([]byte, int, int, error) {
	hdr, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: decode image: %v", ErrUnsupportedImage, err)
	}
	if hdr.Width <= 0 || hdr.Height <= 0 || int64(hdr.Width)*int64(hdr.Height) > int64(maxImagePixels) {
		return nil, 0, 0, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrImageTooLarge, hdr.Width, hdr.Height, maxImagePixels)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: decode image: %v", ErrUnsupportedImage, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxW := s.cfg.MaxWidth; maxW > 0 && w > maxW {
		newH := h * maxW / w
		if newH < 1 {
			newH = 1
		}
		w, h = maxW, newH
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	if w != bounds.Dx() {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	} else {
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Over)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: s.cfg.JPEGQuality}); err != nil {
		return nil, 0, 0, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), w, h, nil
}

// writeUnique 는 O_EXCL 로 파일을 만들어 동시 업로드끼리 덮어쓰지 않게 한다.
// 이름이 겹치면 base-2.jpg, base-3.jpg ... 순으로 시도한다.
func (s *MediaService) writeUnique(base string, data []byte) (string, error) {
	candidate := base + ".jpg"
	for counter := 1; counter <= maxFilenameAttempts; counter++ {
		if counter > 1 {
			candidate = fmt.Sprintf("%s-%d.jpg", base, counter)
		}
		f, err := os.OpenFile(filepath.Join(s.cfg.Dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create image file: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			_ = os.Remove(f.Name())
			return "", fmt.Errorf("write image: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("write image: %w", err)
		}
		return candidate, nil
	}
	return "", fmt.Errorf("no free filename for %q", base)
}

// List returns stored images, newest first. 디렉터리가 없으면 빈 목록이다.
func (s *MediaService) List(ctx context.Context) ([]dto.MediaFileDTO, error) {
	entries, err := os.ReadDir(s.cfg.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []dto.MediaFileDTO{}, nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]dto.MediaFileDTO, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isImageFile(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, dto.MediaFileDTO{
			Filename:   e.Name(),
			URL:        s.url(e.Name()),
			Size:       info.Size(),
			UploadedAt: info.ModTime().UTC(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out, ctx.Err()
}

func (s *MediaService) url(filename string) string {
	return path.Join("/", s.cfg.URLPrefix, filename)
}

func isImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}

// slugifyFilename converts a filename (without extension) to a URL-safe slug.
func slugifyFilename(name string) string {
	name = filepath.Base(name)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if slug := content.GenerateSlug(base); slug != "" {
		return slug
	}
	return "image"
}
