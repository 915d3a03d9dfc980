package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Mr-Racnok/akui-esport/storage"
)

var logoExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
}

type LogoService interface {
	// UploadLogo кладёт логотип в хранилище и возвращает публичный URL,
	// который форма регистрации отправит как logoUrl.
	UploadLogo(ctx context.Context, contentType string, reader io.Reader) (string, error)
}

type logoService struct {
	uploader storage.FileUploader
	now      func() time.Time
}

// NewLogoService принимает nil uploader: тогда загрузка логотипов считается
// выключенной (R2 не сконфигурирован), но остальной сайт работает.
func NewLogoService(uploader storage.FileUploader) LogoService {
	return &logoService{
		uploader: uploader,
		now:      time.Now,
	}
}

func (s *logoService) UploadLogo(ctx context.Context, contentType string, reader io.Reader) (string, error) {
	if s.uploader == nil {
		return "", ErrLogoUploadsDisabled
	}

	ext, ok := logoExtensions[contentType]
	if !ok {
		return "", ErrLogoInvalidContentType
	}

	key := fmt.Sprintf("logos/%d.%s", s.now().UnixNano(), ext)
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return "", fmt.Errorf("failed to upload logo: %w", err)
	}
	return result.Location, nil
}
