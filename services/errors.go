package services

import "errors"

// Ошибки, пересекающие границы сервисов и маппинга HTTP.
var (
	ErrLogoUploadsDisabled    = errors.New("logo uploads are not configured")
	ErrLogoInvalidContentType = errors.New("logo must be a PNG, JPEG or WebP image")
	ErrLogoEmpty              = errors.New("logo file is empty")
)
