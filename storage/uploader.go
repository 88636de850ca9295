package storage

import (
	"context"
	"io"
)

// UploadResult описывает сохранённый объект: ключ в бакете и публичный URL.
type UploadResult struct {
	Key string
	URL string
}

// FileUploader абстрагирует объектное хранилище для файлов игроков
// (сейчас — только аватары). Ключи задаёт вызывающая сторона.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}
