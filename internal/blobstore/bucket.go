package blobstore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound — блоб отсутствует или ещё не закоммичен.
var ErrNotFound = errors.New("blob not found")

// DefaultChunkSize — размер куска по умолчанию (255 KiB, как у GridFS).
const DefaultChunkSize = 255 * 1024

// FileInfo — метаданные сохранённого блоба.
type FileInfo struct {
	ID          string
	Filename    string
	ContentType string
	Length      int64
}

// UploadStream — сток для упорядоченной записи байтов одного блоба.
// Блоб становится видимым для читателей только после успешного Close.
// При ошибке записи вызывающий обязан вызвать Abort и не сохранять ID как живой.
type UploadStream interface {
	io.Writer

	// ID — идентификатор, назначенный bucket'ом при открытии стрима.
	ID() string

	// Close коммитит блоб: фиксирует длину и делает его доступным читателям.
	Close() error

	// Abort удаляет всё, что уже записано. Безопасен после ошибки Write/Close.
	Abort() error
}

// Bucket — клиент чанкового хранилища блобов.
type Bucket interface {
	// OpenUploadStream открывает стрим загрузки нового блоба.
	OpenUploadStream(ctx context.Context, filename, contentType string) (UploadStream, error)

	// OpenDownloadStream открывает ленивый однопроходный поток чтения.
	// Для неизвестного или незакоммиченного id возвращает ErrNotFound.
	OpenDownloadStream(ctx context.Context, id string) (io.ReadCloser, error)

	// Stat возвращает метаданные закоммиченного блоба или ErrNotFound.
	Stat(ctx context.Context, id string) (*FileInfo, error)

	// Delete удаляет блоб. Отсутствующий id — не ошибка (идемпотентность
	// нужна для повторных чисток).
	Delete(ctx context.Context, id string) error
}
