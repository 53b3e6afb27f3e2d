package blobstore

import (
	"BlogKeeper/internal/model"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBucket хранит блобы кусками фиксированного размера в таблицах
// blob_files/blob_chunks. Файловая запись создаётся сразу с Committed=false;
// читатели (Stat/OpenDownloadStream) видят только Committed=true, поэтому
// частично записанный блоб снаружи неотличим от отсутствующего.
type GormBucket struct {
	db        *gorm.DB
	chunkSize int
}

// NewGormBucket создаёт bucket поверх GORM-подключения.
// chunkSize <= 0 заменяется на DefaultChunkSize.
func NewGormBucket(db *gorm.DB, chunkSize int) *GormBucket {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &GormBucket{db: db, chunkSize: chunkSize}
}

func (b *GormBucket) OpenUploadStream(ctx context.Context, filename, contentType string) (UploadStream, error) {
	file := &model.BlobFile{
		ID:          uuid.NewString(),
		Filename:    filename,
		ContentType: contentType,
		ChunkSize:   b.chunkSize,
		Committed:   false,
	}
	if err := b.db.WithContext(ctx).Create(file).Error; err != nil {
		return nil, fmt.Errorf("open upload stream: %w", err)
	}
	return &gormUploadStream{bucket: b, ctx: ctx, fileID: file.ID, buf: make([]byte, 0, b.chunkSize)}, nil
}

func (b *GormBucket) OpenDownloadStream(ctx context.Context, id string) (io.ReadCloser, error) {
	info, err := b.Stat(ctx, id)
	if err != nil {
		return nil, err
	}
	return &gormDownloadStream{bucket: b, ctx: ctx, fileID: info.ID, length: info.Length}, nil
}

func (b *GormBucket) Stat(ctx context.Context, id string) (*FileInfo, error) {
	var file model.BlobFile
	err := b.db.WithContext(ctx).Where("id = ? AND committed", id).First(&file).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("stat blob %s: %w", id, err)
	}
	return &FileInfo{ID: file.ID, Filename: file.Filename, ContentType: file.ContentType, Length: file.Length}, nil
}

// Delete убирает сначала файловую запись, затем куски: читатель, пришедший
// между этими шагами, получит ErrNotFound, а не рваный блоб.
func (b *GormBucket) Delete(ctx context.Context, id string) error {
	if err := b.db.WithContext(ctx).Delete(&model.BlobFile{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete blob %s: %w", id, err)
	}
	if err := b.db.WithContext(ctx).Delete(&model.BlobChunk{}, "file_id = ?", id).Error; err != nil {
		return fmt.Errorf("delete blob chunks %s: %w", id, err)
	}
	return nil
}

// --- upload ---

type gormUploadStream struct {
	bucket *GormBucket
	ctx    context.Context

	fileID  string
	buf     []byte
	nextNum int
	written int64
	done    bool
}

func (s *gormUploadStream) ID() string { return s.fileID }

func (s *gormUploadStream) Write(p []byte) (int, error) {
	if s.done {
		return 0, errors.New("upload stream is closed")
	}
	s.buf = append(s.buf, p...)
	for len(s.buf) >= s.bucket.chunkSize {
		if err := s.flushChunk(s.buf[:s.bucket.chunkSize]); err != nil {
			return 0, err
		}
		s.buf = s.buf[s.bucket.chunkSize:]
	}
	return len(p), nil
}

func (s *gormUploadStream) flushChunk(data []byte) error {
	chunk := &model.BlobChunk{FileID: s.fileID, Num: s.nextNum, Data: append([]byte(nil), data...)}
	if err := s.bucket.db.WithContext(s.ctx).Create(chunk).Error; err != nil {
		return fmt.Errorf("write chunk %d of blob %s: %w", s.nextNum, s.fileID, err)
	}
	s.nextNum++
	s.written += int64(len(data))
	return nil
}

// Close дописывает хвост буфера и коммитит файл. До успешного Close
// блоб недоступен ни Stat, ни OpenDownloadStream.
func (s *gormUploadStream) Close() error {
	if s.done {
		return nil
	}
	if len(s.buf) > 0 {
		if err := s.flushChunk(s.buf); err != nil {
			return err
		}
		s.buf = nil
	}
	updates := map[string]any{"length": s.written, "committed": true}
	if err := s.bucket.db.WithContext(s.ctx).Model(&model.BlobFile{}).Where("id = ?", s.fileID).Updates(updates).Error; err != nil {
		return fmt.Errorf("commit blob %s: %w", s.fileID, err)
	}
	s.done = true
	return nil
}

// Abort выбрасывает незакоммиченный блоб целиком.
func (s *gormUploadStream) Abort() error {
	s.done = true
	s.buf = nil
	return s.bucket.Delete(s.ctx, s.fileID)
}

// --- download ---

// gormDownloadStream — ленивый однопроходный читатель: очередной кусок
// поднимается из БД только когда предыдущий отдан полностью.
// Длина фиксируется в момент открытия: если куски пропали под читателем
// (параллельный Delete), недобор байтов — это ошибка, а не тихий EOF.
type gormDownloadStream struct {
	bucket *GormBucket
	ctx    context.Context

	fileID  string
	length  int64
	read    int64
	nextNum int
	rem     []byte
	eof     bool
	closed  bool
}

func (s *gormDownloadStream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, errors.New("download stream is closed")
	}
	for len(s.rem) == 0 {
		if s.eof {
			return 0, io.EOF
		}
		var chunk model.BlobChunk
		err := s.bucket.db.WithContext(s.ctx).
			Where("file_id = ? AND num = ?", s.fileID, s.nextNum).
			First(&chunk).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if s.read < s.length {
				return 0, fmt.Errorf("blob %s truncated: got %d of %d bytes: %w",
					s.fileID, s.read, s.length, io.ErrUnexpectedEOF)
			}
			s.eof = true
			return 0, io.EOF
		}
		if err != nil {
			return 0, fmt.Errorf("read chunk %d of blob %s: %w", s.nextNum, s.fileID, err)
		}
		s.nextNum++
		s.rem = chunk.Data
	}
	n := copy(p, s.rem)
	s.rem = s.rem[n:]
	s.read += int64(n)
	return n, nil
}

func (s *gormDownloadStream) Close() error {
	s.closed = true
	s.rem = nil
	return nil
}
