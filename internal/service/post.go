package service

import (
	"BlogKeeper/internal/blobstore"
	"BlogKeeper/internal/model"
	"BlogKeeper/internal/repo"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileUpload — полностью буферизованное тело файла из multipart-формы.
// Буферизация до первого обращения к bucket'у позволяет отбросить
// слишком большой файл, не создав ни одного блоба.
type FileUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CreateInput — поля нового поста плюс опциональная картинка.
type CreateInput struct {
	Title     string
	Slug      string
	Content   string
	Author    string
	Tags      string
	Published bool

	File *FileUpload
}

// UpdateInput — частичное обновление: nil-поле означает «не трогать».
// File и RemoveImage взаимоисключающие; при обоих приоритет у File.
type UpdateInput struct {
	Title     *string
	Slug      *string
	Content   *string
	Author    *string
	Tags      *string
	Published *bool

	File        *FileUpload
	RemoveImage bool
}

// PostService — координатор жизненного цикла поста и его картинки.
// Инварианты: ImageID поста указывает либо в никуда, либо ровно на один
// полностью записанный блоб; при замене старый блоб удаляется только после
// того, как новый записан и ссылка переключена.
//
// Одновременные замены картинки одного поста не сериализуются: гонка двух
// PUT может оставить неудалённый блоб-сироту. Это осознанное ограничение,
// сирота — деградация, не порча данных.
type PostService struct {
	repo   repo.PostRepository
	bucket blobstore.Bucket
	logger *zap.SugaredLogger

	maxImageBytes int64
}

// NewPostService создаёт сервис постов. maxImageMB <= 0 трактуется как 5.
func NewPostService(r repo.PostRepository, bucket blobstore.Bucket, logger *zap.SugaredLogger, maxImageMB int) *PostService {
	if maxImageMB <= 0 {
		maxImageMB = 5
	}
	return &PostService{repo: r, bucket: bucket, logger: logger, maxImageBytes: int64(maxImageMB) * 1024 * 1024}
}

// Create создаёт пост; при наличии файла сначала грузит блоб, потом пишет
// запись со ссылкой. Если загрузка не удалась — поста нет вовсе (операция
// атомарна с точки зрения клиента, частично созданных постов не бывает).
func (s *PostService) Create(ctx context.Context, in CreateInput) (*model.Post, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrValidation)
	}
	if err := s.checkFileSize(in.File); err != nil {
		return nil, err
	}

	post := &model.Post{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Slug:      in.Slug,
		Content:   in.Content,
		Author:    in.Author,
		Tags:      in.Tags,
		Published: in.Published,
	}
	if post.Slug == "" {
		post.Slug = slugify(in.Title)
	}

	if in.File != nil {
		blobID, err := s.uploadBlob(ctx, in.File)
		if err != nil {
			return nil, err
		}
		post.ImageID = &blobID
		post.ImageMimeType = in.File.ContentType
	}

	if err := s.repo.Create(ctx, post); err != nil {
		// запись не создана — подчищаем только что загруженный блоб
		if post.ImageID != nil {
			s.deleteBlob(ctx, *post.ImageID, "rollback of create")
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// Update применяет частичное обновление поста.
//
// Порядок при замене картинки строго такой: (1) загрузить новый блоб,
// (2) переключить ссылку в записи, (3) удалить старый блоб. При любом сбое
// до шага (2) запись продолжает ссылаться на старый, целый блоб.
func (s *PostService) Update(ctx context.Context, id string, in UpdateInput) (*model.Post, error) {
	// существование проверяем до любых операций с блобами,
	// чтобы не осиротить свежезагруженный блоб из-за кривого id
	existing, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if err := s.checkFileSize(in.File); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Slug != nil {
		updates["slug"] = *in.Slug
	}
	if in.Content != nil {
		updates["content"] = *in.Content
	}
	if in.Author != nil {
		updates["author"] = *in.Author
	}
	if in.Tags != nil {
		updates["tags"] = *in.Tags
	}
	if in.Published != nil {
		updates["published"] = *in.Published
	}

	var newBlobID string
	switch {
	case in.File != nil:
		newBlobID, err = s.uploadBlob(ctx, in.File)
		if err != nil {
			// старый блоб и ссылка не тронуты
			return nil, err
		}
		updates["image_id"] = newBlobID
		updates["image_mime_type"] = in.File.ContentType
	case in.RemoveImage:
		if existing.ImageID != nil {
			s.deleteBlob(ctx, *existing.ImageID, "image removal")
		}
		updates["image_id"] = nil
		updates["image_mime_type"] = ""
	}

	post, err := s.repo.UpdateFields(ctx, id, updates)
	if err != nil {
		if newBlobID != "" {
			s.deleteBlob(ctx, newBlobID, "rollback of update")
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}

	// ссылка переключена — только теперь можно удалить прежний блоб
	if in.File != nil && existing.ImageID != nil {
		s.deleteBlob(ctx, *existing.ImageID, "replaced image")
	}
	return post, nil
}

// Delete удаляет пост и каскадно его блоб. Удаление блоба — best-effort:
// сбой оставляет сироту и пишется в лог, но сам пост уже удалён.
func (s *PostService) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get post: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}

	if existing.ImageID != nil {
		s.deleteBlob(ctx, *existing.ImageID, "cascade delete")
	}
	return nil
}

// Get возвращает пост по id.
func (s *PostService) Get(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

// List возвращает все посты, новые первыми.
func (s *PostService) List(ctx context.Context) ([]model.Post, error) {
	posts, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// OpenImage — путь доставки: валидация формата id до похода в хранилище,
// затем метаданные и ленивый поток байтов.
func (s *PostService) OpenImage(ctx context.Context, id string) (*blobstore.FileInfo, io.ReadCloser, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil, fmt.Errorf("%w: invalid image id format", ErrValidation)
	}

	info, err := s.bucket.Stat(ctx, id)
	if errors.Is(err, blobstore.ErrNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("stat image: %w", err)
	}

	rc, err := s.bucket.OpenDownloadStream(ctx, id)
	if errors.Is(err, blobstore.ErrNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open image: %w", err)
	}
	return info, rc, nil
}

// uploadBlob пишет буфер в bucket и коммитит. При любой ошибке стрим
// абортится, id не считается живым.
func (s *PostService) uploadBlob(ctx context.Context, f *FileUpload) (string, error) {
	up, err := s.bucket.OpenUploadStream(ctx, f.Filename, f.ContentType)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	if _, err := up.Write(f.Data); err != nil {
		s.abortUpload(up)
		return "", fmt.Errorf("upload image: %w", err)
	}
	if err := up.Close(); err != nil {
		s.abortUpload(up)
		return "", fmt.Errorf("upload image: %w", err)
	}
	return up.ID(), nil
}

func (s *PostService) abortUpload(up blobstore.UploadStream) {
	if err := up.Abort(); err != nil {
		s.logger.Warnw("failed to abort upload, blob may be orphaned", "blob_id", up.ID(), "error", err)
	}
}

func (s *PostService) deleteBlob(ctx context.Context, id, reason string) {
	if err := s.bucket.Delete(ctx, id); err != nil {
		s.logger.Warnw("failed to delete blob, orphan left behind", "blob_id", id, "reason", reason, "error", err)
	}
}

func (s *PostService) checkFileSize(f *FileUpload) error {
	if f != nil && int64(len(f.Data)) > s.maxImageBytes {
		return fmt.Errorf("%w: file size exceeds %dMB limit", ErrFileTooLarge, s.maxImageBytes/(1024*1024))
	}
	return nil
}

// slugify повторяет поведение фронта: нижний регистр, пробелы в дефисы.
func slugify(title string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(title)), " ", "-")
}
