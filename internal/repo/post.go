package repo

import (
	"BlogKeeper/internal/model"
	"context"

	"gorm.io/gorm"
)

// PostRepository — минимальный контракт доступа к Post для слоя сервиса.
// Частичное обновление принимает узкий map с именованными колонками,
// который собирает сервис — никаких произвольных ключей от клиента.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)

	// UpdateFields применяет частичное обновление и возвращает свежую запись.
	// Для отсутствующего id возвращает gorm.ErrRecordNotFound.
	UpdateFields(ctx context.Context, id string, updates map[string]any) (*model.Post, error)

	Delete(ctx context.Context, id string) error

	// ListAll возвращает все посты, новые первыми.
	ListAll(ctx context.Context) ([]model.Post, error)
}

type postRepo struct {
	db *gorm.DB
}

// NewPostRepository создаёт реализацию репозитория для Post.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepo{db: db}
}

func (r *postRepo) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepo) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepo) UpdateFields(ctx context.Context, id string, updates map[string]any) (*model.Post, error) {
	if len(updates) > 0 {
		tx := r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Updates(updates)
		if tx.Error != nil {
			return nil, tx.Error
		}
		if tx.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.GetByID(ctx, id)
}

func (r *postRepo) Delete(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx).Delete(&model.Post{}, "id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postRepo) ListAll(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}
