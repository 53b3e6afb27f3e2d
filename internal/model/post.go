package model

import "time"

// Post — запись блога. Держит не более одной ссылки на картинку:
// ImageID указывает на полностью записанный блоб в bucket'е
// (слабое владение — жизненным циклом блоба управляет сервис, не запись).
type Post struct {
	ID string `gorm:"primaryKey;type:uuid"`

	Title     string `gorm:"not null"`
	Slug      string `gorm:"index"`
	Content   string `gorm:"not null"`
	Author    string
	Tags      string // список тегов через запятую, как прислал клиент
	Published bool   `gorm:"not null;default:false"`

	ImageID       *string `gorm:"type:uuid;index"` // опциональная ссылка на blob_files.id
	ImageMimeType string

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
