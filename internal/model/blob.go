package model

import "time"

// BlobFile — метаданные одного блоба в bucket'е.
// Committed=false означает незавершённую загрузку: такие файлы
// невидимы для читателей и подлежат удалению.
type BlobFile struct {
	ID string `gorm:"primaryKey;type:uuid"`

	Filename    string
	ContentType string
	Length      int64 `gorm:"not null;default:0"`
	ChunkSize   int   `gorm:"not null"`
	Committed   bool  `gorm:"not null;default:false;index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// BlobChunk — упорядоченный кусок содержимого блоба.
type BlobChunk struct {
	FileID string `gorm:"primaryKey;type:uuid"`
	Num    int    `gorm:"primaryKey;autoIncrement:false"`
	Data   []byte `gorm:"not null"`
}
