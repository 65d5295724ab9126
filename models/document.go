package models

import (
	"time"
)

// Document is one record of the document store, a JSON body addressed by
// collection path plus key. Collection/Key together are unique; the auto
// increment ID exists only for gorm.
type Document struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Collection string    `gorm:"type:varchar(255);uniqueIndex:idx_doc_path;not null" json:"collection"`
	Key        string    `gorm:"type:varchar(255);uniqueIndex:idx_doc_path;not null" json:"key"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}
