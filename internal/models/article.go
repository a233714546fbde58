package models

import "time"

// Article represents a feed article stored by the service
type Article struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title" gorm:"not null"`
	Available bool      `json:"available" gorm:"not null;index"`
	CreatedAt time.Time `json:"-"`
}

// TableName specifies the table name for Article Model
func (Article) TableName() string {
	return "articles"
}

// ArticleInfo is the public listing shape of an article
type ArticleInfo struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Info maps a stored article to its listing shape
func (a Article) Info() ArticleInfo {
	return ArticleInfo{ID: a.ID, Title: a.Title}
}
