package models

import "time"

// ForumPost — публикация в форуме. VideoID — извлечённый идентификатор
// ролика (см. internal/video), сырые URL не храним.
type ForumPost struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	VideoID   *string   `db:"video_id"`
	CreatedAt time.Time `db:"created_at"`
	AuthorID  int64     `db:"author_id"`
	HasImage  bool      `db:"has_image"`

	AuthorName string `db:"author_name"`
}
