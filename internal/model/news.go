package model

import "time"

// NewsItem article record. PublishedAt doubles as the visibility gate:
// public listings only show rows where published_at <= NOW().
type NewsItem struct {
	Nid         int64      `db:"nid"`
	Uid         int64      `db:"uid"`
	Title       string     `db:"title"`
	Content     string     `db:"content"`
	Image       string     `db:"image"`
	PublishedAt *time.Time `db:"published_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// Published reports whether the item is publicly visible at t.
func (n *NewsItem) Published(t time.Time) bool {
	return n.PublishedAt != nil && !n.PublishedAt.After(t)
}

// CreateNewsRequest admin create form fields (multipart; image is separate)
type CreateNewsRequest struct {
	Title       string `form:"title" binding:"required,max=255"`
	Content     string `form:"content" binding:"required"`
	PublishedAt string `form:"published_at" binding:"omitempty"` // RFC3339 or "2006-01-02 15:04:05"
}

// UpdateNewsRequest admin update form fields; omitted image keeps the old one
type UpdateNewsRequest struct {
	Title       string `form:"title" binding:"required,max=255"`
	Content     string `form:"content" binding:"required"`
	PublishedAt string `form:"published_at" binding:"omitempty"`
}
