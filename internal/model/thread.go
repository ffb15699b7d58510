package model

import "time"

// Thread forum topic record
type Thread struct {
	Tid       int64     `db:"tid"`
	Uid       int64     `db:"uid"`
	Title     string    `db:"title"`
	Body      string    `db:"body"`
	IsPinned  bool      `db:"is_pinned"`
	Replies   int       `db:"replies"` // denormalized reply count
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Reply record attached to a thread
type Reply struct {
	Rid       int64     `db:"rid"`
	Tid       int64     `db:"tid"`
	Uid       int64     `db:"uid"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ThreadFavorite user bookmark of a thread; (uid, tid) is unique
type ThreadFavorite struct {
	Uid       int64     `db:"uid"`
	Tid       int64     `db:"tid"`
	CreatedAt time.Time `db:"created_at"`
}

// Thread sort modes
const (
	ThreadSortLatest  = "latest"
	ThreadSortReplies = "replies"
)

// CreateThreadRequest new-thread payload
type CreateThreadRequest struct {
	Title string `json:"title" binding:"required,max=255"`
	Body  string `json:"body" binding:"required,max=10000"`
}

// UpdateThreadRequest thread edit payload
type UpdateThreadRequest struct {
	Title string `json:"title" binding:"required,max=255"`
	Body  string `json:"body" binding:"required,max=10000"`
}

// CreateReplyRequest new-reply payload
type CreateReplyRequest struct {
	Body string `json:"body" binding:"required,max=5000"`
}

// UpdateReplyRequest reply edit payload
type UpdateReplyRequest struct {
	Body string `json:"body" binding:"required,max=5000"`
}
