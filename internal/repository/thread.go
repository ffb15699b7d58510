package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/model"
)

const threadColumns = "tid, uid, title, body, is_pinned, replies, created_at, updated_at"

// ThreadRepository thread data access
type ThreadRepository interface {
	GetByID(ctx context.Context, tid int64) (*model.Thread, error)
	List(ctx context.Context, sort string, offset, limit int) ([]*model.Thread, error)
	ListByUID(ctx context.Context, uid int64, limit int) ([]*model.Thread, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, thread *model.Thread) error
	Update(ctx context.Context, thread *model.Thread) error
	Delete(ctx context.Context, tid int64) error
	SetPinned(ctx context.Context, tid int64, pinned bool) error
	// sitemap helpers
	GetSitemapList(ctx context.Context, offset, limit int) ([]*model.Thread, error)
}

// NewThreadRepository create thread repository
func NewThreadRepository(db *sqlx.DB) ThreadRepository {
	return &threadRepository{db: db}
}

type threadRepository struct {
	db *sqlx.DB
}

// GetByID fetch a thread by tid
func (r *threadRepository) GetByID(ctx context.Context, tid int64) (*model.Thread, error) {
	var thread model.Thread
	err := r.db.GetContext(ctx, &thread,
		"SELECT "+threadColumns+" FROM thread WHERE tid = ?", tid)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

// List paginated threads. Pinned threads always come first; within each
// group the sort mode decides: newest first (default) or most replies.
func (r *threadRepository) List(ctx context.Context, sort string, offset, limit int) ([]*model.Thread, error) {
	order := "is_pinned DESC, created_at DESC, tid DESC"
	if sort == model.ThreadSortReplies {
		order = "is_pinned DESC, replies DESC, tid DESC"
	}
	var threads []*model.Thread
	err := r.db.SelectContext(ctx, &threads,
		"SELECT "+threadColumns+" FROM thread ORDER BY "+order+" LIMIT ?, ?",
		offset, limit)
	if err != nil {
		return nil, err
	}
	return threads, nil
}

// ListByUID recent threads by one author, for profile pages
func (r *threadRepository) ListByUID(ctx context.Context, uid int64, limit int) ([]*model.Thread, error) {
	var threads []*model.Thread
	err := r.db.SelectContext(ctx, &threads,
		"SELECT "+threadColumns+" FROM thread WHERE uid = ? ORDER BY created_at DESC, tid DESC LIMIT ?",
		uid, limit)
	if err != nil {
		return nil, err
	}
	return threads, nil
}

// Count total threads
func (r *threadRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM thread"); err != nil {
		return 0, err
	}
	return count, nil
}

// Create insert a new thread
func (r *threadRepository) Create(ctx context.Context, thread *model.Thread) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO thread (tid, uid, title, body, is_pinned, replies, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())",
		thread.Tid, thread.Uid, thread.Title, thread.Body, thread.IsPinned, thread.Replies)
	return err
}

// Update rewrite title and body
func (r *threadRepository) Update(ctx context.Context, thread *model.Thread) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE thread SET title = ?, body = ?, updated_at = NOW() WHERE tid = ?",
		thread.Title, thread.Body, thread.Tid)
	return err
}

// Delete remove a thread along with its replies and favorites in one tx
func (r *threadRepository) Delete(ctx context.Context, tid int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM reply WHERE tid = ?", tid); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM thread_favorite WHERE tid = ?", tid); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM thread WHERE tid = ?", tid); err != nil {
		return err
	}

	return tx.Commit()
}

// SetPinned flip the pin flag
func (r *threadRepository) SetPinned(ctx context.Context, tid int64, pinned bool) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE thread SET is_pinned = ?, updated_at = NOW() WHERE tid = ?", pinned, tid)
	return err
}

// GetSitemapList tid and updated_at only, in insertion order
func (r *threadRepository) GetSitemapList(ctx context.Context, offset, limit int) ([]*model.Thread, error) {
	var threads []*model.Thread
	err := r.db.SelectContext(ctx, &threads,
		"SELECT tid, updated_at FROM thread ORDER BY tid ASC LIMIT ?, ?",
		offset, limit)
	if err != nil {
		return nil, err
	}
	return threads, nil
}
