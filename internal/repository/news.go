package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/model"
)

const newsColumns = "nid, uid, title, content, image, published_at, created_at, updated_at"

// NewsRepository news data access. Public queries apply the published_at
// visibility gate; admin queries see everything.
type NewsRepository interface {
	GetByID(ctx context.Context, nid int64) (*model.NewsItem, error)
	GetPublishedByID(ctx context.Context, nid int64) (*model.NewsItem, error)
	ListPublished(ctx context.Context, offset, limit int) ([]*model.NewsItem, error)
	CountPublished(ctx context.Context) (int, error)
	ListAll(ctx context.Context, offset, limit int) ([]*model.NewsItem, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, item *model.NewsItem) error
	Update(ctx context.Context, item *model.NewsItem) error
	Delete(ctx context.Context, nid int64) error
	GetSitemapList(ctx context.Context, offset, limit int) ([]*model.NewsItem, error)
}

// NewNewsRepository create news repository
func NewNewsRepository(db *sqlx.DB) NewsRepository {
	return &newsRepository{db: db}
}

type newsRepository struct {
	db *sqlx.DB
}

// GetByID fetch regardless of publication state (back office)
func (r *newsRepository) GetByID(ctx context.Context, nid int64) (*model.NewsItem, error) {
	var item model.NewsItem
	err := r.db.GetContext(ctx, &item,
		"SELECT "+newsColumns+" FROM news WHERE nid = ?", nid)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetPublishedByID fetch only when publicly visible
func (r *newsRepository) GetPublishedByID(ctx context.Context, nid int64) (*model.NewsItem, error) {
	var item model.NewsItem
	err := r.db.GetContext(ctx, &item,
		"SELECT "+newsColumns+" FROM news WHERE nid = ? AND published_at IS NOT NULL AND published_at <= NOW()",
		nid)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListPublished public listing, newest published first
func (r *newsRepository) ListPublished(ctx context.Context, offset, limit int) ([]*model.NewsItem, error) {
	var items []*model.NewsItem
	err := r.db.SelectContext(ctx, &items,
		"SELECT "+newsColumns+" FROM news WHERE published_at IS NOT NULL AND published_at <= NOW() ORDER BY published_at DESC, nid DESC LIMIT ?, ?",
		offset, limit)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// CountPublished total publicly visible items
func (r *newsRepository) CountPublished(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM news WHERE published_at IS NOT NULL AND published_at <= NOW()")
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListAll back-office listing including unpublished and scheduled items
func (r *newsRepository) ListAll(ctx context.Context, offset, limit int) ([]*model.NewsItem, error) {
	var items []*model.NewsItem
	err := r.db.SelectContext(ctx, &items,
		"SELECT "+newsColumns+" FROM news ORDER BY created_at DESC, nid DESC LIMIT ?, ?",
		offset, limit)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Count total items
func (r *newsRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM news"); err != nil {
		return 0, err
	}
	return count, nil
}

// Create insert a news item
func (r *newsRepository) Create(ctx context.Context, item *model.NewsItem) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO news (nid, uid, title, content, image, published_at, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())",
		item.Nid, item.Uid, item.Title, item.Content, item.Image, item.PublishedAt)
	return err
}

// Update rewrite mutable fields
func (r *newsRepository) Update(ctx context.Context, item *model.NewsItem) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE news SET title = ?, content = ?, image = ?, published_at = ?, updated_at = NOW() WHERE nid = ?",
		item.Title, item.Content, item.Image, item.PublishedAt, item.Nid)
	return err
}

// Delete remove a news item
func (r *newsRepository) Delete(ctx context.Context, nid int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM news WHERE nid = ?", nid)
	return err
}

// GetSitemapList published items only, nid and published_at
func (r *newsRepository) GetSitemapList(ctx context.Context, offset, limit int) ([]*model.NewsItem, error) {
	var items []*model.NewsItem
	err := r.db.SelectContext(ctx, &items,
		"SELECT nid, published_at FROM news WHERE published_at IS NOT NULL AND published_at <= NOW() ORDER BY nid ASC LIMIT ?, ?",
		offset, limit)
	if err != nil {
		return nil, err
	}
	return items, nil
}
