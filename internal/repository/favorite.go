package repository

import (
	"context"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/model"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/apperr"
)

// mysqlDupEntry duplicate-key error number
const mysqlDupEntry = 1062

// FavoriteRepository thread favorite (bookmark) data access
type FavoriteRepository interface {
	Add(ctx context.Context, uid, tid int64) error
	Remove(ctx context.Context, uid, tid int64) error
	Exists(ctx context.Context, uid, tid int64) (bool, error)
	RecentThreads(ctx context.Context, uid int64, limit int) ([]*model.Thread, error)
}

// NewFavoriteRepository create favorite repository
func NewFavoriteRepository(db *sqlx.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

type favoriteRepository struct {
	db *sqlx.DB
}

// Add insert the (uid, tid) pair. The unique constraint is the real guard
// against concurrent double-clicks; a duplicate key maps to ErrDuplicate
// so callers can treat it as a no-op.
func (r *favoriteRepository) Add(ctx context.Context, uid, tid int64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO thread_favorite (uid, tid, created_at) VALUES (?, ?, NOW())",
		uid, tid)
	if err != nil {
		if my, ok := err.(*mysql.MySQLError); ok && my.Number == mysqlDupEntry {
			return apperr.ErrDuplicate
		}
		return err
	}
	return nil
}

// Remove delete the pair; removing a non-favorite is a no-op
func (r *favoriteRepository) Remove(ctx context.Context, uid, tid int64) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM thread_favorite WHERE uid = ? AND tid = ?", uid, tid)
	return err
}

// Exists report whether uid has favorited tid
func (r *favoriteRepository) Exists(ctx context.Context, uid, tid int64) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM thread_favorite WHERE uid = ? AND tid = ?", uid, tid)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// RecentThreads the user's most recently favorited threads, ordered by
// when the favorite was made, not by thread age.
func (r *favoriteRepository) RecentThreads(ctx context.Context, uid int64, limit int) ([]*model.Thread, error) {
	var threads []*model.Thread
	err := r.db.SelectContext(ctx, &threads, `
		SELECT t.tid, t.uid, t.title, t.body, t.is_pinned, t.replies, t.created_at, t.updated_at
		FROM thread_favorite f
		JOIN thread t ON t.tid = f.tid
		WHERE f.uid = ?
		ORDER BY f.created_at DESC
		LIMIT ?`, uid, limit)
	if err != nil {
		return nil, err
	}
	return threads, nil
}
