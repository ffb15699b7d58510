package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/model"
)

const replyColumns = "rid, tid, uid, body, created_at, updated_at"

// ReplyRepository reply data access
type ReplyRepository interface {
	GetByID(ctx context.Context, rid int64) (*model.Reply, error)
	ListByThread(ctx context.Context, tid int64) ([]*model.Reply, error)
	Create(ctx context.Context, reply *model.Reply) error
	Update(ctx context.Context, reply *model.Reply) error
	Delete(ctx context.Context, rid int64) error
}

// NewReplyRepository create reply repository
func NewReplyRepository(db *sqlx.DB) ReplyRepository {
	return &replyRepository{db: db}
}

type replyRepository struct {
	db *sqlx.DB
}

// GetByID fetch a reply by rid
func (r *replyRepository) GetByID(ctx context.Context, rid int64) (*model.Reply, error) {
	var reply model.Reply
	err := r.db.GetContext(ctx, &reply,
		"SELECT "+replyColumns+" FROM reply WHERE rid = ?", rid)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// ListByThread all replies of a thread in creation order
func (r *replyRepository) ListByThread(ctx context.Context, tid int64) ([]*model.Reply, error) {
	var replies []*model.Reply
	err := r.db.SelectContext(ctx, &replies,
		"SELECT "+replyColumns+" FROM reply WHERE tid = ? ORDER BY created_at ASC, rid ASC", tid)
	if err != nil {
		return nil, err
	}
	return replies, nil
}

// Create insert a reply and bump the thread's reply count in one tx
func (r *replyRepository) Create(ctx context.Context, reply *model.Reply) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO reply (rid, tid, uid, body, created_at, updated_at) VALUES (?, ?, ?, ?, NOW(), NOW())",
		reply.Rid, reply.Tid, reply.Uid, reply.Body)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE thread SET replies = replies + 1 WHERE tid = ?", reply.Tid)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Update rewrite the body
func (r *replyRepository) Update(ctx context.Context, reply *model.Reply) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE reply SET body = ?, updated_at = NOW() WHERE rid = ?",
		reply.Body, reply.Rid)
	return err
}

// Delete remove a reply and drop the thread's reply count in one tx
func (r *replyRepository) Delete(ctx context.Context, rid int64) error {
	reply, err := r.GetByID(ctx, rid)
	if err != nil {
		return err
	}
	if reply == nil {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM reply WHERE rid = ?", rid); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE thread SET replies = GREATEST(replies - 1, 0) WHERE tid = ?", reply.Tid); err != nil {
		return err
	}

	return tx.Commit()
}
