package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/model"
)

// FaqRepository FAQ category and entry data access. Both levels are
// admin-managed and carry no author column.
type FaqRepository interface {
	ListCategories(ctx context.Context) ([]*model.FaqCategory, error)
	GetCategory(ctx context.Context, cid int64) (*model.FaqCategory, error)
	CreateCategory(ctx context.Context, cat *model.FaqCategory) error
	UpdateCategory(ctx context.Context, cat *model.FaqCategory) error
	DeleteCategory(ctx context.Context, cid int64) error

	ListFaqs(ctx context.Context) ([]*model.Faq, error)
	GetFaq(ctx context.Context, fid int64) (*model.Faq, error)
	CreateFaq(ctx context.Context, faq *model.Faq) error
	UpdateFaq(ctx context.Context, faq *model.Faq) error
	DeleteFaq(ctx context.Context, fid int64) error
}

// NewFaqRepository create FAQ repository
func NewFaqRepository(db *sqlx.DB) FaqRepository {
	return &faqRepository{db: db}
}

type faqRepository struct {
	db *sqlx.DB
}

// ListCategories all categories by sort key, insertion order breaking ties
func (r *faqRepository) ListCategories(ctx context.Context) ([]*model.FaqCategory, error) {
	var cats []*model.FaqCategory
	err := r.db.SelectContext(ctx, &cats,
		"SELECT cid, name, sort, created_at, updated_at FROM faq_category ORDER BY sort ASC, cid ASC")
	if err != nil {
		return nil, err
	}
	return cats, nil
}

// GetCategory fetch one category
func (r *faqRepository) GetCategory(ctx context.Context, cid int64) (*model.FaqCategory, error) {
	var cat model.FaqCategory
	err := r.db.GetContext(ctx, &cat,
		"SELECT cid, name, sort, created_at, updated_at FROM faq_category WHERE cid = ?", cid)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// CreateCategory insert a category
func (r *faqRepository) CreateCategory(ctx context.Context, cat *model.FaqCategory) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO faq_category (cid, name, sort, created_at, updated_at) VALUES (?, ?, ?, NOW(), NOW())",
		cat.Cid, cat.Name, cat.Sort)
	return err
}

// UpdateCategory rewrite name and sort key
func (r *faqRepository) UpdateCategory(ctx context.Context, cat *model.FaqCategory) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE faq_category SET name = ?, sort = ?, updated_at = NOW() WHERE cid = ?",
		cat.Name, cat.Sort, cat.Cid)
	return err
}

// DeleteCategory remove a category and cascade its FAQs in one tx
func (r *faqRepository) DeleteCategory(ctx context.Context, cid int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM faq WHERE cid = ?", cid); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM faq_category WHERE cid = ?", cid); err != nil {
		return err
	}

	return tx.Commit()
}

// ListFaqs all FAQs ordered for category grouping
func (r *faqRepository) ListFaqs(ctx context.Context) ([]*model.Faq, error) {
	var faqs []*model.Faq
	err := r.db.SelectContext(ctx, &faqs,
		"SELECT fid, cid, question, answer, sort, created_at, updated_at FROM faq ORDER BY cid ASC, sort ASC, fid ASC")
	if err != nil {
		return nil, err
	}
	return faqs, nil
}

// GetFaq fetch one FAQ
func (r *faqRepository) GetFaq(ctx context.Context, fid int64) (*model.Faq, error) {
	var faq model.Faq
	err := r.db.GetContext(ctx, &faq,
		"SELECT fid, cid, question, answer, sort, created_at, updated_at FROM faq WHERE fid = ?", fid)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &faq, nil
}

// CreateFaq insert a FAQ
func (r *faqRepository) CreateFaq(ctx context.Context, faq *model.Faq) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO faq (fid, cid, question, answer, sort, created_at, updated_at) VALUES (?, ?, ?, ?, ?, NOW(), NOW())",
		faq.Fid, faq.Cid, faq.Question, faq.Answer, faq.Sort)
	return err
}

// UpdateFaq rewrite a FAQ
func (r *faqRepository) UpdateFaq(ctx context.Context, faq *model.Faq) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE faq SET cid = ?, question = ?, answer = ?, sort = ?, updated_at = NOW() WHERE fid = ?",
		faq.Cid, faq.Question, faq.Answer, faq.Sort, faq.Fid)
	return err
}

// DeleteFaq remove a FAQ
func (r *faqRepository) DeleteFaq(ctx context.Context, fid int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM faq WHERE fid = ?", fid)
	return err
}
