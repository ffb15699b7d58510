package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/config"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/snowflake"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/model"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/apperr"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/pool"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/repository"
)

const faqListingKey = "faq:listing"

// FaqService FAQ catalogue. The public page is one grouped listing that
// changes rarely, so it is cached whole and rebuilt on any admin write.
type FaqService struct {
	repo     repository.FaqRepository
	l1       *pool.SimpleCache[string, []*CategoryDTO]
	l2       *redis.Client
	sf       *singleflight.Group
	l2Config *config.CacheConfig
}

// CategoryDTO category with its FAQs in display order
type CategoryDTO struct {
	Cid   int64     `json:"cid"`
	Name  string    `json:"name"`
	Sort  int       `json:"order"`
	Faqs  []*FaqDTO `json:"faqs"`
	Total int       `json:"total"`
}

// FaqDTO question/answer projection
type FaqDTO struct {
	Fid      int64  `json:"fid"`
	Cid      int64  `json:"cid"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Sort     int    `json:"order"`
}

// NewFaqService create FaqService
func NewFaqService(repo repository.FaqRepository, l2 *redis.Client, l2Config *config.CacheConfig) *FaqService {
	return &FaqService{
		repo:     repo,
		l1:       pool.NewCache[string, []*CategoryDTO](8),
		l2:       l2,
		sf:       &singleflight.Group{},
		l2Config: l2Config,
	}
}

// Listing grouped catalogue in category then FAQ sort order.
// Categories with no FAQs still appear, with an empty faqs slice.
func (s *FaqService) Listing(ctx context.Context) ([]*CategoryDTO, error) {
	// L1 Cache
	if v, ok := s.l1.Get(faqListingKey); ok {
		return v, nil
	}

	// L2 Cache
	if s.l2 != nil {
		if data, err := s.l2.Get(ctx, faqListingKey).Bytes(); err == nil {
			var listing []*CategoryDTO
			if err := json.Unmarshal(data, &listing); err == nil {
				s.l1.Set(faqListingKey, listing)
				return listing, nil
			}
		}
	}

	// SingleFlight + DB
	v, err, _ := s.sf.Do(faqListingKey, func() (interface{}, error) {
		listing, err := s.buildListing(ctx)
		if err != nil {
			return nil, err
		}

		if s.l2 != nil {
			if bytes, _ := json.Marshal(listing); bytes != nil {
				s.l2.Set(ctx, faqListingKey, bytes, time.Duration(s.l2Config.L2TTL)*time.Second)
			}
		}
		s.l1.Set(faqListingKey, listing)

		return listing, nil
	})

	if err != nil {
		return nil, err
	}
	return v.([]*CategoryDTO), nil
}

func (s *FaqService) buildListing(ctx context.Context) ([]*CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	faqs, err := s.repo.ListFaqs(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[int64][]*FaqDTO, len(categories))
	for _, f := range faqs {
		grouped[f.Cid] = append(grouped[f.Cid], &FaqDTO{
			Fid:      f.Fid,
			Cid:      f.Cid,
			Question: f.Question,
			Answer:   f.Answer,
			Sort:     f.Sort,
		})
	}

	listing := make([]*CategoryDTO, 0, len(categories))
	for _, cat := range categories {
		items := grouped[cat.Cid]
		if items == nil {
			items = []*FaqDTO{}
		}
		listing = append(listing, &CategoryDTO{
			Cid:   cat.Cid,
			Name:  cat.Name,
			Sort:  cat.Sort,
			Faqs:  items,
			Total: len(items),
		})
	}
	return listing, nil
}

// GetCategory back-office category lookup
func (s *FaqService) GetCategory(ctx context.Context, cid int64) (*model.FaqCategory, error) {
	cat, err := s.repo.GetCategory(ctx, cid)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, apperr.ErrCategoryNotFound
	}
	return cat, nil
}

// CreateCategory add a category
func (s *FaqService) CreateCategory(ctx context.Context, req *model.CategoryRequest) (*model.FaqCategory, error) {
	cat := &model.FaqCategory{
		Cid:  snowflake.Generate(),
		Name: req.Name,
		Sort: req.Sort,
	}
	if err := s.repo.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	s.invalidate()
	return cat, nil
}

// UpdateCategory rename or reorder a category
func (s *FaqService) UpdateCategory(ctx context.Context, cid int64, req *model.CategoryRequest) (*model.FaqCategory, error) {
	cat, err := s.repo.GetCategory(ctx, cid)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, apperr.ErrCategoryNotFound
	}

	cat.Name = req.Name
	cat.Sort = req.Sort
	if err := s.repo.UpdateCategory(ctx, cat); err != nil {
		return nil, err
	}
	s.invalidate()
	return cat, nil
}

// DeleteCategory remove a category and every FAQ in it
func (s *FaqService) DeleteCategory(ctx context.Context, cid int64) error {
	cat, err := s.repo.GetCategory(ctx, cid)
	if err != nil {
		return err
	}
	if cat == nil {
		return apperr.ErrCategoryNotFound
	}

	if err := s.repo.DeleteCategory(ctx, cid); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// GetFaq back-office FAQ lookup
func (s *FaqService) GetFaq(ctx context.Context, fid int64) (*model.Faq, error) {
	faq, err := s.repo.GetFaq(ctx, fid)
	if err != nil {
		return nil, err
	}
	if faq == nil {
		return nil, apperr.ErrFaqNotFound
	}
	return faq, nil
}

// CreateFaq add a FAQ to an existing category
func (s *FaqService) CreateFaq(ctx context.Context, req *model.FaqRequest) (*model.Faq, error) {
	cat, err := s.repo.GetCategory(ctx, req.Cid)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, apperr.ErrCategoryNotFound
	}

	faq := &model.Faq{
		Fid:      snowflake.Generate(),
		Cid:      req.Cid,
		Question: req.Question,
		Answer:   req.Answer,
		Sort:     req.Sort,
	}
	if err := s.repo.CreateFaq(ctx, faq); err != nil {
		return nil, err
	}
	s.invalidate()
	return faq, nil
}

// UpdateFaq edit a FAQ, possibly moving it across categories
func (s *FaqService) UpdateFaq(ctx context.Context, fid int64, req *model.FaqRequest) (*model.Faq, error) {
	faq, err := s.repo.GetFaq(ctx, fid)
	if err != nil {
		return nil, err
	}
	if faq == nil {
		return nil, apperr.ErrFaqNotFound
	}

	if req.Cid != faq.Cid {
		cat, err := s.repo.GetCategory(ctx, req.Cid)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, apperr.ErrCategoryNotFound
		}
	}

	faq.Cid = req.Cid
	faq.Question = req.Question
	faq.Answer = req.Answer
	faq.Sort = req.Sort
	if err := s.repo.UpdateFaq(ctx, faq); err != nil {
		return nil, err
	}
	s.invalidate()
	return faq, nil
}

// DeleteFaq remove a single FAQ
func (s *FaqService) DeleteFaq(ctx context.Context, fid int64) error {
	faq, err := s.repo.GetFaq(ctx, fid)
	if err != nil {
		return err
	}
	if faq == nil {
		return apperr.ErrFaqNotFound
	}

	if err := s.repo.DeleteFaq(ctx, fid); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *FaqService) invalidate() {
	s.l1.Remove(faqListingKey)
	if s.l2 != nil {
		s.l2.Del(context.Background(), faqListingKey)
	}
}

// FlushCache drop the grouped listing from L1
func (s *FaqService) FlushCache(ctx context.Context) error {
	s.l1.Flush()
	return nil
}
