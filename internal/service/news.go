package service

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/config"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/logger"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/snowflake"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/model"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/apperr"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/pagination"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/policy"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/upload"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/repository"
)

const (
	// NewsPageSize public article listing page size
	NewsPageSize = 12
	// AdminNewsPageSize back-office article listing page size
	AdminNewsPageSize = 15
)

// layouts accepted for the publish timestamp
var publishedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// NewsService article business logic. Published reads go through the
// cache tiers; the back office always reads the database directly.
type NewsService struct {
	repo     repository.NewsRepository
	userSvc  *UserService
	images   *upload.Store
	l2       *redis.Client
	sf       *singleflight.Group
	l2Config *config.CacheConfig
}

// NewsDTO article projection
type NewsDTO struct {
	Nid         int64          `json:"nid"`
	Uid         int64          `json:"uid"`
	Title       string         `json:"title"`
	Content     string         `json:"content,omitempty"`
	Image       string         `json:"image,omitempty"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	CreatedAt   int64          `json:"created_at"`
	UpdatedAt   int64          `json:"updated_at"`
	Author      *model.UserDTO `json:"author,omitempty"`
	IsPublished bool           `json:"is_published"`
}

// NewNewsService create NewsService
func NewNewsService(repo repository.NewsRepository, userSvc *UserService, images *upload.Store, l2 *redis.Client, l2Config *config.CacheConfig) *NewsService {
	return &NewsService{
		repo:     repo,
		userSvc:  userSvc,
		images:   images,
		l2:       l2,
		sf:       &singleflight.Group{},
		l2Config: l2Config,
	}
}

func newsKey(nid int64) string {
	return fmt.Sprintf("news:%d", nid)
}

// GetPublished single published article, cache-first. Scheduled and
// unpublished articles are invisible here.
func (s *NewsService) GetPublished(ctx context.Context, nid int64) (*NewsDTO, error) {
	key := newsKey(nid)

	// L2 Cache
	if s.l2 != nil {
		if data, err := s.l2.Get(ctx, key).Bytes(); err == nil {
			var dto NewsDTO
			if err := json.Unmarshal(data, &dto); err == nil {
				return &dto, nil
			}
		}
	}

	// SingleFlight + DB
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		item, err := s.repo.GetPublishedByID(ctx, nid)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, nil
		}

		dto := newsToDTO(item)

		if s.l2 != nil {
			if bytes, _ := json.Marshal(dto); bytes != nil {
				// TTL capped so a future publish date becomes visible on time
				ttl := time.Duration(s.l2Config.L2TTL) * time.Second
				s.l2.Set(ctx, key, bytes, ttl)
			}
		}

		return dto, nil
	})

	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, apperr.ErrNewsNotFound
	}

	dto := v.(*NewsDTO)
	if author, err := s.userSvc.GetUserByID(ctx, dto.Uid); err == nil {
		dto.Author = author
	}
	return dto, nil
}

// ListPublished public listing, newest published first
func (s *NewsService) ListPublished(ctx context.Context, page int) (*pagination.Page, error) {
	offset := pagination.Offset(page, NewsPageSize)

	items, err := s.repo.ListPublished(ctx, offset, NewsPageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountPublished(ctx)
	if err != nil {
		return nil, err
	}

	list := s.hydrate(ctx, items, true)
	return pagination.New(list, page, NewsPageSize, total), nil
}

// ListAll back-office listing including drafts and scheduled items
func (s *NewsService) ListAll(ctx context.Context, page int) (*pagination.Page, error) {
	offset := pagination.Offset(page, AdminNewsPageSize)

	items, err := s.repo.ListAll(ctx, offset, AdminNewsPageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	list := s.hydrate(ctx, items, false)
	return pagination.New(list, page, AdminNewsPageSize, total), nil
}

// Get any article by id, for the back-office edit form
func (s *NewsService) Get(ctx context.Context, nid int64) (*NewsDTO, error) {
	item, err := s.repo.GetByID(ctx, nid)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.ErrNewsNotFound
	}
	return newsToDTO(item), nil
}

// Create store a new article with its cover image
func (s *NewsService) Create(ctx context.Context, uid int64, req *model.CreateNewsRequest, image *multipart.FileHeader) (*NewsDTO, error) {
	publishedAt, err := parsePublishedAt(req.PublishedAt)
	if err != nil {
		return nil, apperr.NewAppError(apperr.CodeBadRequest, "invalid publish date")
	}

	if image == nil {
		return nil, apperr.NewAppError(apperr.CodeImageInvalid, "image is required")
	}
	imageName, err := s.images.SaveImage(image)
	if err != nil {
		return nil, apperr.NewAppError(apperr.CodeImageInvalid, err.Error())
	}

	now := time.Now()
	item := &model.NewsItem{
		Nid:         snowflake.Generate(),
		Uid:         uid,
		Title:       req.Title,
		Content:     req.Content,
		Image:       imageName,
		PublishedAt: publishedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		s.images.Delete(imageName)
		logger.Error("create news failed", logger.String("error", err.Error()))
		return nil, err
	}

	return newsToDTO(item), nil
}

// Update edit an article; a new image replaces and removes the old file
func (s *NewsService) Update(ctx context.Context, viewer *policy.Viewer, nid int64, req *model.UpdateNewsRequest, image *multipart.FileHeader) (*NewsDTO, error) {
	item, err := s.repo.GetByID(ctx, nid)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.ErrNewsNotFound
	}
	if !policy.CanModify(viewer, item.Uid) {
		return nil, apperr.ErrForbidden
	}

	publishedAt, err := parsePublishedAt(req.PublishedAt)
	if err != nil {
		return nil, apperr.NewAppError(apperr.CodeBadRequest, "invalid publish date")
	}

	oldImage := ""
	if image != nil {
		newName, err := s.images.SaveImage(image)
		if err != nil {
			return nil, apperr.NewAppError(apperr.CodeImageInvalid, err.Error())
		}
		oldImage = item.Image
		item.Image = newName
	}

	item.Title = req.Title
	item.Content = req.Content
	item.PublishedAt = publishedAt
	item.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, item); err != nil {
		if image != nil {
			s.images.Delete(item.Image)
		}
		return nil, err
	}

	if oldImage != "" {
		s.images.Delete(oldImage)
	}

	s.invalidate(nid)
	return newsToDTO(item), nil
}

// Delete remove an article and its stored image
func (s *NewsService) Delete(ctx context.Context, viewer *policy.Viewer, nid int64) error {
	item, err := s.repo.GetByID(ctx, nid)
	if err != nil {
		return err
	}
	if item == nil {
		return apperr.ErrNewsNotFound
	}
	if !policy.CanModify(viewer, item.Uid) {
		return apperr.ErrForbidden
	}

	if err := s.repo.Delete(ctx, nid); err != nil {
		return err
	}

	s.images.Delete(item.Image)
	s.invalidate(nid)
	return nil
}

func (s *NewsService) invalidate(nid int64) {
	if s.l2 != nil {
		s.l2.Del(context.Background(), newsKey(nid))
	}
}

// hydrate project items to DTOs with authors, trimming content for listings
func (s *NewsService) hydrate(ctx context.Context, items []*model.NewsItem, trim bool) []*NewsDTO {
	uids := make([]int64, 0, len(items))
	for _, item := range items {
		uids = append(uids, item.Uid)
	}
	authors, err := s.userSvc.GetUsersByIDs(ctx, uids)
	if err != nil {
		authors = map[int64]*model.UserDTO{}
	}

	list := make([]*NewsDTO, 0, len(items))
	for _, item := range items {
		dto := newsToDTO(item)
		if trim {
			dto.Content = ""
		}
		dto.Author = authors[item.Uid]
		list = append(list, dto)
	}
	return list
}

func newsToDTO(item *model.NewsItem) *NewsDTO {
	return &NewsDTO{
		Nid:         item.Nid,
		Uid:         item.Uid,
		Title:       item.Title,
		Content:     item.Content,
		Image:       item.Image,
		PublishedAt: item.PublishedAt,
		CreatedAt:   item.CreatedAt.Unix(),
		UpdatedAt:   item.UpdatedAt.Unix(),
		IsPublished: item.Published(time.Now()),
	}
}

// parsePublishedAt empty input means draft (never shown publicly)
func parsePublishedAt(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range publishedAtLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized time %q", raw)
}
