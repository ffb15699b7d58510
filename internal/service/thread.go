package service

import (
	"context"
	"fmt"
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
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/pool"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/repository"
)

// ThreadPageSize forum listing page size
const ThreadPageSize = 15

// ThreadService forum thread business logic
type ThreadService struct {
	repo      repository.ThreadRepository
	replyRepo repository.ReplyRepository
	userSvc   *UserService
	l1        *pool.SimpleCache[int64, *ThreadDTO] // L1 cache
	l2        *redis.Client
	sf        *singleflight.Group
	l2Config  *config.CacheConfig
}

// ThreadDTO viewer-independent thread projection. Permission flags are
// stamped on per request, after the cache.
type ThreadDTO struct {
	Tid       int64          `json:"tid"`
	Uid       int64          `json:"uid"`
	Title     string         `json:"title"`
	Body      string         `json:"body,omitempty"`
	IsPinned  bool           `json:"is_pinned"`
	Replies   int            `json:"replies"`
	CreatedAt int64          `json:"created_at"`
	UpdatedAt int64          `json:"updated_at"`
	Author    *model.UserDTO `json:"author,omitempty"`
	CanEdit   bool           `json:"can_edit"`
	CanDelete bool           `json:"can_delete"`
	CanPin    bool           `json:"can_pin"`
}

// ReplyDTO reply projection with per-viewer flags
type ReplyDTO struct {
	Rid       int64          `json:"rid"`
	Tid       int64          `json:"tid"`
	Uid       int64          `json:"uid"`
	Body      string         `json:"body"`
	CreatedAt int64          `json:"created_at"`
	Author    *model.UserDTO `json:"author,omitempty"`
	CanEdit   bool           `json:"can_edit"`
	CanDelete bool           `json:"can_delete"`
}

// ThreadDetail thread plus its replies in creation order
type ThreadDetail struct {
	Thread  *ThreadDTO  `json:"thread"`
	Replies []*ReplyDTO `json:"replies"`
}

// NewThreadService create ThreadService
func NewThreadService(repo repository.ThreadRepository, replyRepo repository.ReplyRepository, userSvc *UserService, l2 *redis.Client, l2Config *config.CacheConfig) *ThreadService {
	return &ThreadService{
		repo:      repo,
		replyRepo: replyRepo,
		userSvc:   userSvc,
		l1:        pool.NewCache[int64, *ThreadDTO](l2Config.L1Cap),
		l2:        l2,
		sf:        &singleflight.Group{},
		l2Config:  l2Config,
	}
}

func threadKey(tid int64) string {
	return fmt.Sprintf("thread:%d", tid)
}

// Get single thread, cache-first. The returned DTO is shared; callers
// must not mutate it. Use stampFlags to project a per-viewer copy.
func (s *ThreadService) Get(ctx context.Context, tid int64) (*ThreadDTO, error) {
	key := threadKey(tid)

	// L1 Cache
	if v, ok := s.l1.Get(tid); ok {
		return v, nil
	}

	// L2 Cache
	ctxL2 := context.Background()
	if s.l2 != nil {
		if v, err := s.l2.Get(ctxL2, key).Bytes(); err == nil {
			var dto ThreadDTO
			if err := dto.UnmarshalBinary(v); err == nil {
				s.l1.Set(tid, &dto)
				return &dto, nil
			}
		}
	}

	// SingleFlight + DB
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		thread, err := s.repo.GetByID(ctx, tid)
		if err != nil {
			return nil, err
		}
		if thread == nil {
			return nil, nil
		}

		dto := threadToDTO(thread)

		// Write Cache
		if s.l2 != nil {
			if bytes, err := dto.MarshalBinary(); err == nil {
				s.l2.Set(ctxL2, key, bytes, time.Duration(s.l2Config.L2TTL)*time.Second)
			}
		}
		s.l1.Set(tid, dto)

		return dto, nil
	})

	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.(*ThreadDTO), nil
}

// Detail thread with author, replies and per-viewer permission flags
func (s *ThreadService) Detail(ctx context.Context, tid int64, viewer *policy.Viewer) (*ThreadDetail, error) {
	dto, err := s.Get(ctx, tid)
	if err != nil {
		return nil, err
	}
	if dto == nil {
		return nil, apperr.ErrThreadNotFound
	}

	replies, err := s.replyRepo.ListByThread(ctx, tid)
	if err != nil {
		return nil, err
	}

	uids := make([]int64, 0, len(replies)+1)
	uids = append(uids, dto.Uid)
	for _, r := range replies {
		uids = append(uids, r.Uid)
	}
	authors, err := s.userSvc.GetUsersByIDs(ctx, uids)
	if err != nil {
		return nil, err
	}

	thread := stampFlags(dto, viewer)
	thread.Author = authors[dto.Uid]

	replyDTOs := make([]*ReplyDTO, 0, len(replies))
	for _, r := range replies {
		can := policy.CanModify(viewer, r.Uid)
		replyDTOs = append(replyDTOs, &ReplyDTO{
			Rid:       r.Rid,
			Tid:       r.Tid,
			Uid:       r.Uid,
			Body:      r.Body,
			CreatedAt: r.CreatedAt.Unix(),
			Author:    authors[r.Uid],
			CanEdit:   can,
			CanDelete: can,
		})
	}

	return &ThreadDetail{Thread: thread, Replies: replyDTOs}, nil
}

// List paginated threads, pinned first. sort is "latest" or "replies".
func (s *ThreadService) List(ctx context.Context, sort string, page int, viewer *policy.Viewer) (*pagination.Page, error) {
	if sort != model.ThreadSortReplies {
		sort = model.ThreadSortLatest
	}
	offset := pagination.Offset(page, ThreadPageSize)

	threads, err := s.repo.List(ctx, sort, offset, ThreadPageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	uids := make([]int64, 0, len(threads))
	for _, t := range threads {
		uids = append(uids, t.Uid)
	}
	authors, err := s.userSvc.GetUsersByIDs(ctx, uids)
	if err != nil {
		return nil, err
	}

	list := make([]*ThreadDTO, 0, len(threads))
	for _, t := range threads {
		dto := stampFlags(threadToDTO(t), viewer)
		dto.Body = "" // listings carry no body
		dto.Author = authors[t.Uid]
		list = append(list, dto)
	}

	return pagination.New(list, page, ThreadPageSize, total), nil
}

// Create new thread authored by the viewer
func (s *ThreadService) Create(ctx context.Context, viewer *policy.Viewer, title, body string) (*ThreadDTO, error) {
	if viewer == nil {
		return nil, apperr.ErrUnauthorized
	}

	thread := &model.Thread{
		Tid:      snowflake.Generate(),
		Uid:      viewer.UID,
		Title:    title,
		Body:     body,
		IsPinned: false,
		Replies:  0,
	}

	if err := s.repo.Create(ctx, thread); err != nil {
		logger.Error("create thread failed", logger.String("error", err.Error()))
		return nil, err
	}

	now := time.Now().Unix()
	return &ThreadDTO{
		Tid:       thread.Tid,
		Uid:       thread.Uid,
		Title:     title,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
		CanEdit:   true,
		CanDelete: true,
		CanPin:    policy.CanPin(viewer),
	}, nil
}

// Update edit title/body; author-or-admin only
func (s *ThreadService) Update(ctx context.Context, viewer *policy.Viewer, tid int64, title, body string) error {
	thread, err := s.repo.GetByID(ctx, tid)
	if err != nil {
		return err
	}
	if thread == nil {
		return apperr.ErrThreadNotFound
	}
	if !policy.CanModify(viewer, thread.Uid) {
		return apperr.ErrForbidden
	}

	thread.Title = title
	thread.Body = body
	if err := s.repo.Update(ctx, thread); err != nil {
		return err
	}

	s.invalidate(tid)
	return nil
}

// Delete remove a thread and cascade replies + favorites
func (s *ThreadService) Delete(ctx context.Context, viewer *policy.Viewer, tid int64) error {
	thread, err := s.repo.GetByID(ctx, tid)
	if err != nil {
		return err
	}
	if thread == nil {
		return apperr.ErrThreadNotFound
	}
	if !policy.CanModify(viewer, thread.Uid) {
		return apperr.ErrForbidden
	}

	if err := s.repo.Delete(ctx, tid); err != nil {
		return err
	}

	s.invalidate(tid)
	return nil
}

// TogglePin flip the pin flag; admin only. Returns the new state.
func (s *ThreadService) TogglePin(ctx context.Context, viewer *policy.Viewer, tid int64) (bool, error) {
	if !policy.CanPin(viewer) {
		return false, apperr.ErrForbidden
	}

	thread, err := s.repo.GetByID(ctx, tid)
	if err != nil {
		return false, err
	}
	if thread == nil {
		return false, apperr.ErrThreadNotFound
	}

	pinned := !thread.IsPinned
	if err := s.repo.SetPinned(ctx, tid, pinned); err != nil {
		return false, err
	}

	s.invalidate(tid)
	return pinned, nil
}

// RecentByUser recent threads for a profile page
func (s *ThreadService) RecentByUser(ctx context.Context, uid int64, limit int) ([]*ThreadDTO, error) {
	threads, err := s.repo.ListByUID(ctx, uid, limit)
	if err != nil {
		return nil, err
	}
	list := make([]*ThreadDTO, 0, len(threads))
	for _, t := range threads {
		dto := threadToDTO(t)
		dto.Body = ""
		list = append(list, dto)
	}
	return list, nil
}

// Invalidate drop a thread from both cache tiers
func (s *ThreadService) Invalidate(tid int64) {
	s.invalidate(tid)
}

func (s *ThreadService) invalidate(tid int64) {
	s.l1.Remove(tid)
	if s.l2 != nil {
		s.l2.Del(context.Background(), threadKey(tid))
	}
}

// FlushCache drop the whole L1 tier
func (s *ThreadService) FlushCache(ctx context.Context) error {
	s.l1.Flush()
	return nil
}

// threadToDTO base projection without viewer state
func threadToDTO(t *model.Thread) *ThreadDTO {
	return &ThreadDTO{
		Tid:       t.Tid,
		Uid:       t.Uid,
		Title:     t.Title,
		Body:      t.Body,
		IsPinned:  t.IsPinned,
		Replies:   t.Replies,
		CreatedAt: t.CreatedAt.Unix(),
		UpdatedAt: t.UpdatedAt.Unix(),
	}
}

// stampFlags copy the cached DTO and project viewer permissions onto it
func stampFlags(dto *ThreadDTO, viewer *policy.Viewer) *ThreadDTO {
	out := *dto
	can := policy.CanModify(viewer, dto.Uid)
	out.CanEdit = can
	out.CanDelete = can
	out.CanPin = policy.CanPin(viewer)
	return &out
}
