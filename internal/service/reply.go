package service

import (
	"context"
	"time"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/logger"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/snowflake"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/model"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/apperr"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/policy"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/repository"
)

// ReplyService reply business logic. Mutations bump the parent thread's
// reply counter in the repository transaction, so the cached thread must
// be invalidated here.
type ReplyService struct {
	repo      repository.ReplyRepository
	threadSvc *ThreadService
}

// NewReplyService create ReplyService
func NewReplyService(repo repository.ReplyRepository, threadSvc *ThreadService) *ReplyService {
	return &ReplyService{repo: repo, threadSvc: threadSvc}
}

// Create post a reply to an existing thread
func (s *ReplyService) Create(ctx context.Context, viewer *policy.Viewer, tid int64, body string) (*ReplyDTO, error) {
	if viewer == nil {
		return nil, apperr.ErrUnauthorized
	}

	thread, err := s.threadSvc.Get(ctx, tid)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, apperr.ErrThreadNotFound
	}

	reply := &model.Reply{
		Rid:  snowflake.Generate(),
		Tid:  tid,
		Uid:  viewer.UID,
		Body: body,
	}

	if err := s.repo.Create(ctx, reply); err != nil {
		logger.Error("create reply failed", logger.String("error", err.Error()))
		return nil, err
	}

	s.threadSvc.Invalidate(tid)

	return &ReplyDTO{
		Rid:       reply.Rid,
		Tid:       tid,
		Uid:       viewer.UID,
		Body:      body,
		CreatedAt: time.Now().Unix(),
		CanEdit:   true,
		CanDelete: true,
	}, nil
}

// Update edit a reply body; author-or-admin only
func (s *ReplyService) Update(ctx context.Context, viewer *policy.Viewer, rid int64, body string) error {
	reply, err := s.repo.GetByID(ctx, rid)
	if err != nil {
		return err
	}
	if reply == nil {
		return apperr.ErrReplyNotFound
	}
	if !policy.CanModify(viewer, reply.Uid) {
		return apperr.ErrForbidden
	}

	reply.Body = body
	return s.repo.Update(ctx, reply)
}

// Delete remove a reply and decrement the thread counter
func (s *ReplyService) Delete(ctx context.Context, viewer *policy.Viewer, rid int64) error {
	reply, err := s.repo.GetByID(ctx, rid)
	if err != nil {
		return err
	}
	if reply == nil {
		return apperr.ErrReplyNotFound
	}
	if !policy.CanModify(viewer, reply.Uid) {
		return apperr.ErrForbidden
	}

	if err := s.repo.Delete(ctx, rid); err != nil {
		return err
	}

	s.threadSvc.Invalidate(reply.Tid)
	return nil
}
