package service

import (
	"context"
	"errors"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/apperr"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/policy"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/repository"
)

// ProfileFavoriteCount favorites shown on a profile page
const ProfileFavoriteCount = 5

// FavoriteService thread favorites (bookmarks)
type FavoriteService struct {
	repo      repository.FavoriteRepository
	threadSvc *ThreadService
}

// NewFavoriteService create FavoriteService
func NewFavoriteService(repo repository.FavoriteRepository, threadSvc *ThreadService) *FavoriteService {
	return &FavoriteService{repo: repo, threadSvc: threadSvc}
}

// Add favorite a thread. Doing it twice is a no-op: the unique key
// rejects the insert and the caller gets favorited=true either way.
func (s *FavoriteService) Add(ctx context.Context, viewer *policy.Viewer, tid int64) error {
	if viewer == nil {
		return apperr.ErrUnauthorized
	}

	thread, err := s.threadSvc.Get(ctx, tid)
	if err != nil {
		return err
	}
	if thread == nil {
		return apperr.ErrThreadNotFound
	}

	if err := s.repo.Add(ctx, viewer.UID, tid); err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			return apperr.ErrDuplicate
		}
		return err
	}
	return nil
}

// Remove unfavorite a thread; removing a non-favorite is a no-op
func (s *FavoriteService) Remove(ctx context.Context, viewer *policy.Viewer, tid int64) error {
	if viewer == nil {
		return apperr.ErrUnauthorized
	}
	return s.repo.Remove(ctx, viewer.UID, tid)
}

// Toggle flip the favorite state and report the new one
func (s *FavoriteService) Toggle(ctx context.Context, viewer *policy.Viewer, tid int64) (bool, error) {
	if viewer == nil {
		return false, apperr.ErrUnauthorized
	}

	thread, err := s.threadSvc.Get(ctx, tid)
	if err != nil {
		return false, err
	}
	if thread == nil {
		return false, apperr.ErrThreadNotFound
	}

	exists, err := s.repo.Exists(ctx, viewer.UID, tid)
	if err != nil {
		return false, err
	}

	if exists {
		if err := s.repo.Remove(ctx, viewer.UID, tid); err != nil {
			return true, err
		}
		return false, nil
	}

	if err := s.repo.Add(ctx, viewer.UID, tid); err != nil {
		// raced with another request; the end state is favorited
		if errors.Is(err, apperr.ErrDuplicate) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

// IsFavorite current favorite state for a viewer
func (s *FavoriteService) IsFavorite(ctx context.Context, viewer *policy.Viewer, tid int64) (bool, error) {
	if viewer == nil {
		return false, nil
	}
	return s.repo.Exists(ctx, viewer.UID, tid)
}

// Recent most recently favorited threads for a profile page
func (s *FavoriteService) Recent(ctx context.Context, uid int64) ([]*ThreadDTO, error) {
	threads, err := s.repo.RecentThreads(ctx, uid, ProfileFavoriteCount)
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
