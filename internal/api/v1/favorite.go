package v1

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/middleware"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/apperr"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/response"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/util"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/service"
)

// FavoriteHandler thread favorite endpoints
type FavoriteHandler struct {
	svc *service.FavoriteService
}

// NewFavoriteHandler create FavoriteHandler
func NewFavoriteHandler(svc *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{svc: svc}
}

// Add POST /api/v1/forum/:tid/favorite
func (h *FavoriteHandler) Add(c *gin.Context) {
	tid, err := util.StrToInt64(c.Param("tid"))
	if err != nil {
		response.BadRequest(c, "invalid tid")
		return
	}

	err = h.svc.Add(c.Request.Context(), middleware.GetViewer(c), tid)
	if err != nil {
		if errors.Is(err, apperr.ErrThreadNotFound) {
			response.NotFound(c, "thread not found")
			return
		}
		if errors.Is(err, apperr.ErrDuplicate) {
			response.SoftDeny(c, apperr.CodeAlreadyFavorite, "already in favorites")
			return
		}
		response.Fail(c, err)
		return
	}

	response.SuccessWithMsg(c, gin.H{"favorited": true}, "added to favorites")
}

// Remove DELETE /api/v1/forum/:tid/favorite
func (h *FavoriteHandler) Remove(c *gin.Context) {
	tid, err := util.StrToInt64(c.Param("tid"))
	if err != nil {
		response.BadRequest(c, "invalid tid")
		return
	}

	if err := h.svc.Remove(c.Request.Context(), middleware.GetViewer(c), tid); err != nil {
		response.Fail(c, err)
		return
	}

	response.SuccessWithMsg(c, gin.H{"favorited": false}, "removed from favorites")
}

// Toggle POST /api/v1/forum/:tid/favorite/toggle
func (h *FavoriteHandler) Toggle(c *gin.Context) {
	tid, err := util.StrToInt64(c.Param("tid"))
	if err != nil {
		response.BadRequest(c, "invalid tid")
		return
	}

	favorited, err := h.svc.Toggle(c.Request.Context(), middleware.GetViewer(c), tid)
	if err != nil {
		if errors.Is(err, apperr.ErrThreadNotFound) {
			response.NotFound(c, "thread not found")
			return
		}
		response.Fail(c, err)
		return
	}

	msg := "removed from favorites"
	if favorited {
		msg = "added to favorites"
	}
	response.SuccessWithMsg(c, gin.H{"favorited": favorited}, msg)
}
