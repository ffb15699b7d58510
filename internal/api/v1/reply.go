package v1

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/middleware"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/model"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/apperr"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/response"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/util"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/service"
)

// ReplyHandler reply endpoints
type ReplyHandler struct {
	svc *service.ReplyService
}

// NewReplyHandler create ReplyHandler
func NewReplyHandler(svc *service.ReplyService) *ReplyHandler {
	return &ReplyHandler{svc: svc}
}

// Create POST /api/v1/forum/:tid/replies
func (h *ReplyHandler) Create(c *gin.Context) {
	tid, err := util.StrToInt64(c.Param("tid"))
	if err != nil {
		response.BadRequest(c, "invalid tid")
		return
	}

	var req model.CreateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.svc.Create(c.Request.Context(), middleware.GetViewer(c), tid, req.Body)
	if err != nil {
		if errors.Is(err, apperr.ErrThreadNotFound) {
			response.NotFound(c, "thread not found")
			return
		}
		response.Fail(c, err)
		return
	}

	response.SuccessWithMsg(c, dto, "reply posted")
}

// Update PUT /api/v1/replies/:rid
func (h *ReplyHandler) Update(c *gin.Context) {
	rid, err := util.StrToInt64(c.Param("rid"))
	if err != nil {
		response.BadRequest(c, "invalid rid")
		return
	}

	var req model.UpdateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.svc.Update(c.Request.Context(), middleware.GetViewer(c), rid, req.Body); err != nil {
		failReply(c, err)
		return
	}

	response.SuccessWithMsg(c, nil, "reply updated")
}

// Delete DELETE /api/v1/replies/:rid
func (h *ReplyHandler) Delete(c *gin.Context) {
	rid, err := util.StrToInt64(c.Param("rid"))
	if err != nil {
		response.BadRequest(c, "invalid rid")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), middleware.GetViewer(c), rid); err != nil {
		failReply(c, err)
		return
	}

	response.SuccessWithMsg(c, nil, "reply deleted")
}

func failReply(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrReplyNotFound):
		response.NotFound(c, "reply not found")
	case errors.Is(err, apperr.ErrForbidden):
		response.Forbidden(c, "not allowed")
	default:
		response.Fail(c, err)
	}
}
