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
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/service/seo"
)

// ForumHandler thread endpoints
type ForumHandler struct {
	svc      *service.ThreadService
	indexNow *seo.IndexNowService // nil when IndexNow is not configured
}

// NewForumHandler create ForumHandler
func NewForumHandler(svc *service.ThreadService, indexNow *seo.IndexNowService) *ForumHandler {
	return &ForumHandler{svc: svc, indexNow: indexNow}
}

// List GET /api/v1/forum?sort=latest&page=1
func (h *ForumHandler) List(c *gin.Context) {
	sort := c.DefaultQuery("sort", model.ThreadSortLatest)
	page := pageQuery(c)
	viewer := middleware.GetViewer(c)

	result, err := h.svc.List(c.Request.Context(), sort, page, viewer)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, result)
}

// Show GET /api/v1/forum/:tid
func (h *ForumHandler) Show(c *gin.Context) {
	tid, err := util.StrToInt64(c.Param("tid"))
	if err != nil {
		response.BadRequest(c, "invalid tid")
		return
	}

	detail, err := h.svc.Detail(c.Request.Context(), tid, middleware.GetViewer(c))
	if err != nil {
		if errors.Is(err, apperr.ErrThreadNotFound) {
			response.NotFound(c, "thread not found")
			return
		}
		response.Fail(c, err)
		return
	}

	response.Success(c, detail)
}

// Create POST /api/v1/forum
func (h *ForumHandler) Create(c *gin.Context) {
	var req model.CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.svc.Create(c.Request.Context(), middleware.GetViewer(c), req.Title, req.Body)
	if err != nil {
		response.Fail(c, err)
		return
	}

	if h.indexNow != nil {
		h.indexNow.SubmitThread(dto.Tid)
	}

	response.SuccessWithMsg(c, dto, "thread created")
}

// Update PUT /api/v1/forum/:tid
func (h *ForumHandler) Update(c *gin.Context) {
	tid, err := util.StrToInt64(c.Param("tid"))
	if err != nil {
		response.BadRequest(c, "invalid tid")
		return
	}

	var req model.UpdateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.svc.Update(c.Request.Context(), middleware.GetViewer(c), tid, req.Title, req.Body); err != nil {
		failThread(c, err)
		return
	}

	response.SuccessWithMsg(c, nil, "thread updated")
}

// Delete DELETE /api/v1/forum/:tid
func (h *ForumHandler) Delete(c *gin.Context) {
	tid, err := util.StrToInt64(c.Param("tid"))
	if err != nil {
		response.BadRequest(c, "invalid tid")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), middleware.GetViewer(c), tid); err != nil {
		failThread(c, err)
		return
	}

	response.SuccessWithMsg(c, nil, "thread deleted")
}

// TogglePin POST /api/v1/forum/:tid/pin
func (h *ForumHandler) TogglePin(c *gin.Context) {
	tid, err := util.StrToInt64(c.Param("tid"))
	if err != nil {
		response.BadRequest(c, "invalid tid")
		return
	}

	pinned, err := h.svc.TogglePin(c.Request.Context(), middleware.GetViewer(c), tid)
	if err != nil {
		failThread(c, err)
		return
	}

	msg := "thread unpinned"
	if pinned {
		msg = "thread pinned"
	}
	response.SuccessWithMsg(c, gin.H{"is_pinned": pinned}, msg)
}

// failThread maps thread errors onto transport semantics
func failThread(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrThreadNotFound):
		response.NotFound(c, "thread not found")
	case errors.Is(err, apperr.ErrForbidden):
		response.Forbidden(c, "not allowed")
	default:
		response.Fail(c, err)
	}
}

// pageQuery positive page number from the query string, default 1
func pageQuery(c *gin.Context) int {
	page := 1
	if p := c.Query("page"); p != "" {
		if parsed, err := util.StrToInt(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	return page
}
