package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/runtime"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/response"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/service"
)

// CacheHandler operational cache controls
type CacheHandler struct {
	threadSvc *service.ThreadService
	faqSvc    *service.FaqService
	userSvc   *service.UserService
}

// NewCacheHandler create CacheHandler
func NewCacheHandler(threadSvc *service.ThreadService, faqSvc *service.FaqService, userSvc *service.UserService) *CacheHandler {
	return &CacheHandler{threadSvc: threadSvc, faqSvc: faqSvc, userSvc: userSvc}
}

// Flush POST /api/admin/cache/flush
func (h *CacheHandler) Flush(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.threadSvc.FlushCache(ctx); err != nil {
		response.Fail(c, err)
		return
	}
	if err := h.faqSvc.FlushCache(ctx); err != nil {
		response.Fail(c, err)
		return
	}
	if err := h.userSvc.FlushCache(ctx); err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMsg(c, nil, "cache flushed")
}

// RuntimeStatus GET /api/admin/runtime
func (h *CacheHandler) RuntimeStatus(c *gin.Context) {
	rt := runtime.Get()
	if rt == nil {
		response.InternalError(c, "runtime not initialized")
		return
	}
	response.Success(c, rt.Status())
}
