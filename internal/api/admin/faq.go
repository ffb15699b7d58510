package admin

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/model"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/apperr"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/response"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/util"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/service"
)

// FaqHandler back-office FAQ management
type FaqHandler struct {
	svc *service.FaqService
}

// NewFaqHandler create admin FaqHandler
func NewFaqHandler(svc *service.FaqService) *FaqHandler {
	return &FaqHandler{svc: svc}
}

// Listing GET /api/admin/faq
func (h *FaqHandler) Listing(c *gin.Context) {
	listing, err := h.svc.Listing(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, listing)
}

// CreateCategory POST /api/admin/faq/categories
func (h *FaqHandler) CreateCategory(c *gin.Context) {
	var req model.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cat, err := h.svc.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.SuccessWithMsg(c, cat, "category created")
}

// UpdateCategory PUT /api/admin/faq/categories/:cid
func (h *FaqHandler) UpdateCategory(c *gin.Context) {
	cid, err := util.StrToInt64(c.Param("cid"))
	if err != nil {
		response.BadRequest(c, "invalid cid")
		return
	}

	var req model.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cat, err := h.svc.UpdateCategory(c.Request.Context(), cid, &req)
	if err != nil {
		failFaq(c, err)
		return
	}

	response.SuccessWithMsg(c, cat, "category updated")
}

// DeleteCategory DELETE /api/admin/faq/categories/:cid
// Deletes the category and every FAQ in it.
func (h *FaqHandler) DeleteCategory(c *gin.Context) {
	cid, err := util.StrToInt64(c.Param("cid"))
	if err != nil {
		response.BadRequest(c, "invalid cid")
		return
	}

	if err := h.svc.DeleteCategory(c.Request.Context(), cid); err != nil {
		failFaq(c, err)
		return
	}

	response.SuccessWithMsg(c, nil, "category deleted")
}

// CreateFaq POST /api/admin/faq
func (h *FaqHandler) CreateFaq(c *gin.Context) {
	var req model.FaqRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	faq, err := h.svc.CreateFaq(c.Request.Context(), &req)
	if err != nil {
		failFaq(c, err)
		return
	}

	response.SuccessWithMsg(c, faq, "faq created")
}

// UpdateFaq PUT /api/admin/faq/:fid
func (h *FaqHandler) UpdateFaq(c *gin.Context) {
	fid, err := util.StrToInt64(c.Param("fid"))
	if err != nil {
		response.BadRequest(c, "invalid fid")
		return
	}

	var req model.FaqRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	faq, err := h.svc.UpdateFaq(c.Request.Context(), fid, &req)
	if err != nil {
		failFaq(c, err)
		return
	}

	response.SuccessWithMsg(c, faq, "faq updated")
}

// DeleteFaq DELETE /api/admin/faq/:fid
func (h *FaqHandler) DeleteFaq(c *gin.Context) {
	fid, err := util.StrToInt64(c.Param("fid"))
	if err != nil {
		response.BadRequest(c, "invalid fid")
		return
	}

	if err := h.svc.DeleteFaq(c.Request.Context(), fid); err != nil {
		failFaq(c, err)
		return
	}

	response.SuccessWithMsg(c, nil, "faq deleted")
}

func failFaq(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrFaqNotFound):
		response.NotFound(c, "faq not found")
	case errors.Is(err, apperr.ErrCategoryNotFound):
		response.NotFound(c, "category not found")
	default:
		response.Fail(c, err)
	}
}
