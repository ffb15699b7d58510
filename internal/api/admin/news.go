package admin

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

// NewsHandler back-office article management. Requests are multipart so
// the cover image travels with the form fields.
type NewsHandler struct {
	svc      *service.NewsService
	indexNow *seo.IndexNowService
}

// NewNewsHandler create admin NewsHandler
func NewNewsHandler(svc *service.NewsService, indexNow *seo.IndexNowService) *NewsHandler {
	return &NewsHandler{svc: svc, indexNow: indexNow}
}

// List GET /api/admin/news?page=1
// Includes drafts and scheduled articles.
func (h *NewsHandler) List(c *gin.Context) {
	page := pageQuery(c)

	result, err := h.svc.ListAll(c.Request.Context(), page)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, result)
}

// Show GET /api/admin/news/:nid
func (h *NewsHandler) Show(c *gin.Context) {
	nid, err := util.StrToInt64(c.Param("nid"))
	if err != nil {
		response.BadRequest(c, "invalid nid")
		return
	}

	dto, err := h.svc.Get(c.Request.Context(), nid)
	if err != nil {
		failNews(c, err)
		return
	}

	response.Success(c, dto)
}

// Create POST /api/admin/news
func (h *NewsHandler) Create(c *gin.Context) {
	var req model.CreateNewsRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	image, _ := c.FormFile("image")
	if image == nil {
		response.BadRequest(c, "image is required")
		return
	}
	viewer := middleware.GetViewer(c)

	dto, err := h.svc.Create(c.Request.Context(), viewer.UID, &req, image)
	if err != nil {
		response.Fail(c, err)
		return
	}

	if dto.IsPublished && h.indexNow != nil {
		h.indexNow.SubmitNews(dto.Nid)
	}

	response.SuccessWithMsg(c, dto, "article created")
}

// Update PUT /api/admin/news/:nid
func (h *NewsHandler) Update(c *gin.Context) {
	nid, err := util.StrToInt64(c.Param("nid"))
	if err != nil {
		response.BadRequest(c, "invalid nid")
		return
	}

	var req model.UpdateNewsRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	image, _ := c.FormFile("image")

	dto, err := h.svc.Update(c.Request.Context(), middleware.GetViewer(c), nid, &req, image)
	if err != nil {
		failNews(c, err)
		return
	}

	if dto.IsPublished && h.indexNow != nil {
		h.indexNow.SubmitNews(dto.Nid)
	}

	response.SuccessWithMsg(c, dto, "article updated")
}

// Delete DELETE /api/admin/news/:nid
func (h *NewsHandler) Delete(c *gin.Context) {
	nid, err := util.StrToInt64(c.Param("nid"))
	if err != nil {
		response.BadRequest(c, "invalid nid")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), middleware.GetViewer(c), nid); err != nil {
		failNews(c, err)
		return
	}

	response.SuccessWithMsg(c, nil, "article deleted")
}

func failNews(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrNewsNotFound):
		response.NotFound(c, "article not found")
	case errors.Is(err, apperr.ErrForbidden):
		response.Forbidden(c, "not allowed")
	default:
		response.Fail(c, err)
	}
}

func pageQuery(c *gin.Context) int {
	page := 1
	if p := c.Query("page"); p != "" {
		if parsed, err := util.StrToInt(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	return page
}
