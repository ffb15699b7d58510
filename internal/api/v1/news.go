package v1

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/apperr"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/response"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/util"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/service"
)

// NewsHandler public article endpoints. Only published articles are
// reachable here; drafts and scheduled items 404.
type NewsHandler struct {
	svc *service.NewsService
}

// NewNewsHandler create NewsHandler
func NewNewsHandler(svc *service.NewsService) *NewsHandler {
	return &NewsHandler{svc: svc}
}

// List GET /api/v1/news?page=1
func (h *NewsHandler) List(c *gin.Context) {
	page := pageQuery(c)

	result, err := h.svc.ListPublished(c.Request.Context(), page)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, result)
}

// Show GET /api/v1/news/:nid
func (h *NewsHandler) Show(c *gin.Context) {
	nid, err := util.StrToInt64(c.Param("nid"))
	if err != nil {
		response.BadRequest(c, "invalid nid")
		return
	}

	dto, err := h.svc.GetPublished(c.Request.Context(), nid)
	if err != nil {
		if errors.Is(err, apperr.ErrNewsNotFound) {
			response.NotFound(c, "article not found")
			return
		}
		response.Fail(c, err)
		return
	}

	response.Success(c, dto)
}
