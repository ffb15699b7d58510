package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/response"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/service"
)

// FaqHandler public FAQ catalogue
type FaqHandler struct {
	svc *service.FaqService
}

// NewFaqHandler create FaqHandler
func NewFaqHandler(svc *service.FaqService) *FaqHandler {
	return &FaqHandler{svc: svc}
}

// Listing GET /api/v1/faq
// Grouped by category in display order; empty categories included.
func (h *FaqHandler) Listing(c *gin.Context) {
	listing, err := h.svc.Listing(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, listing)
}
