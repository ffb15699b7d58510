package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/model"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/apperr"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/response"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/service/mailer"
)

// ContactHandler contact form. Delivery is synchronous: the submitter
// learns immediately whether the message went out.
type ContactHandler struct {
	mailer mailer.Mailer
}

// NewContactHandler create ContactHandler
func NewContactHandler(m mailer.Mailer) *ContactHandler {
	return &ContactHandler{mailer: m}
}

// Submit POST /api/v1/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var req model.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.mailer.SendContact(&req); err != nil {
		response.FailWithCode(c, apperr.CodeMailSendErr, "message could not be sent, please try again later")
		return
	}

	response.SuccessWithMsg(c, nil, "message sent")
}
