package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/model"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/response"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/service"
)

// AuthHandler login and registration
type AuthHandler struct {
	svc *service.UserService
}

// NewAuthHandler create AuthHandler
func NewAuthHandler(svc *service.UserService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.SuccessWithMsg(c, resp, "welcome back")
}

// Register POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.SuccessWithMsg(c, resp, "account created")
}
