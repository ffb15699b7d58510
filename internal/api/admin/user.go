package admin

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/middleware"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/apperr"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/policy"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/response"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/util"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/service"
)

// UserHandler back-office member management
type UserHandler struct {
	svc *service.UserService
}

// NewUserHandler create admin UserHandler
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// List GET /api/admin/users?page=1
func (h *UserHandler) List(c *gin.Context) {
	page := pageQuery(c)

	result, err := h.svc.List(c.Request.Context(), page)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, result)
}

// Promote POST /api/admin/users/:uid/promote
// Promoting an admin is a denial, not an error: the row is untouched
// and the caller gets a message to show.
func (h *UserHandler) Promote(c *gin.Context) {
	uid, err := util.StrToInt64(c.Param("uid"))
	if err != nil {
		response.BadRequest(c, "invalid uid")
		return
	}

	denial, err := h.svc.Promote(c.Request.Context(), middleware.GetViewer(c), uid)
	if err != nil {
		failUser(c, err)
		return
	}
	if denial != policy.DenyNone {
		response.SoftDeny(c, denialCode(denial), string(denial))
		return
	}

	response.SuccessWithMsg(c, nil, "user promoted to admin")
}

// Demote POST /api/admin/users/:uid/demote
// Self-demotion is denied so the site always keeps its last admin.
func (h *UserHandler) Demote(c *gin.Context) {
	uid, err := util.StrToInt64(c.Param("uid"))
	if err != nil {
		response.BadRequest(c, "invalid uid")
		return
	}

	denial, err := h.svc.Demote(c.Request.Context(), middleware.GetViewer(c), uid)
	if err != nil {
		failUser(c, err)
		return
	}
	if denial != policy.DenyNone {
		response.SoftDeny(c, denialCode(denial), string(denial))
		return
	}

	response.SuccessWithMsg(c, nil, "admin role revoked")
}

func failUser(c *gin.Context, err error) {
	if errors.Is(err, apperr.ErrUserNotFound) {
		response.NotFound(c, "user not found")
		return
	}
	response.Fail(c, err)
}

func denialCode(d policy.Denial) int {
	switch d {
	case policy.DenyAlreadyAdmin:
		return apperr.CodeAlreadyAdmin
	case policy.DenySelfDemotion:
		return apperr.CodeSelfDemotion
	case policy.DenyNotAdmin:
		return apperr.CodeNotAdmin
	default:
		return apperr.CodeBadRequest
	}
}
