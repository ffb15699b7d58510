package v1

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/middleware"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/model"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/apperr"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/response"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/service"
)

// ProfileThreadCount own threads shown on a profile page
const ProfileThreadCount = 5

// ProfileHandler member profile pages
type ProfileHandler struct {
	userSvc *service.UserService
	thrSvc  *service.ThreadService
	favSvc  *service.FavoriteService
}

// NewProfileHandler create ProfileHandler
func NewProfileHandler(userSvc *service.UserService, thrSvc *service.ThreadService, favSvc *service.FavoriteService) *ProfileHandler {
	return &ProfileHandler{userSvc: userSvc, thrSvc: thrSvc, favSvc: favSvc}
}

// Show GET /api/v1/profile/:username
// Public profile: recent threads and recent favorites. Email and
// birthday only appear to the owner and admins.
func (h *ProfileHandler) Show(c *gin.Context) {
	username := c.Param("username")

	user, err := h.userSvc.GetByUsername(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, apperr.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.Fail(c, err)
		return
	}

	threads, err := h.thrSvc.RecentByUser(c.Request.Context(), user.Uid, ProfileThreadCount)
	if err != nil {
		response.Fail(c, err)
		return
	}

	favorites, err := h.favSvc.Recent(c.Request.Context(), user.Uid)
	if err != nil {
		response.Fail(c, err)
		return
	}

	viewer := middleware.GetViewer(c)
	ownerView := viewer != nil && (viewer.UID == user.Uid || viewer.IsAdmin())

	profile := gin.H{
		"uid":        user.Uid,
		"name":       user.Name,
		"username":   user.Username,
		"bio":        user.Bio,
		"avatar":     user.Avatar,
		"role":       user.Role,
		"created_at": user.CreatedAt.Unix(),
		"is_self":    viewer != nil && viewer.UID == user.Uid,
	}
	if ownerView {
		profile["email"] = user.Email
		if user.Birthday != nil {
			profile["birthday"] = user.Birthday.Format("2006-01-02")
		}
	}
	if user.Birthday != nil {
		profile["age"] = age(*user.Birthday, time.Now())
	}

	response.Success(c, gin.H{
		"user":      profile,
		"threads":   threads,
		"favorites": favorites,
	})
}

// Update PUT /api/v1/profile
func (h *ProfileHandler) Update(c *gin.Context) {
	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.userSvc.UpdateProfile(c.Request.Context(), middleware.GetViewer(c), &req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.SuccessWithMsg(c, dto, "profile updated")
}

func age(birthday, now time.Time) int {
	years := now.Year() - birthday.Year()
	if now.YearDay() < birthday.YearDay() {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
