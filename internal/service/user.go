package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/config"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/logger"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/snowflake"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/middleware"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/model"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/apperr"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/pagination"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/policy"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/pool"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/repository"
)

// UserPageSize back-office member listing page size
const UserPageSize = 15

// UserService account and membership business logic
type UserService struct {
	repo   repository.UserRepository
	l1     *pool.BigCache // L1 Cache (zero-GC)
	l2     *redis.Client
	sf     *singleflight.Group
	l2Cfg  *config.CacheConfig
	jwtCfg *config.JWTConfig
}

// NewUserService create UserService
func NewUserService(repo repository.UserRepository, redisClient *redis.Client, cacheCfg *config.CacheConfig, jwtCfg *config.JWTConfig) *UserService {
	l1Cache, _ := pool.NewBigCache(cacheCfg.L1Cap, time.Duration(cacheCfg.L2TTL)*time.Second)
	return &UserService{
		repo:   repo,
		l1:     l1Cache,
		l2:     redisClient,
		sf:     &singleflight.Group{},
		l2Cfg:  cacheCfg,
		jwtCfg: jwtCfg,
	}
}

func userKey(uid int64) string {
	return fmt.Sprintf("user:%d", uid)
}

// Login verify credentials and issue a token
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		logger.Error("login: get user error", logger.String("error", err.Error()))
		return nil, apperr.NewAppError(apperr.CodeDatabaseError, "system error")
	}
	if user == nil {
		return nil, apperr.NewAppError(apperr.CodeBadCredentials, "invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperr.NewAppError(apperr.CodeBadCredentials, "invalid username or password")
	}

	if user.Status != 0 {
		return nil, apperr.NewAppError(apperr.CodeForbidden, "account disabled")
	}

	token, err := generateJWT(user, s.jwtCfg)
	if err != nil {
		logger.Error("login: generate token error", logger.String("error", err.Error()))
		return nil, apperr.NewAppError(apperr.CodeInternalError, "system error")
	}

	// off the request path; a lost stamp is harmless
	go func(uid int64) {
		if err := s.repo.TouchLastVisit(context.Background(), uid); err != nil {
			logger.Warn("login: touch last visit", logger.Int64("uid", uid), logger.String("error", err.Error()))
		}
	}(user.Uid)

	return &model.LoginResponse{
		Token: token,
		User:  *userToDTO(user),
	}, nil
}

// Register create a new account with the default member role
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.RegisterResponse, error) {
	exist, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperr.NewAppError(apperr.CodeDatabaseError, "system error")
	}
	if exist != nil {
		return nil, apperr.NewAppError(apperr.CodeUsernameTaken, "username already taken")
	}

	exist, err = s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperr.NewAppError(apperr.CodeDatabaseError, "system error")
	}
	if exist != nil {
		return nil, apperr.NewAppError(apperr.CodeEmailTaken, "email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("register: hash password error", logger.String("error", err.Error()))
		return nil, apperr.NewAppError(apperr.CodeInternalError, "system error")
	}

	user := &model.User{
		Uid:      snowflake.Generate(),
		Name:     req.Name,
		Username: req.Username,
		Password: string(hashedPassword),
		Email:    req.Email,
		Avatar:   fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%s", req.Username),
		Role:     policy.RoleUser,
		Status:   0,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		logger.Error("register: create user error", logger.String("error", err.Error()))
		return nil, apperr.NewAppError(apperr.CodeDatabaseError, "system error")
	}

	return &model.RegisterResponse{User: *userToDTO(user)}, nil
}

// GetByUsername public profile lookup
func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.ErrUserNotFound
	}
	return user, nil
}

// GetUserByID single user DTO, L1 cached
func (s *UserService) GetUserByID(ctx context.Context, uid int64) (*model.UserDTO, error) {
	key := userKey(uid)

	if s.l1 != nil {
		if data, ok := s.l1.Get(key); ok && data != nil {
			var dto model.UserDTO
			if err := json.Unmarshal(data, &dto); err == nil {
				return &dto, nil
			}
		}
	}

	user, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.ErrUserNotFound
	}

	dto := userToDTO(user)
	if bytes, _ := json.Marshal(dto); bytes != nil {
		if s.l1 != nil {
			s.l1.Set(key, bytes)
		}
	}

	return dto, nil
}

// GetUsersByIDs batch hydrate authors without N+1 queries
func (s *UserService) GetUsersByIDs(ctx context.Context, uids []int64) (map[int64]*model.UserDTO, error) {
	result := make(map[int64]*model.UserDTO, len(uids))
	if len(uids) == 0 {
		return result, nil
	}

	unique := make(map[int64]struct{}, len(uids))
	missing := make([]int64, 0, len(uids))

	for _, uid := range uids {
		if uid <= 0 {
			continue
		}
		if _, ok := unique[uid]; ok {
			continue
		}
		unique[uid] = struct{}{}

		if s.l1 != nil {
			if data, ok := s.l1.Get(userKey(uid)); ok && data != nil {
				var dto model.UserDTO
				if err := json.Unmarshal(data, &dto); err == nil {
					result[uid] = &dto
					continue
				}
			}
		}
		missing = append(missing, uid)
	}

	if len(missing) == 0 {
		return result, nil
	}

	// stable order helps debugging
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })

	users, err := s.repo.GetByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		dto := userToDTO(u)
		result[u.Uid] = dto

		if data, _ := json.Marshal(dto); data != nil {
			if s.l1 != nil {
				s.l1.Set(userKey(u.Uid), data)
			}
		}
	}

	return result, nil
}

// UpdateProfile edit the viewer's own profile fields
func (s *UserService) UpdateProfile(ctx context.Context, viewer *policy.Viewer, req *model.UpdateProfileRequest) (*model.UserDTO, error) {
	if viewer == nil {
		return nil, apperr.ErrUnauthorized
	}

	user, err := s.repo.GetByID(ctx, viewer.UID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.ErrUserNotFound
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	user.Bio = req.Bio
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}
	if req.Birthday != "" {
		birthday, err := time.Parse("2006-01-02", req.Birthday)
		if err != nil {
			return nil, apperr.ErrInvalidParams
		}
		user.Birthday = &birthday
	}

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	s.invalidate(user.Uid)
	return userToDTO(user), nil
}

// List paginated members for the back office
func (s *UserService) List(ctx context.Context, page int) (*pagination.Page, error) {
	offset := pagination.Offset(page, UserPageSize)

	users, err := s.repo.List(ctx, offset, UserPageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]*model.UserDTO, 0, len(users))
	for _, u := range users {
		list = append(list, userToDTO(u))
	}

	return pagination.New(list, page, UserPageSize, total), nil
}

// Promote grant the admin role. A business denial (already admin) is
// returned as a Denial, not an error: nothing failed, nothing changed.
func (s *UserService) Promote(ctx context.Context, actor *policy.Viewer, uid int64) (policy.Denial, error) {
	target, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return policy.DenyNone, err
	}
	if target == nil {
		return policy.DenyNone, apperr.ErrUserNotFound
	}

	if denial := policy.CheckPromote(target.Role); denial != policy.DenyNone {
		return denial, nil
	}

	if err := s.repo.UpdateRole(ctx, uid, policy.RoleAdmin); err != nil {
		return policy.DenyNone, err
	}

	s.invalidate(uid)
	return policy.DenyNone, nil
}

// Demote revoke the admin role; self-demotion is denied
func (s *UserService) Demote(ctx context.Context, actor *policy.Viewer, uid int64) (policy.Denial, error) {
	target, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return policy.DenyNone, err
	}
	if target == nil {
		return policy.DenyNone, apperr.ErrUserNotFound
	}

	if denial := policy.CheckDemote(actor, uid, target.Role); denial != policy.DenyNone {
		return denial, nil
	}

	if err := s.repo.UpdateRole(ctx, uid, policy.RoleUser); err != nil {
		return policy.DenyNone, err
	}

	s.invalidate(uid)
	return policy.DenyNone, nil
}

func (s *UserService) invalidate(uid int64) {
	if s.l1 != nil {
		s.l1.Remove(userKey(uid))
	}
}

// FlushCache drop the user L1 tier
func (s *UserService) FlushCache(ctx context.Context) error {
	if s.l1 != nil {
		return s.l1.Flush()
	}
	return nil
}

func userToDTO(user *model.User) *model.UserDTO {
	return &model.UserDTO{
		Uid:      user.Uid,
		Name:     user.Name,
		Username: user.Username,
		Email:    user.Email,
		Avatar:   user.Avatar,
		Bio:      user.Bio,
		Role:     user.Role,
		Status:   user.Status,
	}
}

// generateJWT sign an HS256 token carrying the viewer identity
func generateJWT(user *model.User, cfg *config.JWTConfig) (string, error) {
	claims := middleware.UserClaims{
		UID:      user.Uid,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(cfg.Expiry) * time.Second)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}
