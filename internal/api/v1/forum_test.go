package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/config"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/snowflake"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/middleware"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/model"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/policy"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/repository"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testJWTCfg = &config.JWTConfig{Secret: "test-secret", Expiry: 3600}

// fakeThreadRepo minimal in-memory ThreadRepository for handler tests
type fakeThreadRepo struct {
	threads map[int64]*model.Thread
}

func (r *fakeThreadRepo) GetByID(ctx context.Context, tid int64) (*model.Thread, error) {
	return r.threads[tid], nil
}

func (r *fakeThreadRepo) List(ctx context.Context, sort string, offset, limit int) ([]*model.Thread, error) {
	out := make([]*model.Thread, 0, len(r.threads))
	for _, th := range r.threads {
		out = append(out, th)
	}
	return out, nil
}

func (r *fakeThreadRepo) ListByUID(ctx context.Context, uid int64, limit int) ([]*model.Thread, error) {
	return nil, nil
}

func (r *fakeThreadRepo) Count(ctx context.Context) (int, error) {
	return len(r.threads), nil
}

func (r *fakeThreadRepo) Create(ctx context.Context, thread *model.Thread) error {
	thread.CreatedAt = time.Now()
	thread.UpdatedAt = thread.CreatedAt
	r.threads[thread.Tid] = thread
	return nil
}

func (r *fakeThreadRepo) Update(ctx context.Context, thread *model.Thread) error {
	r.threads[thread.Tid] = thread
	return nil
}

func (r *fakeThreadRepo) Delete(ctx context.Context, tid int64) error {
	delete(r.threads, tid)
	return nil
}

func (r *fakeThreadRepo) SetPinned(ctx context.Context, tid int64, pinned bool) error {
	if th, ok := r.threads[tid]; ok {
		th.IsPinned = pinned
	}
	return nil
}

func (r *fakeThreadRepo) GetSitemapList(ctx context.Context, offset, limit int) ([]*model.Thread, error) {
	return nil, nil
}

// fakeReplyRepo empty ReplyRepository
type fakeReplyRepo struct{}

func (r *fakeReplyRepo) GetByID(ctx context.Context, rid int64) (*model.Reply, error) {
	return nil, nil
}
func (r *fakeReplyRepo) ListByThread(ctx context.Context, tid int64) ([]*model.Reply, error) {
	return nil, nil
}
func (r *fakeReplyRepo) Create(ctx context.Context, reply *model.Reply) error { return nil }
func (r *fakeReplyRepo) Update(ctx context.Context, reply *model.Reply) error { return nil }
func (r *fakeReplyRepo) Delete(ctx context.Context, rid int64) error          { return nil }

// fakeUserRepo in-memory UserRepository
type fakeUserRepo struct {
	users map[int64]*model.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error { return nil }

func (r *fakeUserRepo) GetByID(ctx context.Context, uid int64) (*model.User, error) {
	return r.users[uid], nil
}

func (r *fakeUserRepo) GetByIDs(ctx context.Context, uids []int64) ([]*model.User, error) {
	var out []*model.User
	for _, uid := range uids {
		if u, ok := r.users[uid]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return nil, nil
}
func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}
func (r *fakeUserRepo) UpdateProfile(ctx context.Context, user *model.User) error { return nil }
func (r *fakeUserRepo) UpdateRole(ctx context.Context, uid int64, role int) error { return nil }
func (r *fakeUserRepo) TouchLastVisit(ctx context.Context, uid int64) error       { return nil }
func (r *fakeUserRepo) List(ctx context.Context, offset, limit int) ([]*model.User, error) {
	return nil, nil
}
func (r *fakeUserRepo) Count(ctx context.Context) (int, error) { return 0, nil }

var (
	_ repository.ThreadRepository = (*fakeThreadRepo)(nil)
	_ repository.ReplyRepository  = (*fakeReplyRepo)(nil)
	_ repository.UserRepository   = (*fakeUserRepo)(nil)
)

func newForumRouter(t *testing.T, threads ...*model.Thread) (*gin.Engine, *fakeThreadRepo) {
	t.Helper()
	if err := snowflake.Init(&config.SnowflakeConfig{WorkerID: 1}); err != nil {
		t.Fatalf("snowflake init: %v", err)
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := &fakeThreadRepo{threads: make(map[int64]*model.Thread)}
	for _, th := range threads {
		repo.threads[th.Tid] = th
	}
	users := &fakeUserRepo{users: map[int64]*model.User{
		100: {Uid: 100, Username: "author"},
	}}

	cacheCfg := &config.CacheConfig{L1Cap: 2, L2TTL: 60}
	userSvc := service.NewUserService(users, client, cacheCfg, testJWTCfg)
	threadSvc := service.NewThreadService(repo, &fakeReplyRepo{}, userSvc, client, cacheCfg)
	h := NewForumHandler(threadSvc, nil)

	r := gin.New()
	r.GET("/api/v1/forum", middleware.OptionalAuth(testJWTCfg), h.List)
	r.GET("/api/v1/forum/:tid", middleware.OptionalAuth(testJWTCfg), h.Show)
	authed := r.Group("/api/v1", middleware.RequireAuth(testJWTCfg))
	{
		authed.POST("/forum", h.Create)
		authed.PUT("/forum/:tid", h.Update)
		authed.DELETE("/forum/:tid", h.Delete)
		authed.POST("/forum/:tid/pin", h.TogglePin)
	}
	return r, repo
}

func bearer(t *testing.T, uid int64, username string, role int) string {
	t.Helper()
	claims := jwt.MapClaims{
		"uid":      uid,
		"username": username,
		"role":     role,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTCfg.Secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + token
}

func seedThread(tid, uid int64) *model.Thread {
	now := time.Now()
	return &model.Thread{Tid: tid, Uid: uid, Title: "title", Body: "body", CreatedAt: now, UpdatedAt: now}
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) *envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return &env
}

func TestForumShow(t *testing.T) {
	r, _ := newForumRouter(t, seedThread(1, 100))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/forum/1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	env := decode(t, w)
	if env.Code != 0 {
		t.Fatalf("code %d: %s", env.Code, env.Msg)
	}

	var detail struct {
		Thread struct {
			Tid     int64 `json:"tid"`
			CanEdit bool  `json:"can_edit"`
		} `json:"thread"`
	}
	if err := json.Unmarshal(env.Data, &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if detail.Thread.Tid != 1 {
		t.Fatalf("wrong thread: %+v", detail)
	}
	if detail.Thread.CanEdit {
		t.Fatal("anonymous viewer must not see edit controls")
	}
}

func TestForumShow_NotFound(t *testing.T) {
	r, _ := newForumRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/forum/404", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
}

func TestForumCreate_RequiresAuth(t *testing.T) {
	r, _ := newForumRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/forum",
		strings.NewReader(`{"title":"new thread","body":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
}

func TestForumCreate(t *testing.T) {
	r, repo := newForumRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/forum",
		strings.NewReader(`{"title":"new thread","body":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, 7, "max", policy.RoleUser))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if len(repo.threads) != 1 {
		t.Fatalf("thread not persisted: %d", len(repo.threads))
	}
	for _, th := range repo.threads {
		if th.Uid != 7 {
			t.Fatalf("author uid = %d", th.Uid)
		}
	}
}

func TestForumUpdate_NonAuthorForbidden(t *testing.T) {
	r, repo := newForumRouter(t, seedThread(1, 100))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/forum/1",
		strings.NewReader(`{"title":"hijacked","body":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, 999, "stranger", policy.RoleUser))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if repo.threads[1].Title != "title" {
		t.Fatal("thread modified despite forbidden response")
	}
}

func TestForumUpdate_Author(t *testing.T) {
	r, repo := newForumRouter(t, seedThread(1, 100))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/forum/1",
		strings.NewReader(`{"title":"edited","body":"new body"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, 100, "author", policy.RoleUser))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if repo.threads[1].Title != "edited" {
		t.Fatalf("title = %q", repo.threads[1].Title)
	}
}

func TestForumTogglePin_AdminOnly(t *testing.T) {
	r, repo := newForumRouter(t, seedThread(1, 100))

	// the author cannot pin their own thread
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/forum/1/pin", nil)
	req.Header.Set("Authorization", bearer(t, 100, "author", policy.RoleUser))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("author pin: status %d", w.Code)
	}

	// an admin can
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/forum/1/pin", nil)
	req.Header.Set("Authorization", bearer(t, 2, "boss", policy.RoleAdmin))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("admin pin: status %d: %s", w.Code, w.Body.String())
	}
	if !repo.threads[1].IsPinned {
		t.Fatal("thread not pinned")
	}

	var data struct {
		IsPinned bool `json:"is_pinned"`
	}
	env := decode(t, w)
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if !data.IsPinned {
		t.Fatal("response does not report the new pin state")
	}
}

func TestForumDelete_AdminOverride(t *testing.T) {
	r, repo := newForumRouter(t, seedThread(1, 100))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/forum/1", nil)
	req.Header.Set("Authorization", bearer(t, 2, "boss", policy.RoleAdmin))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if len(repo.threads) != 0 {
		t.Fatal("thread not deleted")
	}
}
