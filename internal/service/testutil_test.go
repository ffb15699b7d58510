package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/config"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/snowflake"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/model"
)

func initIDs(t *testing.T) {
	t.Helper()
	if err := snowflake.Init(&config.SnowflakeConfig{WorkerID: 1}); err != nil {
		t.Fatalf("snowflake init: %v", err)
	}
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func testCacheConfig() *config.CacheConfig {
	return &config.CacheConfig{L1Cap: 2, L2TTL: 60}
}

// fakeThreadRepo in-memory ThreadRepository that counts DB reads
type fakeThreadRepo struct {
	threads map[int64]*model.Thread
	getByID int // call counter
}

func newFakeThreadRepo(threads ...*model.Thread) *fakeThreadRepo {
	r := &fakeThreadRepo{threads: make(map[int64]*model.Thread)}
	for _, th := range threads {
		r.threads[th.Tid] = th
	}
	return r
}

func (r *fakeThreadRepo) GetByID(ctx context.Context, tid int64) (*model.Thread, error) {
	r.getByID++
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
	var out []*model.Thread
	for _, th := range r.threads {
		if th.Uid == uid {
			out = append(out, th)
		}
	}
	return out, nil
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
	return r.List(ctx, "", offset, limit)
}

// fakeReplyRepo in-memory ReplyRepository
type fakeReplyRepo struct {
	replies map[int64]*model.Reply
}

func newFakeReplyRepo(replies ...*model.Reply) *fakeReplyRepo {
	r := &fakeReplyRepo{replies: make(map[int64]*model.Reply)}
	for _, rp := range replies {
		r.replies[rp.Rid] = rp
	}
	return r
}

func (r *fakeReplyRepo) GetByID(ctx context.Context, rid int64) (*model.Reply, error) {
	return r.replies[rid], nil
}

func (r *fakeReplyRepo) ListByThread(ctx context.Context, tid int64) ([]*model.Reply, error) {
	var out []*model.Reply
	for _, rp := range r.replies {
		if rp.Tid == tid {
			out = append(out, rp)
		}
	}
	return out, nil
}

func (r *fakeReplyRepo) Create(ctx context.Context, reply *model.Reply) error {
	reply.CreatedAt = time.Now()
	reply.UpdatedAt = reply.CreatedAt
	r.replies[reply.Rid] = reply
	return nil
}

func (r *fakeReplyRepo) Update(ctx context.Context, reply *model.Reply) error {
	r.replies[reply.Rid] = reply
	return nil
}

func (r *fakeReplyRepo) Delete(ctx context.Context, rid int64) error {
	delete(r.replies, rid)
	return nil
}

// fakeUserRepo in-memory UserRepository that records role updates
type fakeUserRepo struct {
	users       map[int64]*model.User
	roleUpdates int
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[int64]*model.User)}
	for _, u := range users {
		r.users[u.Uid] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	user.CreatedAt = time.Now()
	r.users[user.Uid] = user
	return nil
}

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
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, user *model.User) error {
	r.users[user.Uid] = user
	return nil
}

func (r *fakeUserRepo) UpdateRole(ctx context.Context, uid int64, role int) error {
	r.roleUpdates++
	if u, ok := r.users[uid]; ok {
		u.Role = role
	}
	return nil
}

func (r *fakeUserRepo) TouchLastVisit(ctx context.Context, uid int64) error {
	now := time.Now()
	if u, ok := r.users[uid]; ok {
		u.LastVisit = &now
	}
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, offset, limit int) ([]*model.User, error) {
	var out []*model.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int, error) {
	return len(r.users), nil
}

// fakeFavoriteRepo in-memory FavoriteRepository
type fakeFavoriteRepo struct {
	pairs  map[[2]int64]bool
	addErr error
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{pairs: make(map[[2]int64]bool)}
}

func (r *fakeFavoriteRepo) Add(ctx context.Context, uid, tid int64) error {
	if r.addErr != nil {
		return r.addErr
	}
	r.pairs[[2]int64{uid, tid}] = true
	return nil
}

func (r *fakeFavoriteRepo) Remove(ctx context.Context, uid, tid int64) error {
	delete(r.pairs, [2]int64{uid, tid})
	return nil
}

func (r *fakeFavoriteRepo) Exists(ctx context.Context, uid, tid int64) (bool, error) {
	return r.pairs[[2]int64{uid, tid}], nil
}

func (r *fakeFavoriteRepo) RecentThreads(ctx context.Context, uid int64, limit int) ([]*model.Thread, error) {
	return nil, nil
}

// fakeFaqRepo in-memory FaqRepository that counts listing reads
type fakeFaqRepo struct {
	categories []*model.FaqCategory
	faqs       []*model.Faq
	listCalls  int
}

func (r *fakeFaqRepo) ListCategories(ctx context.Context) ([]*model.FaqCategory, error) {
	r.listCalls++
	return r.categories, nil
}

func (r *fakeFaqRepo) GetCategory(ctx context.Context, cid int64) (*model.FaqCategory, error) {
	for _, c := range r.categories {
		if c.Cid == cid {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeFaqRepo) CreateCategory(ctx context.Context, cat *model.FaqCategory) error {
	r.categories = append(r.categories, cat)
	return nil
}

func (r *fakeFaqRepo) UpdateCategory(ctx context.Context, cat *model.FaqCategory) error {
	for i, c := range r.categories {
		if c.Cid == cat.Cid {
			r.categories[i] = cat
		}
	}
	return nil
}

func (r *fakeFaqRepo) DeleteCategory(ctx context.Context, cid int64) error {
	kept := r.categories[:0]
	for _, c := range r.categories {
		if c.Cid != cid {
			kept = append(kept, c)
		}
	}
	r.categories = kept
	return nil
}

func (r *fakeFaqRepo) ListFaqs(ctx context.Context) ([]*model.Faq, error) {
	return r.faqs, nil
}

func (r *fakeFaqRepo) GetFaq(ctx context.Context, fid int64) (*model.Faq, error) {
	for _, f := range r.faqs {
		if f.Fid == fid {
			return f, nil
		}
	}
	return nil, nil
}

func (r *fakeFaqRepo) CreateFaq(ctx context.Context, faq *model.Faq) error {
	r.faqs = append(r.faqs, faq)
	return nil
}

func (r *fakeFaqRepo) UpdateFaq(ctx context.Context, faq *model.Faq) error {
	for i, f := range r.faqs {
		if f.Fid == faq.Fid {
			r.faqs[i] = faq
		}
	}
	return nil
}

func (r *fakeFaqRepo) DeleteFaq(ctx context.Context, fid int64) error {
	kept := r.faqs[:0]
	for _, f := range r.faqs {
		if f.Fid != fid {
			kept = append(kept, f)
		}
	}
	r.faqs = kept
	return nil
}

// fakeNewsRepo in-memory NewsRepository
type fakeNewsRepo struct {
	items map[int64]*model.NewsItem
}

func newFakeNewsRepo(items ...*model.NewsItem) *fakeNewsRepo {
	r := &fakeNewsRepo{items: make(map[int64]*model.NewsItem)}
	for _, item := range items {
		r.items[item.Nid] = item
	}
	return r
}

func (r *fakeNewsRepo) GetByID(ctx context.Context, nid int64) (*model.NewsItem, error) {
	return r.items[nid], nil
}

func (r *fakeNewsRepo) GetPublishedByID(ctx context.Context, nid int64) (*model.NewsItem, error) {
	item := r.items[nid]
	if item == nil || !item.Published(time.Now()) {
		return nil, nil
	}
	return item, nil
}

func (r *fakeNewsRepo) ListPublished(ctx context.Context, offset, limit int) ([]*model.NewsItem, error) {
	var out []*model.NewsItem
	for _, item := range r.items {
		if item.Published(time.Now()) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeNewsRepo) CountPublished(ctx context.Context) (int, error) {
	n := 0
	for _, item := range r.items {
		if item.Published(time.Now()) {
			n++
		}
	}
	return n, nil
}

func (r *fakeNewsRepo) ListAll(ctx context.Context, offset, limit int) ([]*model.NewsItem, error) {
	var out []*model.NewsItem
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, nil
}

func (r *fakeNewsRepo) Count(ctx context.Context) (int, error) { return len(r.items), nil }

func (r *fakeNewsRepo) Create(ctx context.Context, item *model.NewsItem) error {
	r.items[item.Nid] = item
	return nil
}

func (r *fakeNewsRepo) Update(ctx context.Context, item *model.NewsItem) error {
	r.items[item.Nid] = item
	return nil
}

func (r *fakeNewsRepo) Delete(ctx context.Context, nid int64) error {
	delete(r.items, nid)
	return nil
}

func (r *fakeNewsRepo) GetSitemapList(ctx context.Context, offset, limit int) ([]*model.NewsItem, error) {
	return nil, nil
}
