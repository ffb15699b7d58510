package service

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/model"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/apperr"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/policy"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/upload"
)

func TestParsePublishedAt(t *testing.T) {
	cases := []struct {
		raw  string
		want string // expected time in UTC, empty means draft
		ok   bool
	}{
		{"", "", true},
		{"2026-05-24T14:00:00Z", "2026-05-24 14:00:00", true},
		{"2026-05-24 14:00:00", "2026-05-24 14:00:00", true},
		{"2026-05-24T14:00", "2026-05-24 14:00:00", true},
		{"2026-05-24", "2026-05-24 00:00:00", true},
		{"next tuesday", "", false},
		{"24/05/2026", "", false},
	}

	for _, tc := range cases {
		got, err := parsePublishedAt(tc.raw)
		if tc.ok && err != nil {
			t.Errorf("parsePublishedAt(%q): %v", tc.raw, err)
			continue
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("parsePublishedAt(%q): expected error", tc.raw)
			}
			continue
		}
		if tc.want == "" {
			if got != nil {
				t.Errorf("parsePublishedAt(%q) = %v, want draft (nil)", tc.raw, got)
			}
			continue
		}
		if got == nil || got.UTC().Format("2006-01-02 15:04:05") != tc.want {
			t.Errorf("parsePublishedAt(%q) = %v, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestNewsItemPublished(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	draft := &model.NewsItem{Nid: 1}
	if draft.Published(now) {
		t.Fatal("draft must not be public")
	}

	live := &model.NewsItem{Nid: 2, PublishedAt: &past}
	if !live.Published(now) {
		t.Fatal("past publish date must be public")
	}

	scheduled := &model.NewsItem{Nid: 3, PublishedAt: &future}
	if scheduled.Published(now) {
		t.Fatal("scheduled item must stay hidden until its publish time")
	}
}

func newTestNewsService(t *testing.T, repo *fakeNewsRepo) *NewsService {
	t.Helper()
	userSvc := newTestUserService(t, newFakeUserRepo(
		&model.User{Uid: 1, Username: "boss", Role: policy.RoleAdmin},
		&model.User{Uid: 7, Username: "editor", Role: policy.RoleAdmin},
	))
	store, err := upload.NewStore(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("image store: %v", err)
	}
	_, client := newTestRedis(t)
	return NewNewsService(repo, userSvc, store, client, testCacheConfig())
}

// coverImage builds a FileHeader the way a multipart request would carry it
func coverImage(t *testing.T, filename string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := fw.Write([]byte("not a real png but close enough")); err != nil {
		t.Fatalf("write image: %v", err)
	}
	mw.Close()

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["image"][0]
}

func TestNewsService_Create_RequiresImage(t *testing.T) {
	repo := newFakeNewsRepo()
	svc := newTestNewsService(t, repo)

	req := &model.CreateNewsRequest{Title: "Silly season", Content: "Driver market news."}
	_, err := svc.Create(context.Background(), 7, req, nil)

	var ae *apperr.AppError
	if !errors.As(err, &ae) || ae.Code != apperr.CodeImageInvalid {
		t.Fatalf("expected image-invalid error, got %v", err)
	}
	if len(repo.items) != 0 {
		t.Fatal("article persisted without an image")
	}
}

func TestNewsService_Create_RejectsBadExtension(t *testing.T) {
	repo := newFakeNewsRepo()
	svc := newTestNewsService(t, repo)

	req := &model.CreateNewsRequest{Title: "Silly season", Content: "Driver market news."}
	_, err := svc.Create(context.Background(), 7, req, coverImage(t, "notes.txt"))

	var ae *apperr.AppError
	if !errors.As(err, &ae) || ae.Code != apperr.CodeImageInvalid {
		t.Fatalf("expected image-invalid error, got %v", err)
	}
}

func TestNewsService_Create_StampsTimestamps(t *testing.T) {
	repo := newFakeNewsRepo()
	svc := newTestNewsService(t, repo)

	before := time.Now().Unix()
	req := &model.CreateNewsRequest{Title: "Monza preview", Content: "Temple of speed."}
	dto, err := svc.Create(context.Background(), 7, req, coverImage(t, "cover.png"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if dto.Image == "" {
		t.Fatal("stored image name missing from response")
	}
	if dto.CreatedAt < before || dto.UpdatedAt < before {
		t.Fatalf("timestamps not stamped: created %d updated %d", dto.CreatedAt, dto.UpdatedAt)
	}
}

func TestNewsService_Update_AuthorOrAdmin(t *testing.T) {
	repo := newFakeNewsRepo(&model.NewsItem{Nid: 10, Uid: 7, Title: "Draft", Content: "wip"})
	svc := newTestNewsService(t, repo)
	req := &model.UpdateNewsRequest{Title: "Final", Content: "done"}

	member := &policy.Viewer{UID: 9, Username: "fan", Role: policy.RoleUser}
	if _, err := svc.Update(context.Background(), member, 10, req, nil); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("member update: got %v, want forbidden", err)
	}
	if repo.items[10].Title != "Draft" {
		t.Fatal("forbidden update modified the article")
	}

	admin := &policy.Viewer{UID: 1, Username: "boss", Role: policy.RoleAdmin}
	if _, err := svc.Update(context.Background(), admin, 10, req, nil); err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if repo.items[10].Title != "Final" {
		t.Fatal("admin update not persisted")
	}
}

func TestNewsService_Delete_AuthorOrAdmin(t *testing.T) {
	repo := newFakeNewsRepo(&model.NewsItem{Nid: 10, Uid: 7, Title: "Draft", Content: "wip"})
	svc := newTestNewsService(t, repo)

	member := &policy.Viewer{UID: 9, Username: "fan", Role: policy.RoleUser}
	if err := svc.Delete(context.Background(), member, 10); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("member delete: got %v, want forbidden", err)
	}
	if repo.items[10] == nil {
		t.Fatal("forbidden delete removed the article")
	}

	author := &policy.Viewer{UID: 7, Username: "editor", Role: policy.RoleAdmin}
	if err := svc.Delete(context.Background(), author, 10); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if repo.items[10] != nil {
		t.Fatal("article still present after delete")
	}
}
