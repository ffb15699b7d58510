package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/pkg/apperr"
)

func TestFavoriteRepository_Add(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFavoriteRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO thread_favorite (uid, tid, created_at) VALUES (?, ?, NOW())")).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Add(context.Background(), 1, 2); err != nil {
		t.Fatalf("Add: %v", err)
	}
}

func TestFavoriteRepository_Add_DuplicateKey(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFavoriteRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO thread_favorite (uid, tid, created_at) VALUES (?, ?, NOW())")).
		WithArgs(int64(1), int64(2)).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '1-2' for key 'PRIMARY'"})

	err := repo.Add(context.Background(), 1, 2)
	if !errors.Is(err, apperr.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestFavoriteRepository_Exists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFavoriteRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM thread_favorite WHERE uid = ? AND tid = ?")).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := repo.Exists(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !ok {
		t.Fatal("expected favorite to exist")
	}
}

func TestFavoriteRepository_RecentThreads_OrdersByFavoriteTime(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFavoriteRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"tid", "uid", "title", "body", "is_pinned", "replies", "created_at", "updated_at"}).
		AddRow(int64(9), int64(1), "newest fav", "body", false, 3, now, now).
		AddRow(int64(4), int64(1), "older fav", "body", false, 0, now, now)

	mock.ExpectQuery("SELECT t.tid, t.uid, t.title, t.body, t.is_pinned, t.replies, t.created_at, t.updated_at\\s+FROM thread_favorite f\\s+JOIN thread t ON t.tid = f.tid\\s+WHERE f.uid = \\?\\s+ORDER BY f.created_at DESC\\s+LIMIT \\?").
		WithArgs(int64(1), 5).
		WillReturnRows(rows)

	threads, err := repo.RecentThreads(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("RecentThreads: %v", err)
	}
	if len(threads) != 2 || threads[0].Tid != 9 {
		t.Fatalf("unexpected result: %+v", threads)
	}
}
