package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/model"
)

func TestReplyRepository_Create_BumpsThreadCounter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReplyRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO reply (rid, tid, uid, body, created_at, updated_at) VALUES (?, ?, ?, ?, NOW(), NOW())")).
		WithArgs(int64(10), int64(7), int64(1), "nice race").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE thread SET replies = replies + 1 WHERE tid = ?")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), &model.Reply{Rid: 10, Tid: 7, Uid: 1, Body: "nice race"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestReplyRepository_Delete_DropsThreadCounter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReplyRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT rid, tid, uid, body, created_at, updated_at FROM reply WHERE rid = ?")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"rid", "tid", "uid", "body", "created_at", "updated_at"}).
			AddRow(int64(10), int64(7), int64(1), "nice race", now, now))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reply WHERE rid = ?")).
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE thread SET replies = GREATEST(replies - 1, 0) WHERE tid = ?")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Delete(context.Background(), 10); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestReplyRepository_Delete_MissingReplyIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReplyRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT rid, tid, uid, body, created_at, updated_at FROM reply WHERE rid = ?")).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"rid", "tid", "uid", "body", "created_at", "updated_at"}))

	if err := repo.Delete(context.Background(), 404); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
