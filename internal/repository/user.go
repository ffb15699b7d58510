package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/model"
)

const userColumns = "uid, name, username, email, password, birthday, bio, avatar, role, status, last_visit, created_at, updated_at"

// UserRepository user data access
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, uid int64) (*model.User, error)
	GetByIDs(ctx context.Context, uids []int64) ([]*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	UpdateRole(ctx context.Context, uid int64, role int) error
	TouchLastVisit(ctx context.Context, uid int64) error
	List(ctx context.Context, offset, limit int) ([]*model.User, error)
	Count(ctx context.Context) (int, error)
}

// NewUserRepository create user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

type userRepository struct {
	db *sqlx.DB
}

// Create insert a new user
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO user (uid, name, username, email, password, birthday, bio, avatar, role, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
	`
	_, err := r.db.ExecContext(ctx, query,
		user.Uid, user.Name, user.Username, user.Email, user.Password,
		user.Birthday, user.Bio, user.Avatar, user.Role, user.Status)
	return err
}

// GetByID fetch a user by uid
func (r *userRepository) GetByID(ctx context.Context, uid int64) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user,
		"SELECT "+userColumns+" FROM user WHERE uid = ?", uid)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIDs batch fetch, used to hydrate authors without N+1 queries
func (r *userRepository) GetByIDs(ctx context.Context, uids []int64) ([]*model.User, error) {
	if len(uids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(uids)), ",")
	args := make([]interface{}, len(uids))
	for i, uid := range uids {
		args[i] = uid
	}
	var users []*model.User
	err := r.db.SelectContext(ctx, &users,
		fmt.Sprintf("SELECT %s FROM user WHERE uid IN (%s)", userColumns, placeholders),
		args...)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// GetByUsername fetch a user by unique username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user,
		"SELECT "+userColumns+" FROM user WHERE username = ?", username)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail fetch a user by unique email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user,
		"SELECT "+userColumns+" FROM user WHERE email = ?", email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile update the self-editable profile fields
func (r *userRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	query := `
		UPDATE user SET name = ?, bio = ?, birthday = ?, avatar = ?, updated_at = NOW()
		WHERE uid = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		user.Name, user.Bio, user.Birthday, user.Avatar, user.Uid)
	return err
}

// UpdateRole promote or demote a user
func (r *userRepository) UpdateRole(ctx context.Context, uid int64, role int) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE user SET role = ?, updated_at = NOW() WHERE uid = ?", role, uid)
	return err
}

// TouchLastVisit stamp the login time. updated_at is pinned so the
// ON UPDATE trigger does not fire for a mere visit.
func (r *userRepository) TouchLastVisit(ctx context.Context, uid int64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE user SET last_visit = NOW(), updated_at = updated_at WHERE uid = ?", uid)
	return err
}

// List paginated users for the back office, newest first
func (r *userRepository) List(ctx context.Context, offset, limit int) ([]*model.User, error) {
	var users []*model.User
	err := r.db.SelectContext(ctx, &users,
		"SELECT "+userColumns+" FROM user ORDER BY created_at DESC, uid DESC LIMIT ?, ?",
		offset, limit)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Count total users
func (r *userRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM user"); err != nil {
		return 0, err
	}
	return count, nil
}
