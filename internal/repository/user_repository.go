package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avoskan/taskboard/internal/model"
)

const userColumns = "id,guid,username,email,name,password_hash,last_login,is_deleted,created_at,updated_at"

// UserRepo implements UserStore against MySQL.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u         model.User
		lastLogin sql.NullTime
	)
	err := row.Scan(&u.ID, &u.GUID, &u.Username, &u.Email, &u.Name,
		&u.PasswordHash, &lastLogin, &u.IsDeleted, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	return &u, nil
}

// GetByID fetches a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", username))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByUsernameOrEmail fetches a user whose username or email matches the
// identifier. This is the lookup token subjects resolve through, so it
// must accept either form.
func (r *UserRepo) GetByUsernameOrEmail(ctx context.Context, identifier string) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? OR email=? LIMIT 1",
		identifier, strings.ToLower(identifier)))
}

// Create inserts the user and populates ID, GUID and DB-default fields.
// Email is normalized to lowercase before storage so uniqueness is
// case-insensitive.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.GUID = uuid.NewString()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (guid, username, email, name, password_hash) VALUES (?,?,?,?,?)",
		u.GUID, u.Username, u.Email, u.Name, u.PasswordHash)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	// Read the row back to pick up created_at/updated_at defaults.
	fresh, err := r.GetByID(ctx, u.ID)
	if err != nil {
		return err
	}
	*u = *fresh
	return nil
}

// UpdateLastLogin stamps the user's last_login column.
func (r *UserRepo) UpdateLastLogin(ctx context.Context, id uint64, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET last_login=? WHERE id=?", at.UTC(), id)
	return err
}

// SoftDelete flags the user as deleted; the row and its tasks remain.
func (r *UserRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_deleted=1 WHERE id=? AND is_deleted=0", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
