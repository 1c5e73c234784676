package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/car-wash-booking/internal/model"
	"github.com/iliyamo/car-wash-booking/internal/utils"
)

// ErrUserExists is returned when the username or email is already taken.
var ErrUserExists = errors.New("username or email already exists")

// ErrEmailInUse is returned when a profile update targets an email that
// belongs to a different account.
var ErrEmailInUse = errors.New("email already in use by another account")

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,username,email,password_hash,full_name,phone,role,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.FullName, &u.Phone, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create hashes the password, inserts the user and re-reads the stored row
// so DB defaults (role, timestamps) are populated.  The UNIQUE constraints
// on username and email are authoritative; a duplicate-key error is
// translated to ErrUserExists regardless of any earlier existence check.
func (r *UserRepo) Create(ctx context.Context, u *model.User, password string, cost int) error {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	role := u.Role
	if role == "" {
		role = model.RoleCustomer
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, full_name, phone, role) VALUES (?,?,?,?,?,?)",
		u.Username, u.Email, hash, u.FullName, u.Phone, role)
	if err != nil {
		if isDuplicate(err) {
			return ErrUserExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*u = stored
	return nil
}

// GetByID fetches a user by id.  Returns ErrNotFound when absent.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetByIdentifier fetches a user by username OR email, which is how login
// accepts either credential.  Returns ErrNotFound when absent.
func (r *UserRepo) GetByIdentifier(ctx context.Context, identifier string) (model.User, error) {
	identifier = strings.TrimSpace(identifier)
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? OR email=? LIMIT 1",
		identifier, strings.ToLower(identifier)))
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// Exists reports whether any user already holds the username or email.
// Kept for the friendlier registration error message; Create still relies
// on the UNIQUE constraints for correctness.
func (r *UserRepo) Exists(ctx context.Context, username, email string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE username=? OR email=?",
		strings.TrimSpace(username), strings.ToLower(strings.TrimSpace(email))).Scan(&n)
	return n > 0, err
}

// UpdateProfile sets full_name, phone and email for the user and returns
// the updated row.  A duplicate email is reported as ErrEmailInUse.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, fullName, phone, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET full_name=?, phone=?, email=? WHERE id=?",
		fullName, phone, email, id)
	if err != nil {
		if isDuplicate(err) {
			return model.User{}, ErrEmailInUse
		}
		return model.User{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Either the row is missing or nothing changed; distinguish by
		// re-reading.  GetByID returns ErrNotFound for a missing user.
		return r.GetByID(ctx, id)
	}
	return r.GetByID(ctx, id)
}

// List returns all users ordered by id.  Used by the admin user listing.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
			&u.FullName, &u.Phone, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// HasAdmin reports whether any admin account exists.  Used by the gated
// bootstrap endpoint.
func (r *UserRepo) HasAdmin(ctx context.Context) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE role=?", model.RoleAdmin).Scan(&n)
	return n > 0, err
}
