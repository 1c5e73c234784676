package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/car-wash-booking/internal/model"
)

// ServiceRepo manages persistence for catalog services.
type ServiceRepo struct{ DB *sql.DB }

func NewServiceRepo(db *sql.DB) *ServiceRepo { return &ServiceRepo{DB: db} }

// List returns all services ordered by id ascending.
func (r *ServiceRepo) List(ctx context.Context) ([]model.Service, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,price,description FROM services ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Service
	for rows.Next() {
		var s model.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Price, &s.Description); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetByID fetches a single service.  Returns ErrNotFound when absent.
func (r *ServiceRepo) GetByID(ctx context.Context, id uint64) (model.Service, error) {
	var s model.Service
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,price,description FROM services WHERE id=? LIMIT 1", id).
		Scan(&s.ID, &s.Name, &s.Price, &s.Description)
	if err == sql.ErrNoRows {
		return model.Service{}, ErrNotFound
	}
	return s, err
}

// Create inserts a service and populates the generated ID on s.
func (r *ServiceRepo) Create(ctx context.Context, s *model.Service) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO services (name, price, description) VALUES (?,?,?)",
		s.Name, s.Price, s.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// Update rewrites name, price and description of an existing service.  The
// existence check and the update run in one transaction so a concurrent
// delete cannot slip between them.  Returns ErrNotFound when the id is
// absent.
func (r *ServiceRepo) Update(ctx context.Context, s *model.Service) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM services WHERE id=? FOR UPDATE", s.ID).Scan(&id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE services SET name=?, price=?, description=? WHERE id=?",
		s.Name, s.Price, s.Description, s.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a service unless any booking references it.  The guard
// count and the delete run in one transaction; a referencing booking makes
// the operation fail with ErrConflict and leaves the row intact.
func (r *ServiceRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var found uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM services WHERE id=? FOR UPDATE", id).Scan(&found)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	var refs int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings WHERE service_id=?", id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM services WHERE id=?", id); err != nil {
		return err
	}
	return tx.Commit()
}
