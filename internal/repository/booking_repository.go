package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/car-wash-booking/internal/model"
)

// BookingRepo manages persistence for bookings.  All multi-step sequences
// (price snapshot on create, status transitions, payment completion) run
// inside transactions or single conditional statements so concurrent
// requests cannot interleave between a check and its act.
type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

const bookingColumns = `id, user_id, service_id, booking_date, booking_time,
	customer_name, customer_phone, customer_email, car_type, license_plate, car_color,
	notes, status, total_amount, payment_status, paypal_order_id, paypal_capture_id,
	payment_completed_at, created_at`

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface{ Scan(dest ...interface{}) error }

// scanBooking maps one result row onto a Booking, converting nullable
// columns and normalizing the DATE/TIME representations.  booking_date
// arrives as time.Time (parseTime=true) and is rendered as YYYY-MM-DD;
// booking_time arrives as the raw TIME string.
func scanBooking(sc rowScanner) (model.Booking, error) {
	var (
		b           model.Booking
		userID      sql.NullInt64
		date        time.Time
		bookingTime string
		orderID     sql.NullString
		captureID   sql.NullString
		completedAt sql.NullTime
	)
	err := sc.Scan(&b.ID, &userID, &b.ServiceID, &date, &bookingTime,
		&b.CustomerName, &b.CustomerPhone, &b.CustomerEmail, &b.CarType, &b.LicensePlate, &b.CarColor,
		&b.Notes, &b.Status, &b.TotalAmount, &b.PaymentStatus, &orderID, &captureID,
		&completedAt, &b.CreatedAt)
	if err != nil {
		return model.Booking{}, err
	}
	if userID.Valid {
		uid := uint64(userID.Int64)
		b.UserID = &uid
	}
	b.BookingDate = date.Format("2006-01-02")
	b.BookingTime = bookingTime
	if orderID.Valid {
		b.PayPalOrderID = &orderID.String
	}
	if captureID.Valid {
		b.PayPalCaptureID = &captureID.String
	}
	if completedAt.Valid {
		t := completedAt.Time
		b.PaymentCompletedAt = &t
	}
	return b, nil
}

// Create resolves the referenced service, snapshots its current price into
// total_amount, and inserts the booking, all within one transaction.
// Status and payment_status start as their schema defaults ("pending").
// Returns ErrNotFound when the service does not exist.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var price float64
	err = tx.QueryRowContext(ctx,
		"SELECT price FROM services WHERE id=?", b.ServiceID).Scan(&price)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	b.TotalAmount = price

	var userID interface{}
	if b.UserID != nil {
		userID = *b.UserID
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (user_id, service_id, booking_date, booking_time,
			customer_name, customer_phone, customer_email, car_type, license_plate, car_color,
			notes, total_amount) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		userID, b.ServiceID, b.BookingDate, b.BookingTime,
		b.CustomerName, b.CustomerPhone, b.CustomerEmail, b.CarType, b.LicensePlate, b.CarColor,
		b.Notes, b.TotalAmount)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := scanBooking(tx.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id=?", id))
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	*b = stored
	return nil
}

// GetByID fetches one booking.  Returns ErrNotFound when absent.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	b, err := scanBooking(r.DB.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.Booking{}, ErrNotFound
	}
	return b, err
}

// GetByOrderID fetches the booking holding the given PayPal order id.
func (r *BookingRepo) GetByOrderID(ctx context.Context, orderID string) (model.Booking, error) {
	b, err := scanBooking(r.DB.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE paypal_order_id=? LIMIT 1", orderID))
	if err == sql.ErrNoRows {
		return model.Booking{}, ErrNotFound
	}
	return b, err
}

// ListAll returns every booking, newest first.  Admin-only.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	return r.list(ctx,
		"SELECT "+bookingColumns+" FROM bookings ORDER BY created_at DESC")
}

// ListForUser returns bookings owned by the user, including rows created as
// a guest with the same email before the account existed.
func (r *BookingRepo) ListForUser(ctx context.Context, userID uint64, email string) ([]model.Booking, error) {
	return r.list(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE user_id=? OR customer_email=? ORDER BY created_at DESC",
		userID, email)
}

func (r *BookingRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Booking, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateStatus transitions a booking's status.  The current status is read
// under FOR UPDATE and checked against the lifecycle policy before the
// write, so two concurrent transitions serialize on the row lock.  Returns
// ErrNotFound for a missing booking and ErrInvalidTransition when the
// policy rejects the move.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, newStatus string) (model.Booking, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Booking{}, err
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctx,
		"SELECT status FROM bookings WHERE id=? FOR UPDATE", id).Scan(&current)
	if err == sql.ErrNoRows {
		return model.Booking{}, ErrNotFound
	}
	if err != nil {
		return model.Booking{}, err
	}
	if !model.CanTransition(current, newStatus) {
		return model.Booking{}, ErrInvalidTransition
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE bookings SET status=? WHERE id=?", newStatus, id); err != nil {
		return model.Booking{}, err
	}
	b, err := scanBooking(tx.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id=?", id))
	if err != nil {
		return model.Booking{}, err
	}
	return b, tx.Commit()
}

// SetOrderID stores the PayPal order id created for the booking.  Returns
// ErrNotFound when the booking is missing.
func (r *BookingRepo) SetOrderID(ctx context.Context, id uint64, orderID string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE bookings SET paypal_order_id=? WHERE id=?", orderID, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var found uint64
		if err := r.DB.QueryRowContext(ctx,
			"SELECT id FROM bookings WHERE id=?", id).Scan(&found); err == sql.ErrNoRows {
			return ErrNotFound
		}
	}
	return nil
}

// CompleteByOrderID marks the payment captured: it sets
// payment_status='completed', records the capture id and the completion
// time.  The WHERE clause only matches while payment_status is still
// 'pending', which makes a second capture of the same order a no-op.  The
// bool result reports whether this call applied the transition.  Returns
// ErrNotFound when no booking carries the order id.
func (r *BookingRepo) CompleteByOrderID(ctx context.Context, orderID, captureID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE bookings SET payment_status=?, paypal_capture_id=?, payment_completed_at=NOW()
		 WHERE paypal_order_id=? AND payment_status=?`,
		model.PaymentCompleted, captureID, orderID, model.PaymentPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}
	// Nothing updated: the order is unknown or already completed.
	var status string
	err = r.DB.QueryRowContext(ctx,
		"SELECT payment_status FROM bookings WHERE paypal_order_id=?", orderID).Scan(&status)
	if err == sql.ErrNoRows {
		return false, ErrNotFound
	}
	return false, err
}
