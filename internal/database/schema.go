package database

import (
	"context"
	"database/sql"
	"log"

	"github.com/iliyamo/car-wash-booking/internal/model"
	"github.com/iliyamo/car-wash-booking/internal/utils"
)

// DDL statements for the three application tables.  All statements are
// IF NOT EXISTS so Init can run on every start.  Uniqueness of username
// and email lives in the schema; repositories translate duplicate-key
// errors instead of trusting their pre-checks.
var tableDDL = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(50) UNIQUE NOT NULL,
		email VARCHAR(100) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		full_name VARCHAR(100) NOT NULL,
		phone VARCHAR(20) NOT NULL,
		role VARCHAR(20) DEFAULT 'customer',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS services (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		description TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT,
		service_id INT,
		booking_date DATE NOT NULL,
		booking_time TIME NOT NULL,
		customer_name VARCHAR(100),
		customer_phone VARCHAR(20),
		customer_email VARCHAR(100),
		car_type VARCHAR(50),
		license_plate VARCHAR(20),
		car_color VARCHAR(30),
		notes TEXT,
		status VARCHAR(20) DEFAULT 'pending',
		total_amount DECIMAL(10,2),
		payment_status VARCHAR(20) DEFAULT 'pending',
		paypal_order_id VARCHAR(100),
		paypal_capture_id VARCHAR(100),
		payment_completed_at TIMESTAMP NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id),
		FOREIGN KEY (service_id) REFERENCES services(id)
	)`,
}

// defaultServices is the catalog seeded on first start.
var defaultServices = []model.Service{
	{Name: "Basic Wash", Price: 200, Description: "Simple exterior rinse and soap cleaning"},
	{Name: "Express Wash", Price: 300, Description: "Quick exterior wash and rinse (15 minutes)"},
	{Name: "Interior Cleaning", Price: 400, Description: "Vacuum, dashboard cleaning, and seat wiping"},
	{Name: "Standard Wash", Price: 500, Description: "Complete exterior wash with soap and wax"},
	{Name: "Engine Bay Cleaning", Price: 600, Description: "Professional engine compartment cleaning"},
	{Name: "Full Service Wash", Price: 700, Description: "Exterior wash + interior cleaning combo"},
	{Name: "Deep Cleaning", Price: 800, Description: "Thorough interior and exterior deep cleaning"},
	{Name: "Premium Detailing", Price: 1000, Description: "Complete premium cleaning with wax and protection"},
}

// Init creates the application tables and seeds default rows.  Table
// creation failures are fatal (returned to the caller); seeding is
// best-effort and idempotent: a seed step that fails, for example because a
// concurrent instance won the duplicate-key race, is logged and skipped.
func Init(ctx context.Context, db *sql.DB, adminPassword string, bcryptCost int) error {
	for _, ddl := range tableDDL {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return err
		}
	}
	if err := seedAdmin(ctx, db, adminPassword, bcryptCost); err != nil {
		log.Printf("database: admin seed skipped: %v", err)
	}
	if err := seedServices(ctx, db); err != nil {
		log.Printf("database: service seed skipped: %v", err)
	}
	log.Printf("database: schema initialized")
	return nil
}

// seedAdmin inserts the default admin account when no admin row exists.
// The password comes from configuration; it is never logged.
func seedAdmin(ctx context.Context, db *sql.DB, password string, cost int) error {
	var n int
	if err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE role = ?", model.RoleAdmin).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, full_name, phone, role) VALUES (?,?,?,?,?,?)",
		"admin", "admin@gmail.com", hash, "System Administrator", "09123456789", model.RoleAdmin)
	if err != nil {
		return err
	}
	log.Printf("database: default admin user created")
	return nil
}

// seedServices bulk-inserts the default catalog when the services table is
// empty.
func seedServices(ctx context.Context, db *sql.DB) error {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM services").Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	query := "INSERT INTO services (name, price, description) VALUES "
	args := make([]interface{}, 0, len(defaultServices)*3)
	for i, s := range defaultServices {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, s.Name, s.Price, s.Description)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return err
	}
	log.Printf("database: default services inserted")
	return nil
}
