package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.  When dsn is
// non-empty it is used verbatim (DATABASE_URL deployments); otherwise the
// DSN is assembled from the discrete parameters.  tlsMode maps to the
// driver's tls parameter ("true" verifies the server certificate,
// "skip-verify" encrypts without verification, empty disables TLS).
func Open(dsn, user, pass, host, port, name, tlsMode string) (*sql.DB, error) {
	if dsn == "" {
		auth := user
		if pass != "" {
			auth = fmt.Sprintf("%s:%s", user, pass)
		}
		// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
		dsn = fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			auth, host, port, name)
		if tlsMode != "" {
			dsn += "&tls=" + tlsMode
		}
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
